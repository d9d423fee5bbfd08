// Command seed creates the default admin and stylist accounts. Accounts that
// already exist are left untouched, so it is safe to run on every deploy.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
	"github.com/belleallure/salon-api/internal/core/service"
	mongodb "github.com/belleallure/salon-api/internal/infrastructure/db/mongo"
	"github.com/belleallure/salon-api/internal/pkg/config"
	"github.com/belleallure/salon-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "salon-seed", Output: os.Stderr})
		bootLog.Fatal().Err(err).Msg("configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "salon-seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "salon-seed"})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer client.Disconnect(context.Background())

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	catalog := domain.DefaultCatalog()
	auth := service.NewAuthService(mongodb.NewAuthRepository(db), catalog, cfg.JWTSecret, cfg.JWTTTL)

	created, skipped := 0, 0
	for _, in := range defaultAccounts(catalog, cfg.SeedPassword) {
		_, err := auth.Register(ctx, in)
		switch {
		case err == nil:
			created++
			log.Info().Str("username", in.Username).Str("role", in.Role).Msg("account created")
		case errors.Is(err, domain.ErrUserExists):
			skipped++
			log.Debug().Str("username", in.Username).Msg("account exists")
		default:
			log.Fatal().Err(err).Str("username", in.Username).Msg("seed failed")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("seed complete")
}

// defaultAccounts returns the admin plus one account per catalog stylist.
func defaultAccounts(catalog *domain.Catalog, password string) []ports.RegisterInput {
	accounts := []ports.RegisterInput{{
		Username:  "admin",
		Password:  password,
		Email:     "admin@salonbelleallure.fr",
		Role:      domain.RoleAdmin,
		FirstName: "Admin",
		LastName:  "Salon",
	}}
	for _, st := range catalog.Stylists() {
		days := make([]int, 0, len(st.WorkDays))
		for _, d := range st.WorkDays {
			days = append(days, int(d))
		}
		specialties := make([]string, 0, len(st.Specialties))
		for _, sp := range st.Specialties {
			specialties = append(specialties, string(sp))
		}
		accounts = append(accounts, ports.RegisterInput{
			Username:    string(st.Code),
			Password:    password,
			Email:       string(st.Code) + "@salonbelleallure.fr",
			Role:        domain.RoleStylist,
			FirstName:   st.FirstName,
			LastName:    st.LastName,
			Specialties: specialties,
			WorkDays:    days,
			WorkHours:   &domain.WorkHours{Start: "09:00", End: "18:00"},
		})
	}
	return accounts
}
