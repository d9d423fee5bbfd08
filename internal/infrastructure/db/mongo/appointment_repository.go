package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

const (
	collectionAppointments = "appointments"
	// activeSlotIndex makes (date, time, stylist) unique among documents with
	// active=true. Cancelled appointments carry active=false and fall outside
	// the index, so their slot can be booked again.
	activeSlotIndex = "uniq_active_slot"
)

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

var _ ports.AppointmentRepository = (*AppointmentRepository)(nil)

type appointmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Service   string             `bson:"service"`
	Stylist   string             `bson:"stylist"`
	Date      string             `bson:"date"`
	Time      string             `bson:"time"`
	Status    string             `bson:"status"`
	Active    bool               `bson:"active"`
	Notes     string             `bson:"notes,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func toAppointmentDoc(a *domain.Appointment) appointmentDoc {
	return appointmentDoc{
		FirstName: a.Client.FirstName,
		LastName:  a.Client.LastName,
		Email:     a.Client.Email,
		Phone:     a.Client.Phone,
		Service:   string(a.Service),
		Stylist:   string(a.Stylist),
		Date:      a.Date,
		Time:      a.Time,
		Status:    string(a.Status),
		Active:    a.Status.HoldsSlot(),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
}

func (d appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID: d.ID.Hex(),
		Client: domain.Client{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Phone:     d.Phone,
		},
		Service:   domain.ServiceCode(d.Service),
		Stylist:   domain.StylistCode(d.Stylist),
		Date:      d.Date,
		Time:      d.Time,
		Status:    domain.AppointmentStatus(d.Status),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Insert adds a new appointment. A duplicate key on the active-slot index
// means another booking already holds the slot.
func (r *AppointmentRepository) Insert(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAppointmentDoc(a)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotConflict
		}
		return storeError("insert appointment", err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, storeError("find appointment", err)
	}
	return doc.toDomain(), nil
}

// Find returns appointments matching filter sorted by date then time.
func (r *AppointmentRepository) Find(ctx context.Context, f ports.AppointmentFilter) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.Stylist != "" {
		filter["stylist"] = string(f.Stylist)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.ActiveOnly {
		filter["active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError("find appointments", err)
	}
	defer cursor.Close(ctx)

	var docs []appointmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode appointments", err)
	}

	out := make([]*domain.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateByID overwrites the mutable fields and keeps active in step with the
// status. Moving onto a held slot trips the active-slot index.
func (r *AppointmentRepository) UpdateByID(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	doc := toAppointmentDoc(a)
	update := bson.M{"$set": bson.M{
		"first_name": doc.FirstName,
		"last_name":  doc.LastName,
		"email":      doc.Email,
		"phone":      doc.Phone,
		"service":    doc.Service,
		"stylist":    doc.Stylist,
		"date":       doc.Date,
		"time":       doc.Time,
		"status":     doc.Status,
		"active":     doc.Active,
		"notes":      doc.Notes,
		"updated_at": doc.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated appointmentDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrAppointmentNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrSlotConflict
		}
		return nil, storeError("update appointment", err)
	}
	return updated.toDomain(), nil
}

func (r *AppointmentRepository) DeleteByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	var deleted appointmentDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, storeError("delete appointment", err)
	}
	return deleted.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the appointments collection.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}, {Key: "stylist", Value: 1}},
			Options: options.Index().
				SetName(activeSlotIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "stylist", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
