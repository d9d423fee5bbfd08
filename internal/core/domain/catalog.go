package domain

import (
	"fmt"
	"time"
)

// ServiceCode identifies a salon service offering. Only codes present in the
// Catalog are valid.
type ServiceCode string

// StylistCode identifies a bookable stylist. Only codes present in the Catalog
// are valid.
type StylistCode string

// ServiceOffering is one entry of the service menu.
type ServiceOffering struct {
	Code        ServiceCode `json:"code"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	DurationMin int         `json:"duration_min"`
	Price       float64     `json:"price"`
	Category    string      `json:"category"`
}

// Duration returns the service length.
func (s ServiceOffering) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}

// Stylist is one bookable member of staff.
type Stylist struct {
	Code        StylistCode    `json:"code"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Title       string         `json:"title"`
	Specialties []ServiceCode  `json:"specialties"`
	WorkDays    []time.Weekday `json:"work_days"`
}

// WorksOn reports whether the stylist works on the given weekday.
func (s Stylist) WorksOn(day time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == day {
			return true
		}
	}
	return false
}

// Catalog is the single source of truth for the service and stylist
// enumerations. It is immutable after construction.
type Catalog struct {
	services     []ServiceOffering
	stylists     []Stylist
	serviceIndex map[ServiceCode]int
	stylistIndex map[StylistCode]int
}

// NewCatalog builds a Catalog, rejecting empty or duplicate codes and
// specialties that reference unknown services.
func NewCatalog(services []ServiceOffering, stylists []Stylist) (*Catalog, error) {
	c := &Catalog{
		services:     append([]ServiceOffering(nil), services...),
		stylists:     append([]Stylist(nil), stylists...),
		serviceIndex: make(map[ServiceCode]int, len(services)),
		stylistIndex: make(map[StylistCode]int, len(stylists)),
	}
	for i, s := range c.services {
		if s.Code == "" {
			return nil, fmt.Errorf("catalog: service %d has no code", i)
		}
		if _, dup := c.serviceIndex[s.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate service %q", s.Code)
		}
		c.serviceIndex[s.Code] = i
	}
	for i, st := range c.stylists {
		if st.Code == "" {
			return nil, fmt.Errorf("catalog: stylist %d has no code", i)
		}
		if _, dup := c.stylistIndex[st.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate stylist %q", st.Code)
		}
		for _, sp := range st.Specialties {
			if _, ok := c.serviceIndex[sp]; !ok {
				return nil, fmt.Errorf("catalog: stylist %q lists unknown specialty %q", st.Code, sp)
			}
		}
		c.stylistIndex[st.Code] = i
	}
	return c, nil
}

// Service looks up a service offering by code.
func (c *Catalog) Service(code string) (ServiceOffering, bool) {
	i, ok := c.serviceIndex[ServiceCode(code)]
	if !ok {
		return ServiceOffering{}, false
	}
	return c.services[i], true
}

// Stylist looks up a stylist by code.
func (c *Catalog) Stylist(code string) (Stylist, bool) {
	i, ok := c.stylistIndex[StylistCode(code)]
	if !ok {
		return Stylist{}, false
	}
	return c.stylists[i], true
}

// Services returns the service menu in catalog order.
func (c *Catalog) Services() []ServiceOffering {
	return append([]ServiceOffering(nil), c.services...)
}

// Stylists returns the stylists in catalog order.
func (c *Catalog) Stylists() []Stylist {
	return append([]Stylist(nil), c.stylists...)
}

// ServiceCodes returns every valid service code.
func (c *Catalog) ServiceCodes() []string {
	out := make([]string, 0, len(c.services))
	for _, s := range c.services {
		out = append(out, string(s.Code))
	}
	return out
}

// StylistCodes returns every valid stylist code.
func (c *Catalog) StylistCodes() []string {
	out := make([]string, 0, len(c.stylists))
	for _, s := range c.stylists {
		out = append(out, string(s.Code))
	}
	return out
}

var mondayToSaturday = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

// DefaultCatalog returns the salon's service menu and team.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		[]ServiceOffering{
			{Code: "coupe", Name: "Coupe", Description: "Coupe personnalisée selon votre style", DurationMin: 60, Price: 35, Category: "coiffure"},
			{Code: "coloration", Name: "Coloration", Description: "Coloration complète avec produits professionnels", DurationMin: 120, Price: 65, Category: "coloration"},
			{Code: "meches", Name: "Mèches", Description: "Mèches et balayage", DurationMin: 180, Price: 85, Category: "coloration"},
			{Code: "brushing", Name: "Brushing", Description: "Mise en forme et brushing professionnel", DurationMin: 45, Price: 25, Category: "coiffure"},
			{Code: "shampoing", Name: "Shampoing", Description: "Lavage avec soins adaptés", DurationMin: 30, Price: 15, Category: "soin"},
			{Code: "coiffure-mariage", Name: "Coiffure Mariage", Description: "Coiffure élégante pour votre jour J", DurationMin: 150, Price: 120, Category: "événement"},
		},
		[]Stylist{
			{Code: "sarah", FirstName: "Sarah", LastName: "Martin", Title: "Directrice Artistique", Specialties: []ServiceCode{"coupe", "coloration", "coiffure-mariage"}, WorkDays: mondayToSaturday},
			{Code: "marie", FirstName: "Marie", LastName: "Dubois", Title: "Spécialiste Coloration", Specialties: []ServiceCode{"meches", "coloration", "coiffure-mariage"}, WorkDays: mondayToSaturday},
			{Code: "julie", FirstName: "Julie", LastName: "Rousseau", Title: "Coiffeuse Styliste", Specialties: []ServiceCode{"coupe", "brushing", "shampoing"}, WorkDays: mondayToSaturday},
			{Code: "antoine", FirstName: "Antoine", LastName: "Bernard", Title: "Coiffeur Barbier", Specialties: []ServiceCode{"coupe", "coloration"}, WorkDays: mondayToSaturday},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}
