package models

// AnyStaff is the sentinel staff id meaning "assign whichever active staff
// member is free at the chosen time". It never corresponds to a stored staff
// document; reservation and availability resolve it on the fly.
const AnyStaff = "any"

// Salon is a service provider listing. Onboarding and approval flows are
// managed elsewhere; the booking core only reads salons.
type Salon struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Phone  string `bson:"phone" json:"phone"`
	City   string `bson:"city,omitempty" json:"city,omitempty"`
	Active bool   `bson:"active" json:"active"`
}

// Staff is a bookable member of a salon.
type Staff struct {
	ID      string `bson:"id" json:"id"`
	SalonID string `bson:"salonId" json:"salonId"`
	Name    string `bson:"name" json:"name"`
	Active  bool   `bson:"active" json:"active"`
}

// Service is an offering with a fixed duration and price.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	SalonID         string  `bson:"salonId" json:"salonId"`
	Name            string  `bson:"name" json:"name"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
	Price           float64 `bson:"price" json:"price"`
}
