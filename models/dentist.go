package models

import "time"

// Slot is a single bookable unit of a dentist's calendar. A slot is
// either free, or booked with a reference to the appointment that owns
// it; the two fields move together.
type Slot struct {
	Time          string `bson:"time" json:"time"`
	Booked        bool   `bson:"booked" json:"booked"`
	AppointmentID string `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
}

// DateSlots groups the slots offered on a single calendar date.
type DateSlots struct {
	Date  string `bson:"date" json:"date"`
	Slots []Slot `bson:"slots" json:"slots"`
}

// Dentist is the durable catalog document: profile plus the per-date
// slot calendar that booking state is committed into.
type Dentist struct {
	ID                string      `bson:"id" json:"id"`
	Name              string      `bson:"name" json:"name"`
	YearsOfExperience int         `bson:"yearsOfExperience" json:"yearsOfExperience"`
	Area              string      `bson:"area" json:"area"`
	Calendar          []DateSlots `bson:"calendar" json:"calendar"`
	CreatedAt         time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// DateFormat is the calendar date layout used throughout the API.
const DateFormat = "2006-01-02"

// ValidTimeLabels is the fixed set of hourly labels a slot may carry.
var ValidTimeLabels = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

// IsValidTimeLabel reports whether label is one of ValidTimeLabels.
func IsValidTimeLabel(label string) bool {
	for _, l := range ValidTimeLabels {
		if l == label {
			return true
		}
	}
	return false
}

// FindDate returns the DateSlots entry for date, or nil.
func (d *Dentist) FindDate(date string) *DateSlots {
	for i := range d.Calendar {
		if d.Calendar[i].Date == date {
			return &d.Calendar[i]
		}
	}
	return nil
}

// FindSlot returns the slot with the given time label, or nil.
func (ds *DateSlots) FindSlot(timeLabel string) *Slot {
	for i := range ds.Slots {
		if ds.Slots[i].Time == timeLabel {
			return &ds.Slots[i]
		}
	}
	return nil
}
