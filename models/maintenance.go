package models

import "time"

// Maintenance is the single document describing a declared maintenance
// window. Booking traffic is rejected while Active and the current
// time falls within [Start, End].
type Maintenance struct {
	Active bool      `bson:"active" json:"active"`
	Start  time.Time `bson:"start" json:"start"`
	End    time.Time `bson:"end" json:"end"`
}

// InWindow reports whether now falls inside an active window.
func (m *Maintenance) InWindow(now time.Time) bool {
	if m == nil || !m.Active {
		return false
	}
	return !now.Before(m.Start) && !now.After(m.End)
}
