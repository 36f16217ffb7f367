package models

import "time"

// Appointment is the durable record of a confirmed booking. The
// appointments collection carries a unique index on userId, so a user
// can hold at most one confirmed appointment at a time.
type Appointment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	DentistID string    `bson:"dentistId" json:"dentistId"`
	Date      string    `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
