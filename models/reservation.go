package models

import "time"

// ReservationRecord is the value stored in the reservation ledger for
// a held slot. User is the authoritative field; the rest are echoed so
// consumers reading the raw key do not have to re-parse it.
type ReservationRecord struct {
	User    string `json:"user"`
	Dentist string `json:"dentist"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// ReservationReceipt is returned to the client after a successful
// reserve call. The slot is held exclusively until ExpiresAt; no
// durable booking exists until the reservation is confirmed.
type ReservationReceipt struct {
	DentistID string    `json:"dentistId"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	ExpiresAt time.Time `json:"expiresAt"`
}
