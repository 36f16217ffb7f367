package dentistRepo

import "dencare/models"

// DentistRepository defines persistence operations for the dentist
// slot catalog.
type DentistRepository interface {
	Create(d *models.Dentist) error
	GetByID(id string) (*models.Dentist, error)
	GetAll() ([]models.Dentist, error)
	Update(d *models.Dentist) error
	Delete(id string) error
	SetCalendar(id string, calendar []models.DateSlots) error

	// ClaimSlot atomically marks the slot booked and attaches the
	// appointment reference, only if the slot is currently unbooked.
	// Returns false when no matching unbooked slot exists.
	ClaimSlot(dentistID, date, timeLabel, appointmentID string) (bool, error)
	// ReleaseSlot marks the slot unbooked and clears its appointment
	// reference. Releasing an already free slot is a no-op.
	ReleaseSlot(dentistID, date, timeLabel string) error
}
