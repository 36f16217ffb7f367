package appointmentRepo

import (
	"errors"

	"dencare/models"
)

// ErrDuplicateUser is returned by Create when the unique index on
// userId rejects a second confirmed appointment for the same user.
var ErrDuplicateUser = errors.New("user already has an appointment")

// AppointmentRepository defines persistence operations for confirmed
// appointments.
type AppointmentRepository interface {
	Create(a *models.Appointment) error
	GetByID(id string) (*models.Appointment, error)
	ListAll() ([]models.Appointment, error)
	ListByUser(userID string) ([]models.Appointment, error)
	ListByDentist(dentistID string) ([]models.Appointment, error)
	CountByUser(userID string) (int64, error)
	Update(a *models.Appointment) error
	Delete(id string) error
}
