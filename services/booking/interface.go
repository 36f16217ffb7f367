package booking

import (
	"context"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	dentistRepo "dencare/database/repository/dentist"
	"dencare/models"
	"dencare/services/tasks"
)

// BookingService orchestrates the two-phase reservation protocol and
// the lifecycle of confirmed appointments.
type BookingService interface {
	Reserve(ctx context.Context, dentistID, date, timeLabel, userID, role string) (*models.ReservationReceipt, error)
	Confirm(ctx context.Context, dentistID, date, timeLabel, userID, role string) (*models.Appointment, error)

	GetAppointment(ctx context.Context, id, userID, role string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, userID, role, dentistFilter string) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, id, userID, role string, change AppointmentChange) (*models.Appointment, error)
	CancelAppointment(ctx context.Context, id, userID, role string) error
}

// AppointmentChange describes a requested move of a confirmed
// appointment. Empty fields keep their current value.
type AppointmentChange struct {
	DentistID string
	Date      string
	Time      string
}

// DefaultBookingService implements BookingService against the slot
// catalog and the reservation ledger.
type DefaultBookingService struct {
	DentistRepo dentistRepo.DentistRepository
	ApptRepo    appointmentRepo.AppointmentRepository
	Ledger      Ledger

	// Reminders is optional; when set, a reminder task is enqueued for
	// every confirmed appointment.
	Reminders tasks.ReminderEnqueuer

	// ReservationTTL is the fixed, non-renewable hold window. Zero
	// falls back to 600 seconds.
	ReservationTTL time.Duration

	// AdminBypassLimit lets admins exceed the one-appointment-per-user
	// limit when true.
	AdminBypassLimit bool
}

func (s *DefaultBookingService) ttl() time.Duration {
	if s.ReservationTTL <= 0 {
		return 600 * time.Second
	}
	return s.ReservationTTL
}
