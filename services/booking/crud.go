package booking

import (
	"context"

	"dencare/models"
	"dencare/utils"

	"go.uber.org/zap"
)

// GetAppointment fetches a confirmed appointment by id. Only the owner
// or an admin may read it.
func (s *DefaultBookingService) GetAppointment(ctx context.Context, id, userID, role string) (*models.Appointment, error) {
	appt, err := s.ApptRepo.GetByID(id)
	if err != nil {
		return nil, internalErr(err)
	}
	if appt == nil {
		return nil, NewError(KindNotFound, "appointment not found")
	}
	if appt.UserID != userID && role != models.RoleAdmin {
		return nil, NewError(KindForbidden, "not authorized to view this appointment")
	}
	return appt, nil
}

// ListAppointments returns the caller's appointments; admins see all,
// optionally filtered by dentist.
func (s *DefaultBookingService) ListAppointments(ctx context.Context, userID, role, dentistFilter string) ([]models.Appointment, error) {
	var (
		appts []models.Appointment
		err   error
	)
	switch {
	case role != models.RoleAdmin:
		appts, err = s.ApptRepo.ListByUser(userID)
	case dentistFilter != "":
		appts, err = s.ApptRepo.ListByDentist(dentistFilter)
	default:
		appts, err = s.ApptRepo.ListAll()
	}
	if err != nil {
		return nil, internalErr(err)
	}
	return appts, nil
}

// UpdateAppointment moves a confirmed appointment to another slot. The
// target slot is validated exactly like a reserve, the old slot is
// released, then the new one is claimed. If the claim loses a race the
// old slot is re-claimed so the appointment never dangles without a
// catalog hold.
func (s *DefaultBookingService) UpdateAppointment(ctx context.Context, id, userID, role string, change AppointmentChange) (*models.Appointment, error) {
	logger := utils.GetLogger()

	appt, err := s.ApptRepo.GetByID(id)
	if err != nil {
		return nil, internalErr(err)
	}
	if appt == nil {
		return nil, NewError(KindNotFound, "appointment not found")
	}
	if appt.UserID != userID && role != models.RoleAdmin {
		return nil, NewError(KindForbidden, "not authorized to update this appointment")
	}

	target := models.Appointment{
		ID:        appt.ID,
		UserID:    appt.UserID,
		DentistID: appt.DentistID,
		Date:      appt.Date,
		Time:      appt.Time,
		CreatedAt: appt.CreatedAt,
	}
	if change.DentistID != "" {
		target.DentistID = change.DentistID
	}
	if change.Date != "" {
		target.Date = change.Date
	}
	if change.Time != "" {
		target.Time = change.Time
	}
	if target.DentistID == appt.DentistID && target.Date == appt.Date && target.Time == appt.Time {
		return appt, nil
	}

	// Validate the target slot the same way reserve does, minus the
	// user limit (the user keeps their single appointment, it just
	// moves).
	dentist, err := s.DentistRepo.GetByID(target.DentistID)
	if err != nil {
		return nil, internalErr(err)
	}
	if dentist == nil {
		return nil, NewError(KindNotFound, "dentist not found")
	}
	dateSlots := dentist.FindDate(target.Date)
	if dateSlots == nil {
		return nil, NewError(KindInvalidRequest, "date not available in dentist calendar")
	}
	slot := dateSlots.FindSlot(target.Time)
	if slot == nil {
		return nil, NewError(KindInvalidRequest, "time slot not available on that date")
	}
	if slot.Booked {
		return nil, NewError(KindConflict, "slot already booked")
	}

	if err := s.DentistRepo.ReleaseSlot(appt.DentistID, appt.Date, appt.Time); err != nil {
		return nil, internalErr(err)
	}
	claimed, err := s.DentistRepo.ClaimSlot(target.DentistID, target.Date, target.Time, appt.ID)
	if err != nil || !claimed {
		// Put the old hold back; the appointment document is unchanged.
		if _, reErr := s.DentistRepo.ClaimSlot(appt.DentistID, appt.Date, appt.Time, appt.ID); reErr != nil {
			logger.Error("failed to re-claim old slot after lost move",
				zap.String("appointment", appt.ID), zap.Error(reErr))
		}
		if err != nil {
			return nil, internalErr(err)
		}
		return nil, NewError(KindConflict, "slot already booked")
	}

	if err := s.ApptRepo.Update(&target); err != nil {
		return nil, internalErr(err)
	}
	logger.Info("appointment moved",
		zap.String("appointment", appt.ID),
		zap.String("from", LedgerKey(appt.DentistID, appt.Date, appt.Time)),
		zap.String("to", LedgerKey(target.DentistID, target.Date, target.Time)),
	)
	return &target, nil
}

// CancelAppointment deletes a confirmed appointment and frees its slot.
func (s *DefaultBookingService) CancelAppointment(ctx context.Context, id, userID, role string) error {
	appt, err := s.ApptRepo.GetByID(id)
	if err != nil {
		return internalErr(err)
	}
	if appt == nil {
		return NewError(KindNotFound, "appointment not found")
	}
	if appt.UserID != userID && role != models.RoleAdmin {
		return NewError(KindForbidden, "not authorized to delete this appointment")
	}

	if err := s.ApptRepo.Delete(appt.ID); err != nil {
		return internalErr(err)
	}
	if err := s.DentistRepo.ReleaseSlot(appt.DentistID, appt.Date, appt.Time); err != nil {
		// The appointment is gone; a stuck slot needs operator
		// attention, not a failed cancel.
		utils.GetLogger().Error("failed to release slot after cancel",
			zap.String("appointment", appt.ID), zap.Error(err))
	}
	return nil
}
