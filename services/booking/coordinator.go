package booking

import (
	"context"
	"errors"
	"time"

	appointmentRepo "dencare/database/repository/appointment"
	"dencare/models"
	"dencare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reserve validates the requested slot and takes a short-lived
// exclusive hold on it in the ledger. Nothing durable changes here;
// the hold must be confirmed before its TTL elapses or it silently
// lapses.
//
// Validation is fail-fast and ordered: dentist, user limit, date,
// time label, booked flag, then the atomic ledger acquire that decides
// the winner among concurrent callers.
func (s *DefaultBookingService) Reserve(ctx context.Context, dentistID, date, timeLabel, userID, role string) (*models.ReservationReceipt, error) {
	if err := s.validateSlot(ctx, dentistID, date, timeLabel, userID, role); err != nil {
		return nil, err
	}

	key := LedgerKey(dentistID, date, timeLabel)
	rec := models.ReservationRecord{
		User:    userID,
		Dentist: dentistID,
		Date:    date,
		Time:    timeLabel,
	}
	acquired, err := s.Ledger.TryAcquire(ctx, key, rec, s.ttl())
	if err != nil {
		return nil, internalErr(err)
	}
	if !acquired {
		return nil, NewError(KindConflict, "slot already locked by another reservation")
	}

	expiresAt := time.Now().Add(s.ttl())
	utils.GetLogger().Info("slot reserved",
		zap.String("key", key),
		zap.String("user", userID),
		zap.Time("expiresAt", expiresAt),
	)
	return &models.ReservationReceipt{
		DentistID: dentistID,
		Date:      date,
		Time:      timeLabel,
		ExpiresAt: expiresAt,
	}, nil
}

// Confirm turns a live reservation into a durable appointment. Every
// reserve-time check is repeated here: the catalog may have changed
// while the hold was outstanding, and only the ledger entry proves the
// caller still owns the slot.
//
// Commit order matters: the appointment insert (backed by the unique
// userId index) and the slot claim complete before the ledger entry is
// deleted. A failed ledger delete is harmless; the entry expires on
// its own once the catalog is authoritative.
func (s *DefaultBookingService) Confirm(ctx context.Context, dentistID, date, timeLabel, userID, role string) (*models.Appointment, error) {
	logger := utils.GetLogger()
	key := LedgerKey(dentistID, date, timeLabel)

	rec, err := s.Ledger.Get(ctx, key)
	if err != nil {
		return nil, internalErr(err)
	}
	if rec == nil {
		return nil, NewError(KindExpired, "booking session expired or does not exist")
	}
	if rec.User != userID {
		return nil, NewError(KindForbidden, "slot locked by another user")
	}

	if err := s.validateSlot(ctx, dentistID, date, timeLabel, userID, role); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ID:        uuid.New().String(),
		UserID:    userID,
		DentistID: dentistID,
		Date:      date,
		Time:      timeLabel,
		CreatedAt: time.Now(),
	}
	if err := s.ApptRepo.Create(appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicateUser) {
			return nil, NewError(KindConflict, "user already has an appointment")
		}
		return nil, internalErr(err)
	}

	claimed, err := s.DentistRepo.ClaimSlot(dentistID, date, timeLabel, appt.ID)
	if err != nil || !claimed {
		// The slot was taken between validation and the claim. Undo the
		// insert so the user keeps their one-appointment allowance.
		if delErr := s.ApptRepo.Delete(appt.ID); delErr != nil {
			logger.Error("failed to roll back appointment after lost slot claim",
				zap.String("appointment", appt.ID), zap.Error(delErr))
		}
		if err != nil {
			return nil, internalErr(err)
		}
		return nil, NewError(KindConflict, "slot already booked")
	}

	if err := s.Ledger.Release(ctx, key); err != nil {
		logger.Warn("failed to release reservation after confirm; entry will expire",
			zap.String("key", key), zap.Error(err))
	}

	if s.Reminders != nil {
		if err := s.Reminders.EnqueueReminder(*appt); err != nil {
			logger.Warn("failed to enqueue appointment reminder",
				zap.String("appointment", appt.ID), zap.Error(err))
		}
	}

	logger.Info("appointment confirmed",
		zap.String("appointment", appt.ID),
		zap.String("key", key),
		zap.String("user", userID),
	)
	return appt, nil
}

// validateSlot runs the shared reserve/confirm checks: dentist exists,
// user is under the appointment limit (unless privileged), the date
// and time label exist in the calendar, and the slot is unbooked.
func (s *DefaultBookingService) validateSlot(ctx context.Context, dentistID, date, timeLabel, userID, role string) error {
	dentist, err := s.DentistRepo.GetByID(dentistID)
	if err != nil {
		return internalErr(err)
	}
	if dentist == nil {
		return NewError(KindNotFound, "dentist not found")
	}

	if !(s.AdminBypassLimit && role == models.RoleAdmin) {
		count, err := s.ApptRepo.CountByUser(userID)
		if err != nil {
			return internalErr(err)
		}
		if count > 0 {
			return NewError(KindConflict, "user already has an appointment")
		}
	}

	dateSlots := dentist.FindDate(date)
	if dateSlots == nil {
		return NewError(KindInvalidRequest, "date not available in dentist calendar")
	}
	slot := dateSlots.FindSlot(timeLabel)
	if slot == nil {
		return NewError(KindInvalidRequest, "time slot not available on that date")
	}
	if slot.Booked {
		return NewError(KindConflict, "slot already booked")
	}
	return nil
}
