package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"dencare/models"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// ReminderPayload is the task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	UserID        string `json:"userId"`
	DentistID     string `json:"dentistId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// ReminderEnqueuer schedules a reminder for a confirmed appointment.
type ReminderEnqueuer interface {
	EnqueueReminder(appt models.Appointment) error
}

// AsynqEnqueuer implements ReminderEnqueuer over an asynq client.
type AsynqEnqueuer struct {
	client *asynq.Client
}

// NewAsynqEnqueuer connects an asynq client to the queue Redis DB.
func NewAsynqEnqueuer(redisAddr, password string, db int) *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		}),
	}
}

// EnqueueReminder schedules the reminder for 08:00 on the appointment
// date; past or unparseable dates enqueue immediately.
func (e *AsynqEnqueuer) EnqueueReminder(appt models.Appointment) error {
	payload, err := json.Marshal(ReminderPayload{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		DentistID:     appt.DentistID,
		Date:          appt.Date,
		Time:          appt.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	var opts []asynq.Option
	if day, err := time.ParseInLocation(models.DateFormat, appt.Date, time.Local); err == nil {
		fireAt := day.Add(8 * time.Hour)
		if fireAt.After(time.Now()) {
			opts = append(opts, asynq.ProcessAt(fireAt))
		}
	}

	if _, err := e.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder for appointment %s: %w", appt.ID, err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
