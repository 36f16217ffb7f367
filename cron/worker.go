package cron

import (
	"context"
	"encoding/json"

	"dencare/config"
	"dencare/services/tasks"
	"dencare/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background
// and returns the server handle so the caller can Shutdown it.
func InitReminderWorker() *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReminderSend, handleReminderTask)

	go func() {
		logger.Info("starting reminder worker")
		if err := srv.Run(mux); err != nil {
			logger.Error("reminder worker stopped", zap.Error(err))
		}
	}()

	return srv
}

// handleReminderTask surfaces a due reminder. Actual delivery (email,
// push) is a downstream concern; the worker records that the reminder
// fired.
func handleReminderTask(ctx context.Context, task *asynq.Task) error {
	var p tasks.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		utils.GetLogger().Error("invalid reminder payload", zap.Error(err))
		return err
	}

	utils.GetLogger().Info("appointment reminder due",
		zap.String("appointment", p.AppointmentID),
		zap.String("user", p.UserID),
		zap.String("dentist", p.DentistID),
		zap.String("date", p.Date),
		zap.String("time", p.Time),
	)
	return nil
}
