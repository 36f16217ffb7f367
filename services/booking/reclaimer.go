package booking

import (
	"context"
	"fmt"

	"dencare/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Reclaimer listens to the ledger DB's key-expiry notifications and
// accounts for reservations that lapsed without confirmation.
//
// Because the catalog is only mutated at confirm time, an expired
// reservation means no catalog-side hold exists, so the handler is
// log-only. It must never flip a slot back to unbooked: any booked
// slot it could touch belongs to a confirmed appointment.
type Reclaimer struct {
	client *redis.Client
	db     int
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewReclaimer builds a reclaimer over the ledger's Redis client. db
// must be the DB number the ledger writes to; it selects the keyspace
// event channel.
func NewReclaimer(client *redis.Client, db int) *Reclaimer {
	return &Reclaimer{
		client: client,
		db:     db,
		done:   make(chan struct{}),
	}
}

// Start subscribes to the expiry channel and begins consuming events.
// It returns once the subscription is confirmed; consumption continues
// until Stop is called or ctx is cancelled.
func (r *Reclaimer) Start(ctx context.Context) error {
	logger := utils.GetLogger()

	// Expired-key events require notify-keyspace-events to include Ex.
	// Try to enable it; managed Redis may refuse CONFIG, in which case
	// the operator has to set it server-side.
	if err := r.client.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err(); err != nil {
		logger.Warn("could not enable keyspace notifications via CONFIG SET", zap.Error(err))
	}

	channel := fmt.Sprintf("__keyevent@%d__:expired", r.db)
	r.pubsub = r.client.Subscribe(ctx, channel)
	if _, err := r.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	logger.Info("reclaimer subscribed", zap.String("channel", channel))

	go r.run()
	return nil
}

func (r *Reclaimer) run() {
	defer close(r.done)
	for msg := range r.pubsub.Channel() {
		r.handleExpired(msg.Payload)
	}
}

// handleExpired processes one expired key. Returns true when the key
// belonged to the booking namespace.
func (r *Reclaimer) handleExpired(key string) bool {
	dentistID, date, timeLabel, ok := ParseLedgerKey(key)
	if !ok {
		return false
	}
	utils.GetLogger().Info("reservation expired without confirmation",
		zap.String("dentist", dentistID),
		zap.String("date", date),
		zap.String("time", timeLabel),
	)
	return true
}

// Stop closes the subscription and waits for the consumer to drain.
func (r *Reclaimer) Stop() {
	if r.pubsub == nil {
		return
	}
	if err := r.pubsub.Close(); err != nil {
		utils.GetLogger().Warn("error closing reclaimer subscription", zap.Error(err))
	}
	<-r.done
}
