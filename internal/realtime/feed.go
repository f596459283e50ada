// internal/realtime/feed.go
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/elibest/inventory-backend/internal/models"
)

// Event types
const (
	EventTypeInserted = "inventory.inserted"
	EventTypeUpdated  = "inventory.updated"
)

// Event announces a store change within one category. Consumers treat
// it as a hint to re-fetch, not as a delta.
type Event struct {
	Type      string          `json:"type"`
	ItemID    uuid.UUID       `json:"item_id"`
	Category  models.Category `json:"category"`
	Timestamp time.Time       `json:"timestamp"`
}

func channelFor(category models.Category) string {
	return "inventory:" + string(category)
}

// ChangeFeed is a category-scoped change notification channel over
// Redis pub/sub. Each category maps to its own channel, so a
// subscription covers exactly the rows a dashboard tab displays.
type ChangeFeed struct {
	rdb *redis.Client
	log *logrus.Entry
}

func NewChangeFeed(rdb *redis.Client) *ChangeFeed {
	return &ChangeFeed{
		rdb: rdb,
		log: logrus.WithField("component", "changefeed"),
	}
}

// Publish announces a change. Publishing is best-effort: a failure is
// logged and swallowed so a Redis outage never fails the write that
// triggered it.
func (f *ChangeFeed) Publish(ctx context.Context, event Event) {
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		f.log.WithError(err).Error("Failed to marshal change event")
		return
	}

	if err := f.rdb.Publish(ctx, channelFor(event.Category), payload).Err(); err != nil {
		f.log.WithError(err).WithFields(logrus.Fields{
			"channel": channelFor(event.Category),
			"type":    event.Type,
		}).Error("Failed to publish change event")
		return
	}

	f.log.WithFields(logrus.Fields{
		"channel": channelFor(event.Category),
		"type":    event.Type,
		"item_id": event.ItemID,
	}).Debug("Change event published")
}

// Subscribe returns a channel of events for one category. The channel
// closes when ctx is cancelled. Malformed payloads are dropped.
func (f *ChangeFeed) Subscribe(ctx context.Context, category models.Category) (<-chan Event, error) {
	sub := f.rdb.Subscribe(ctx, channelFor(category))

	// Force the subscription to be established before returning, so a
	// caller that publishes right after subscribing cannot miss events.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channelFor(category), err)
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.log.WithError(err).Warn("Dropping malformed change event")
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
