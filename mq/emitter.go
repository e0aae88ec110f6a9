package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vivenda/rdx"
)

const bookingChannel = "booking-events"

// Event is a booking lifecycle message published on the Redis bus.
type Event struct {
	Name      string    `json:"name"` // booking-created, booking-updated, booking-status, booking-deleted
	BookID    string    `json:"bookId"`
	PlaceID   string    `json:"placeId"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Emit publishes a booking event; failures are logged, never fatal to the
// request that triggered them.
func Emit(ctx context.Context, name string, ev Event) {
	ev.Name = name
	ev.Timestamp = time.Now()

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[mq] marshal event %s: %v", name, err)
		return
	}
	if err := rdx.Conn.Publish(ctx, bookingChannel, data).Err(); err != nil {
		log.Printf("[mq] publish %s: %v", name, err)
	}
}

// StartBookingWorker consumes booking events and hands them to fn. Runs until
// the subscription channel closes.
func StartBookingWorker(fn func(Event)) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, bookingChannel)
	ch := sub.Channel()

	log.Println("[mq] listening for booking events")
	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[mq] bad event payload: %v", err)
			continue
		}
		fn(ev)
	}
}
