package jobs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"vivenda/db"
	"vivenda/models"
	"vivenda/mq"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
)

const defaultPendingTTLDays = 30

// Scheduler runs periodic maintenance over the bookings collection.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start registers the maintenance jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", rejectStalePending); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func pendingTTL() time.Duration {
	days := defaultPendingTTLDays
	if raw := os.Getenv("BOOKING_PENDING_TTL_DAYS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}
	return time.Duration(days) * 24 * time.Hour
}

// rejectStalePending rejects bookings that sat in pending past the TTL.
func rejectStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-pendingTTL())
	filter := bson.M{
		"status":    models.BookStatusPending,
		"createdAt": bson.M{"$lt": cutoff},
	}

	cur, err := db.BooksCollection.Find(ctx, filter)
	if err != nil {
		log.Printf("stale booking sweep failed: %v", err)
		return
	}
	defer cur.Close(ctx)

	var stale []models.Book
	if err := cur.All(ctx, &stale); err != nil {
		log.Printf("stale booking sweep failed: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	_, err = db.BooksCollection.UpdateMany(
		ctx,
		filter,
		bson.M{"$set": bson.M{"status": models.BookStatusRejected, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Printf("stale booking sweep failed: %v", err)
		return
	}

	for _, b := range stale {
		mq.Emit(ctx, "booking-status", mq.Event{
			BookID:  b.BookID,
			PlaceID: b.PlaceID,
			Status:  models.BookStatusRejected,
		})
	}
	log.Printf("rejected %d stale pending bookings", len(stale))
}
