package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vivenda/db"
	"vivenda/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admissibility gate failures, reported in this order: schedule, then
// duplicate/capacity, then overlap.
var (
	ErrOutsideHours     = errors.New("outside operating hours")
	ErrDuplicateSingle  = errors.New("place already reserved for this day")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrOverlapConflict  = errors.New("time slot overlaps an existing reservation")
)

// parseClockMinutes converts "HH:MM" to minutes since midnight.
func parseClockMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", hhmm)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", hhmm)
	}
	return h*60 + m, nil
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// checkOperatingHours admits a reservation start that falls inside the
// place's daily window, inclusive on both bounds: starting exactly at
// closing time is allowed.
func checkOperatingHours(place *models.Place, dateHour time.Time) error {
	opening, err := parseClockMinutes(place.OpeningTime)
	if err != nil {
		return fmt.Errorf("place %s opening time: %w", place.PlaceID, err)
	}
	closing, err := parseClockMinutes(place.ClosingTime)
	if err != nil {
		return fmt.Errorf("place %s closing time: %w", place.PlaceID, err)
	}

	at := clockMinutes(dateHour)
	if at < opening || at > closing {
		return fmt.Errorf("%w: %s is open from %s to %s",
			ErrOutsideHours, place.Name, place.OpeningTime, place.ClosingTime)
	}
	return nil
}

// dayBounds returns the inclusive bounds of the calendar day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// activeBookingsOnDay loads every pending or approved booking for the place
// on the calendar day containing dateHour. A non-zero exclude drops that
// booking from the result, so a booking being rescheduled does not conflict
// with itself.
func activeBookingsOnDay(ctx context.Context, placeID string, dateHour time.Time, exclude primitive.ObjectID) ([]models.Book, error) {
	start, end := dayBounds(dateHour)

	filter := bson.M{
		"placeId":  placeID,
		"dateHour": bson.M{"$gte": start, "$lte": end},
		"status":   bson.M{"$in": []string{models.BookStatusPending, models.BookStatusApproved}},
	}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}

	cur, err := db.BooksCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query bookings for %s: %w", placeID, err)
	}
	defer cur.Close(ctx)

	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode bookings for %s: %w", placeID, err)
	}
	return books, nil
}

// checkAdmissible decides whether a candidate reservation is permitted given
// the active bookings already on its day. Pure function: callers load the
// active set themselves.
//
// Single-type places allow at most one active reservation per calendar day,
// regardless of requested time. Multiple-type places gate on day-scoped
// aggregate guest capacity first, then, when overlap is disallowed, on
// half-open window intersection [dateHour, dateHour+timeSlot).
func checkAdmissible(place *models.Place, dateHour time.Time, guestCount int, active []models.Book) error {
	switch place.ReservationType {
	case models.ReservationSingle:
		if len(active) > 0 {
			return fmt.Errorf("%w: %s allows only one reservation per day", ErrDuplicateSingle, place.Name)
		}

	case models.ReservationMultiple:
		total := 0
		for _, b := range active {
			total += len(b.Guests)
		}
		if total+guestCount > place.MaxCapacity {
			return fmt.Errorf("%w: maximum capacity %d, already reserved %d",
				ErrCapacityExceeded, place.MaxCapacity, total)
		}

		if !place.ReservationSettings.AllowOverlap {
			slot := time.Duration(place.TimeSlot) * time.Minute
			candEnd := dateHour.Add(slot)
			for _, b := range active {
				otherEnd := b.DateHour.Add(slot)
				if dateHour.Before(otherEnd) && candEnd.After(b.DateHour) {
					return fmt.Errorf("%w: %s does not allow overlapping time slots",
						ErrOverlapConflict, place.Name)
				}
			}
		}
	}
	return nil
}

// dayHasAvailability reports whether the day could still take a reservation
// under the place's capacity model: an empty day for single-type places,
// remaining aggregate guest capacity for multiple-type ones. Deliberately
// coarser than checkAdmissible: operating hours and overlap are not
// considered, creating the booking runs the full check.
func dayHasAvailability(place *models.Place, active []models.Book) bool {
	switch place.ReservationType {
	case models.ReservationSingle:
		return len(active) == 0
	case models.ReservationMultiple:
		total := 0
		for _, b := range active {
			total += len(b.Guests)
		}
		return place.MaxCapacity-total > 0
	}
	return true
}
