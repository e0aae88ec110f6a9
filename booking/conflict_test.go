package booking

import (
	"errors"
	"testing"
	"time"

	"vivenda/models"
)

func testPlace(reservationType string, capacity int) *models.Place {
	return &models.Place{
		PlaceID:         "p1",
		Name:            "Party Room",
		ReservationType: reservationType,
		MaxCapacity:     capacity,
		TimeSlot:        60,
		OpeningTime:     "08:00",
		ClosingTime:     "22:00",
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 14, hour, minute, 0, 0, time.UTC)
}

func booked(dateHour time.Time, guests ...string) models.Book {
	return models.Book{
		PlaceID:  "p1",
		DateHour: dateHour,
		Guests:   guests,
		Status:   models.BookStatusApproved,
	}
}

func TestParseClockMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"noon", 0, true},
		{"12", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := parseClockMinutes(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseClockMinutes(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseClockMinutes(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseClockMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestOperatingHoursBoundsAreInclusive(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 10)

	cases := []struct {
		name    string
		start   time.Time
		allowed bool
	}{
		{"at opening", at(8, 0), true},
		{"one minute before opening", at(7, 59), false},
		{"midday", at(14, 0), true},
		{"at closing", at(22, 0), true},
		{"one minute after closing", at(22, 1), false},
		{"midnight", at(0, 0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := checkOperatingHours(place, c.start)
			if c.allowed && err != nil {
				t.Fatalf("expected admit, got %v", err)
			}
			if !c.allowed {
				if !errors.Is(err, ErrOutsideHours) {
					t.Fatalf("expected ErrOutsideHours, got %v", err)
				}
			}
		})
	}
}

func TestOperatingHoursMalformedClock(t *testing.T) {
	place := testPlace(models.ReservationSingle, 0)
	place.OpeningTime = "late"

	err := checkOperatingHours(place, at(10, 0))
	if err == nil {
		t.Fatal("expected error for malformed opening time")
	}
	if errors.Is(err, ErrOutsideHours) {
		t.Fatalf("malformed clock should not map to ErrOutsideHours: %v", err)
	}
}

func TestSingleTypeBlocksSecondReservationRegardlessOfTime(t *testing.T) {
	place := testPlace(models.ReservationSingle, 0)
	active := []models.Book{booked(at(9, 0))}

	err := checkAdmissible(place, at(20, 0), 0, active)
	if !errors.Is(err, ErrDuplicateSingle) {
		t.Fatalf("expected ErrDuplicateSingle, got %v", err)
	}
}

func TestSingleTypeAdmitsFirstReservation(t *testing.T) {
	place := testPlace(models.ReservationSingle, 0)

	if err := checkAdmissible(place, at(9, 0), 0, nil); err != nil {
		t.Fatalf("expected admit on empty day, got %v", err)
	}
}

func TestMultipleTypeCapacityAtLimitAdmits(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 10)
	place.ReservationSettings.AllowOverlap = true
	active := []models.Book{
		booked(at(9, 0), "a", "b", "c"),
		booked(at(11, 0), "d", "e"),
	}

	// 5 reserved + 5 requested fills capacity exactly.
	if err := checkAdmissible(place, at(13, 0), 5, active); err != nil {
		t.Fatalf("expected admit at exact capacity, got %v", err)
	}
}

func TestMultipleTypeCapacityExceededRejects(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 10)
	place.ReservationSettings.AllowOverlap = true
	active := []models.Book{booked(at(9, 0), "a", "b", "c", "d", "e", "f")}

	err := checkAdmissible(place, at(13, 0), 5, active)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestMultipleTypeCapacityCheckedBeforeOverlap(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 4)
	active := []models.Book{booked(at(10, 0), "a", "b", "c")}

	// Same start time: both capacity and overlap would fail. Capacity wins.
	err := checkAdmissible(place, at(10, 0), 3, active)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded first, got %v", err)
	}
}

func TestMultipleTypeOverlapRejected(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 20)
	active := []models.Book{booked(at(10, 0), "a")}

	cases := []struct {
		name  string
		start time.Time
	}{
		{"same start", at(10, 0)},
		{"starts inside existing window", at(10, 30)},
		{"ends inside existing window", at(9, 30)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := checkAdmissible(place, c.start, 1, active)
			if !errors.Is(err, ErrOverlapConflict) {
				t.Fatalf("expected ErrOverlapConflict, got %v", err)
			}
		})
	}
}

func TestMultipleTypeBackToBackSlotsAdmit(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 20)
	active := []models.Book{booked(at(9, 0), "a")}

	// Windows are half-open: a slot starting exactly when another ends is fine.
	if err := checkAdmissible(place, at(10, 0), 1, active); err != nil {
		t.Fatalf("expected admit for adjacent slot, got %v", err)
	}
	if err := checkAdmissible(place, at(8, 0), 1, active); err != nil {
		t.Fatalf("expected admit for preceding adjacent slot, got %v", err)
	}
}

func TestMultipleTypeAllowOverlapSkipsWindowCheck(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 20)
	place.ReservationSettings.AllowOverlap = true
	active := []models.Book{booked(at(10, 0), "a")}

	if err := checkAdmissible(place, at(10, 0), 1, active); err != nil {
		t.Fatalf("expected admit when overlap is allowed, got %v", err)
	}
}

func TestUnknownReservationTypeAdmits(t *testing.T) {
	place := testPlace("weekly", 0)
	active := []models.Book{booked(at(10, 0), "a")}

	if err := checkAdmissible(place, at(10, 0), 1, active); err != nil {
		t.Fatalf("expected admit for unknown reservation type, got %v", err)
	}
}

func TestCheckAdmissibleDoesNotMutateInputs(t *testing.T) {
	place := testPlace(models.ReservationMultiple, 10)
	active := []models.Book{booked(at(9, 0), "a", "b")}

	_ = checkAdmissible(place, at(9, 30), 1, active)
	_ = checkAdmissible(place, at(9, 30), 1, active)

	if len(active) != 1 || len(active[0].Guests) != 2 {
		t.Fatal("active booking set changed")
	}
	if place.MaxCapacity != 10 || place.TimeSlot != 60 {
		t.Fatal("place changed")
	}
}

func TestDayHasAvailability(t *testing.T) {
	cases := []struct {
		name   string
		place  *models.Place
		active []models.Book
		want   bool
	}{
		{"single with empty day", testPlace(models.ReservationSingle, 0), nil, true},
		{"single with one active booking", testPlace(models.ReservationSingle, 0),
			[]models.Book{booked(at(6, 0))}, false},
		{"multiple with remaining capacity", testPlace(models.ReservationMultiple, 5),
			[]models.Book{booked(at(9, 0), "a", "b", "c")}, true},
		{"multiple exactly full", testPlace(models.ReservationMultiple, 5),
			[]models.Book{booked(at(9, 0), "a", "b", "c"), booked(at(11, 0), "d", "e")}, false},
		{"multiple over capacity", testPlace(models.ReservationMultiple, 3),
			[]models.Book{booked(at(9, 0), "a", "b", "c", "d")}, false},
		{"unknown type", testPlace("weekly", 0), []models.Book{booked(at(9, 0))}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := dayHasAvailability(c.place, c.active); got != c.want {
				t.Fatalf("dayHasAvailability = %v, want %v", got, c.want)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	start, end := dayBounds(at(15, 42))

	if start != time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected day start %v", start)
	}
	if !end.Before(start.AddDate(0, 0, 1)) {
		t.Fatalf("day end %v spills into the next day", end)
	}
	if !end.After(at(23, 59)) {
		t.Fatalf("day end %v excludes late bookings", end)
	}
}
