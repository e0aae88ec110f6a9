package places

import (
	"strings"
	"testing"

	"vivenda/models"
)

func validRequest() placeRequest {
	return placeRequest{
		Name:            "Barbecue Area",
		Condominium:     "64f0c0ffee0000000000abcd",
		ReservationType: models.ReservationSingle,
		TimeSlot:        120,
		OpeningTime:     "09:00",
		ClosingTime:     "21:00",
	}
}

func TestValidatePlaceRequest(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*placeRequest)
		wantErr string
	}{
		{"valid single", func(r *placeRequest) {}, ""},
		{"valid multiple", func(r *placeRequest) {
			r.ReservationType = models.ReservationMultiple
			r.MaxCapacity = 8
		}, ""},
		{"empty name", func(r *placeRequest) { r.Name = "  " }, "name"},
		{"missing condominium", func(r *placeRequest) { r.Condominium = "" }, "condominium"},
		{"bad reservation type", func(r *placeRequest) { r.ReservationType = "shared" }, "reservationType"},
		{"multiple without capacity", func(r *placeRequest) {
			r.ReservationType = models.ReservationMultiple
			r.MaxCapacity = 0
		}, "maxCapacity"},
		{"zero time slot", func(r *placeRequest) { r.TimeSlot = 0 }, "timeSlot"},
		{"bad opening time", func(r *placeRequest) { r.OpeningTime = "9am" }, "openingTime"},
		{"bad closing time", func(r *placeRequest) { r.ClosingTime = "25:00" }, "closingTime"},
		{"inverted window", func(r *placeRequest) {
			r.OpeningTime = "21:00"
			r.ClosingTime = "09:00"
		}, "openingTime"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validRequest()
			c.mutate(&req)
			err := validatePlaceRequest(&req)
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("error %q does not mention %q", err, c.wantErr)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func storedPlace() models.Place {
	return models.Place{
		PlaceID:         "p1",
		Name:            "Barbecue Area",
		ReservationType: models.ReservationSingle,
		TimeSlot:        120,
		OpeningTime:     "09:00",
		ClosingTime:     "21:00",
	}
}

func TestValidateMergedPolicy(t *testing.T) {
	cases := []struct {
		name    string
		in      placeUpdate
		wantErr string
	}{
		{"no policy fields touched", placeUpdate{Name: strPtr("Grill Area")}, ""},
		{"opening moved past stored closing", placeUpdate{OpeningTime: strPtr("23:00")}, "openingTime"},
		{"closing moved before stored opening", placeUpdate{ClosingTime: strPtr("08:00")}, "openingTime"},
		{"both bounds moved together", placeUpdate{OpeningTime: strPtr("18:00"), ClosingTime: strPtr("23:00")}, ""},
		{"malformed opening", placeUpdate{OpeningTime: strPtr("9am")}, "openingTime"},
		{"switch to multiple without capacity", placeUpdate{ReservationType: strPtr(models.ReservationMultiple)}, "maxCapacity"},
		{"switch to multiple with capacity", placeUpdate{ReservationType: strPtr(models.ReservationMultiple), MaxCapacity: intPtr(8)}, ""},
		{"zero capacity on multiple", placeUpdate{ReservationType: strPtr(models.ReservationMultiple), MaxCapacity: intPtr(0)}, "maxCapacity"},
		{"zero time slot", placeUpdate{TimeSlot: intPtr(0)}, "timeSlot"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			place := storedPlace()
			err := validateMergedPolicy(&place, &c.in)
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("error %q does not mention %q", err, c.wantErr)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	if got, err := parseClock("08:15"); err != nil || got != 495 {
		t.Fatalf("parseClock(08:15) = %d, %v", got, err)
	}
	for _, bad := range []string{"8:99", "24:00", "noon", ""} {
		if _, err := parseClock(bad); err == nil {
			t.Errorf("parseClock(%q): expected error", bad)
		}
	}
}
