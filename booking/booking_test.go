package booking

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestConflictStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrOutsideHours, http.StatusBadRequest},
		{ErrDuplicateSingle, http.StatusConflict},
		{ErrCapacityExceeded, http.StatusConflict},
		{ErrOverlapConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := conflictStatus(c.err); got != c.want {
			t.Errorf("conflictStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestRespondWriteErrorRemovedConcurrently(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWriteError(rec, mongo.ErrNoDocuments)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRespondWriteErrorStoreFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWriteError(rec, errors.New("connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
