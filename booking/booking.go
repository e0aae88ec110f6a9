package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vivenda/db"
	"vivenda/globals"
	"vivenda/models"
	"vivenda/mq"
	"vivenda/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const handlerTimeout = 5 * time.Second

type createBookRequest struct {
	PlaceID  string    `json:"placeId"`
	DateHour time.Time `json:"dateHour"`
	Reason   string    `json:"reason"`
	Guests   []string  `json:"guests"`
}

type updateBookRequest struct {
	DateHour *time.Time `json:"dateHour"`
	Reason   *string    `json:"reason"`
	Guests   *[]string  `json:"guests"`
}

// respondWriteError reports a failed FindOneAndUpdate, distinguishing a
// booking deleted between lookup and write from other store errors.
func respondWriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusConflict, "Booking was removed concurrently")
		return
	}
	utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
}

// conflictStatus maps an admissibility failure to its HTTP status.
func conflictStatus(err error) int {
	switch {
	case errors.Is(err, ErrOutsideHours):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateSingle),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrOverlapConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func findPlace(ctx context.Context, placeID string) (*models.Place, error) {
	var place models.Place
	err := db.PlacesCollection.FindOne(ctx, bson.M{"placeid": placeID}).Decode(&place)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func findBook(ctx context.Context, bookID string) (*models.Book, error) {
	var book models.Book
	err := db.BooksCollection.FindOne(ctx, bson.M{"id": bookID}).Decode(&book)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func requestUserID(r *http.Request) (primitive.ObjectID, bool) {
	raw, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateBook validates a new reservation against the place's operating hours
// and reservation policy, then persists it with status pending.
func CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.PlaceID == "" || req.DateHour.IsZero() || req.Reason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "placeId, dateHour and reason are required")
		return
	}

	userID, ok := requestUserID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	place, err := findPlace(ctx, req.PlaceID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Place not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Serialize check-then-write per place.
	unlock := lockPlace(place.PlaceID)
	defer unlock()

	if err := checkOperatingHours(place, req.DateHour); err != nil {
		utils.RespondWithError(w, conflictStatus(err), err.Error())
		return
	}

	active, err := activeBookingsOnDay(ctx, place.PlaceID, req.DateHour, primitive.NilObjectID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := checkAdmissible(place, req.DateHour, len(req.Guests), active); err != nil {
		utils.RespondWithError(w, conflictStatus(err), err.Error())
		return
	}

	now := time.Now()
	book := models.Book{
		ID:        primitive.NewObjectID(),
		BookID:    utils.GetUUID(),
		PlaceID:   place.PlaceID,
		DateHour:  req.DateHour,
		UserID:    userID,
		Reason:    req.Reason,
		Guests:    utils.TrimAll(req.Guests),
		Status:    models.BookStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if book.Guests == nil {
		book.Guests = []string{}
	}

	if _, err := db.BooksCollection.InsertOne(ctx, book); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	mq.Emit(ctx, "booking-created", mq.Event{BookID: book.BookID, PlaceID: book.PlaceID, Status: book.Status})
	utils.RespondWithJSON(w, http.StatusCreated, book)
}

// UpdateBook applies a partial update. Changing dateHour re-runs the full
// admissibility check against the booking's place, excluding the booking
// itself. Guest or reason changes alone do not re-validate.
func UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	existing, err := findBook(ctx, ps.ByName("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.DateHour != nil {
		place, err := findPlace(ctx, existing.PlaceID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				utils.RespondWithError(w, http.StatusNotFound, "Place not found")
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		unlock := lockPlace(place.PlaceID)
		defer unlock()

		if err := checkOperatingHours(place, *req.DateHour); err != nil {
			utils.RespondWithError(w, conflictStatus(err), err.Error())
			return
		}

		active, err := activeBookingsOnDay(ctx, place.PlaceID, *req.DateHour, existing.ID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		guestCount := len(existing.Guests)
		if req.Guests != nil {
			guestCount = len(*req.Guests)
		}
		if err := checkAdmissible(place, *req.DateHour, guestCount, active); err != nil {
			utils.RespondWithError(w, conflictStatus(err), err.Error())
			return
		}
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.DateHour != nil {
		set["dateHour"] = *req.DateHour
	}
	if req.Reason != nil {
		set["reason"] = *req.Reason
	}
	if req.Guests != nil {
		set["guests"] = utils.TrimAll(*req.Guests)
	}

	var updated models.Book
	err = db.BooksCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": existing.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		respondWriteError(w, err)
		return
	}

	mq.Emit(ctx, "booking-updated", mq.Event{BookID: updated.BookID, PlaceID: updated.PlaceID, Status: updated.Status})
	utils.RespondWithJSON(w, http.StatusOK, buildBookView(ctx, updated))
}

// DeleteBook removes a reservation by its external id.
func DeleteBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	existing, err := findBook(ctx, ps.ByName("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := db.BooksCollection.DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	mq.Emit(ctx, "booking-deleted", mq.Event{BookID: existing.BookID, PlaceID: existing.PlaceID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Booking removed"})
}

// UpdateBookStatus moves a booking between pending, approved and rejected.
// Any transition between valid states is allowed.
func UpdateBookStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if !models.ValidBookStatus(req.Status) {
		utils.RespondWithError(w, http.StatusBadRequest,
			"Invalid status. Valid statuses are: pending, approved, rejected")
		return
	}

	existing, err := findBook(ctx, ps.ByName("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var updated models.Book
	err = db.BooksCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": existing.ID},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		respondWriteError(w, err)
		return
	}

	mq.Emit(ctx, "booking-status", mq.Event{BookID: updated.BookID, PlaceID: updated.PlaceID, Status: updated.Status})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Booking status updated to: " + updated.Status,
		"book":    buildBookView(ctx, updated),
	})
}

// CheckPlaceAvailability is a coarse availability probe: for single-type
// places it reports whether the day is free, for multiple-type places whether
// any capacity remains. Operating hours and overlap are deliberately not
// considered here; creating the booking runs the full check.
func CheckPlaceAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	placeID := r.URL.Query().Get("placeId")
	dateStr := r.URL.Query().Get("date")
	if placeID == "" || dateStr == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "placeId and date are required")
		return
	}

	date, err := parseDateParam(dateStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	place, err := findPlace(ctx, placeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Place not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	active, err := activeBookingsOnDay(ctx, place.PlaceID, date, primitive.NilObjectID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"available": dayHasAvailability(place, active)})
}

func parseDateParam(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
