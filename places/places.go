package places

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"vivenda/db"
	"vivenda/filemgr"
	"vivenda/models"
	"vivenda/rdx"
	"vivenda/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	handlerTimeout = 5 * time.Second
	placesCacheKey = "places"
	placesCacheTTL = 10 * time.Minute
)

type placeRequest struct {
	Name            string `json:"name"`
	Condominium     string `json:"condominium"`
	NeedPayment     bool   `json:"needPayment"`
	ReservationType string `json:"reservationType"`
	MaxCapacity     int    `json:"maxCapacity"`
	TimeSlot        int    `json:"timeSlot"`
	OpeningTime     string `json:"openingTime"`
	ClosingTime     string `json:"closingTime"`
	AllowOverlap    bool   `json:"allowOverlap"`
}

func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, errors.New("expected HH:MM")
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// validatePolicy checks a place's reservation policy fields as a whole, so
// partial updates cannot leave an invalid combination behind.
func validatePolicy(reservationType string, maxCapacity, timeSlot int, openingTime, closingTime string) error {
	if reservationType != models.ReservationSingle && reservationType != models.ReservationMultiple {
		return errors.New("reservationType must be single or multiple")
	}
	if reservationType == models.ReservationMultiple && maxCapacity <= 0 {
		return errors.New("maxCapacity must be positive for multiple reservation places")
	}
	if timeSlot <= 0 {
		return errors.New("timeSlot must be a positive number of minutes")
	}
	open, err := parseClock(openingTime)
	if err != nil {
		return errors.New("openingTime must be HH:MM")
	}
	closing, err := parseClock(closingTime)
	if err != nil {
		return errors.New("closingTime must be HH:MM")
	}
	if open > closing {
		return errors.New("openingTime must not be after closingTime")
	}
	return nil
}

func validatePlaceRequest(req *placeRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if req.Condominium == "" {
		return errors.New("condominium is required")
	}
	return validatePolicy(req.ReservationType, req.MaxCapacity, req.TimeSlot, req.OpeningTime, req.ClosingTime)
}

func invalidateCache() {
	if _, err := rdx.RdxDel(placesCacheKey); err != nil {
		log.Printf("places cache invalidation failed: %v", err)
	}
}

func CreatePlace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validatePlaceRequest(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	condoID, err := primitive.ObjectIDFromHex(req.Condominium)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid condominium ID")
		return
	}
	if err := db.CondosCollection.FindOne(ctx, bson.M{"_id": condoID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Condominium not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	place := models.Place{
		ID:              primitive.NewObjectID(),
		PlaceID:         utils.GetUUID(),
		Name:            strings.TrimSpace(req.Name),
		Images:          []string{},
		NeedPayment:     req.NeedPayment,
		Condominium:     condoID,
		ReservationType: req.ReservationType,
		MaxCapacity:     req.MaxCapacity,
		TimeSlot:        req.TimeSlot,
		OpeningTime:     req.OpeningTime,
		ClosingTime:     req.ClosingTime,
		ReservationSettings: models.ReservationSettings{
			AllowOverlap: req.AllowOverlap,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.PlacesCollection.InsertOne(ctx, place); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateCache()
	utils.RespondWithJSON(w, http.StatusCreated, place)
}

func GetPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if cached, err := rdx.RdxGet(placesCacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	cur, err := db.PlacesCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	var places []models.Place
	if err := cur.All(ctx, &places); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if places == nil {
		places = []models.Place{}
	}

	if payload, err := json.Marshal(places); err == nil {
		if err := rdx.RdxSetWithTTL(placesCacheKey, string(payload), placesCacheTTL); err != nil {
			log.Printf("places cache set failed: %v", err)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, places)
}

func GetPlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var place models.Place
	err := db.PlacesCollection.FindOne(ctx, bson.M{"placeid": ps.ByName("placeid")}).Decode(&place)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, place)
}

func GetPlacesByCondominium(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	condoID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid condominium ID")
		return
	}

	cur, err := db.PlacesCollection.Find(ctx, bson.M{"condominium": condoID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	var places []models.Place
	if err := cur.All(ctx, &places); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if places == nil {
		places = []models.Place{}
	}
	utils.RespondWithJSON(w, http.StatusOK, places)
}

type placeUpdate struct {
	Name            *string `json:"name"`
	NeedPayment     *bool   `json:"needPayment"`
	ReservationType *string `json:"reservationType"`
	MaxCapacity     *int    `json:"maxCapacity"`
	TimeSlot        *int    `json:"timeSlot"`
	OpeningTime     *string `json:"openingTime"`
	ClosingTime     *string `json:"closingTime"`
	AllowOverlap    *bool   `json:"allowOverlap"`
}

// validateMergedPolicy checks the policy that would result from applying the
// update to the stored place. Nothing is written when this fails.
func validateMergedPolicy(place *models.Place, in *placeUpdate) error {
	reservationType := place.ReservationType
	if in.ReservationType != nil {
		reservationType = *in.ReservationType
	}
	maxCapacity := place.MaxCapacity
	if in.MaxCapacity != nil {
		maxCapacity = *in.MaxCapacity
	}
	timeSlot := place.TimeSlot
	if in.TimeSlot != nil {
		timeSlot = *in.TimeSlot
	}
	openingTime := place.OpeningTime
	if in.OpeningTime != nil {
		openingTime = *in.OpeningTime
	}
	closingTime := place.ClosingTime
	if in.ClosingTime != nil {
		closingTime = *in.ClosingTime
	}
	return validatePolicy(reservationType, maxCapacity, timeSlot, openingTime, closingTime)
}

func UpdatePlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var input placeUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	var existing models.Place
	err := db.PlacesCollection.FindOne(ctx, bson.M{"placeid": ps.ByName("placeid")}).Decode(&existing)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}

	if err := validateMergedPolicy(&existing, &input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.NeedPayment != nil {
		set["needPayment"] = *input.NeedPayment
	}
	if input.ReservationType != nil {
		set["reservationType"] = *input.ReservationType
	}
	if input.MaxCapacity != nil {
		set["maxCapacity"] = *input.MaxCapacity
	}
	if input.TimeSlot != nil {
		set["timeSlot"] = *input.TimeSlot
	}
	if input.OpeningTime != nil {
		set["openingTime"] = *input.OpeningTime
	}
	if input.ClosingTime != nil {
		set["closingTime"] = *input.ClosingTime
	}
	if input.AllowOverlap != nil {
		set["reservationSettings.allowOverlap"] = *input.AllowOverlap
	}
	if len(set) == 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	var place models.Place
	err = db.PlacesCollection.FindOneAndUpdate(
		ctx,
		bson.M{"placeid": existing.PlaceID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&place)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Place not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	invalidateCache()
	utils.RespondWithJSON(w, http.StatusOK, place)
}

func DeletePlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	res, err := db.PlacesCollection.DeleteOne(ctx, bson.M{"placeid": ps.ByName("placeid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}
	invalidateCache()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Place removed"})
}

// UploadPlaceImage accepts multipart images and appends them to the place gallery.
func UploadPlaceImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var place models.Place
	err := db.PlacesCollection.FindOne(ctx, bson.M{"placeid": ps.ByName("placeid")}).Decode(&place)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Place not found")
		return
	}

	names, err := filemgr.SaveFormFiles(r.MultipartForm, "images", filemgr.EntityPlace, true)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = db.PlacesCollection.UpdateOne(
		ctx,
		bson.M{"placeid": place.PlaceID},
		bson.M{
			"$push": bson.M{"image": bson.M{"$each": names}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	invalidateCache()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"images": names})
}
