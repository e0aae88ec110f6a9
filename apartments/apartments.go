package apartments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vivenda/db"
	"vivenda/models"
	"vivenda/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const handlerTimeout = 5 * time.Second

type apartmentRequest struct {
	Number      string `json:"number"`
	Block       string `json:"block"`
	Condominium string `json:"condominium"`
	Owner       string `json:"owner"`
}

func CreateApartment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var req apartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.Number) == "" || req.Condominium == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "number and condominium are required")
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

	apartment := models.Apartment{
		ID:          primitive.NewObjectID(),
		Number:      strings.TrimSpace(req.Number),
		Block:       strings.TrimSpace(req.Block),
		Condominium: condoID,
	}
	if req.Owner != "" {
		ownerID, err := primitive.ObjectIDFromHex(req.Owner)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid owner ID")
			return
		}
		apartment.Owner = ownerID
	}

	if _, err := db.ApartmentCollection.InsertOne(ctx, apartment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, apartment)
}

func GetApartments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	cur, err := db.ApartmentCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	var apartments []models.Apartment
	if err := cur.All(ctx, &apartments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if apartments == nil {
		apartments = []models.Apartment{}
	}
	utils.RespondWithJSON(w, http.StatusOK, apartments)
}

func GetApartment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	var apartment models.Apartment
	if err := db.ApartmentCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&apartment); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Apartment not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apartment)
}

func UpdateApartment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	var input struct {
		Number *string `json:"number"`
		Block  *string `json:"block"`
		Owner  *string `json:"owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	set := bson.M{}
	if input.Number != nil {
		set["number"] = strings.TrimSpace(*input.Number)
	}
	if input.Block != nil {
		set["block"] = strings.TrimSpace(*input.Block)
	}
	if input.Owner != nil {
		ownerID, err := primitive.ObjectIDFromHex(*input.Owner)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid owner ID")
			return
		}
		set["owner"] = ownerID
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	var apartment models.Apartment
	err = db.ApartmentCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&apartment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Apartment not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apartment)
}

func DeleteApartment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid apartment ID")
		return
	}

	res, err := db.ApartmentCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Apartment not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Apartment removed"})
}

// GetUserApartments lists units owned by a user.
func GetUserApartments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	ownerID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	cur, err := db.ApartmentCollection.Find(ctx, bson.M{"owner": ownerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	var apartments []models.Apartment
	if err := cur.All(ctx, &apartments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if apartments == nil {
		apartments = []models.Apartment{}
	}
	utils.RespondWithJSON(w, http.StatusOK, apartments)
}
