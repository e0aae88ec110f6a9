package condos

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

func CreateCondominium(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	var condo models.Condominium
	if err := json.NewDecoder(r.Body).Decode(&condo); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(condo.Name) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	condo.ID = primitive.NewObjectID()
	condo.CreatedAt = time.Now()
	condo.UpdatedAt = condo.CreatedAt

	if _, err := db.CondosCollection.InsertOne(ctx, condo); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, condo)
}

func GetCondominiums(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	cur, err := db.CondosCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	var condos []models.Condominium
	if err := cur.All(ctx, &condos); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if condos == nil {
		condos = []models.Condominium{}
	}
	utils.RespondWithJSON(w, http.StatusOK, condos)
}

func GetCondominium(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid condominium ID")
		return
	}

	var condo models.Condominium
	if err := db.CondosCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&condo); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Condominium not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, condo)
}

func UpdateCondominium(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid condominium ID")
		return
	}

	var input struct {
		Name    *string         `json:"name"`
		Address *models.Address `json:"address"`
		CNPJ    *string         `json:"cnpj"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Address != nil {
		set["address"] = *input.Address
	}
	if input.CNPJ != nil {
		set["cnpj"] = *input.CNPJ
	}

	var condo models.Condominium
	err = db.CondosCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&condo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Condominium not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, condo)
}

func DeleteCondominium(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid condominium ID")
		return
	}

	res, err := db.CondosCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Condominium not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Condominium removed"})
}

// GetCondominiumApartments lists the units registered in a condominium.
func GetCondominiumApartments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid condominium ID")
		return
	}

	cur, err := db.ApartmentCollection.Find(ctx, bson.M{"condominium": id})
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
