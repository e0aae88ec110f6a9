package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"vivenda/db"
	"vivenda/globals"
	"vivenda/mailer"
	"vivenda/middleware"
	"vivenda/models"
	"vivenda/rdx"
	"vivenda/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	codeTTL  = 10 * time.Minute
	tokenTTL = 72 * time.Hour
)

func codeKey(email string) string {
	return "verify:" + strings.ToLower(email)
}

// RequestCode generates a one-time login code, stores its bcrypt hash in
// Redis with a TTL, and emails it. Unknown emails get a user created on the
// fly; first-time users also get an apartment assigned in the default
// condominium.
func RequestCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || strings.TrimSpace(input.Email) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	code := utils.GenerateRandomDigitString(6)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate code")
		return
	}
	if err := rdx.RdxSetWithTTL(codeKey(email), string(hash), codeTTL); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	isNewUser := false
	err = db.UserCollection.FindOne(ctx, bson.M{"email": email}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		isNewUser = true
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	var user models.User
	err = db.UserCollection.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"email": email, "name": strings.SplitN(email, "@", 2)[0], "isVerified": false, "isAdmin": false, "createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if isNewUser {
		if err := provisionApartment(ctx, user); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if err := mailer.SendVerificationCode(email, code); err != nil {
		log.Printf("[auth] send code to %s: %v", email, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send verification code")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Verification code sent"})
}

// provisionApartment assigns a new user a unit in the default condominium,
// unless they already own one.
func provisionApartment(ctx context.Context, user models.User) error {
	condoHex := os.Getenv("DEFAULT_CONDOMINIUM")
	if condoHex == "" {
		log.Printf("[auth] DEFAULT_CONDOMINIUM unset, skipping apartment for %s", user.Email)
		return nil
	}
	condoID, err := primitive.ObjectIDFromHex(condoHex)
	if err != nil {
		return errors.New("invalid DEFAULT_CONDOMINIUM")
	}

	err = db.CondosCollection.FindOne(ctx, bson.M{"_id": condoID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errors.New("default condominium not found")
		}
		return err
	}

	err = db.ApartmentCollection.FindOne(ctx, bson.M{"owner": user.ID}).Err()
	if err == nil {
		return nil // already has one
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	apartment := models.Apartment{
		ID:          primitive.NewObjectID(),
		Number:      strconv.Itoa(rand.Intn(20) + 1),
		Block:       strconv.Itoa(rand.Intn(10) + 1),
		Condominium: condoID,
		Owner:       user.ID,
	}
	_, err = db.ApartmentCollection.InsertOne(ctx, apartment)
	return err
}

// VerifyCode checks a submitted code against the hash stored in Redis and,
// on success, marks the user verified and issues a JWT whose claims carry
// the apartment and condominium display fields.
func VerifyCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" || input.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and code are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	storedHash, err := rdx.RdxGet(codeKey(email))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(input.Code)) != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid or expired code")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"isVerified": true, "updatedAt": time.Now()}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rdx.RdxDel(codeKey(email))

	profile := loadProfile(ctx, user)

	claims := &middleware.Claims{
		UserID:          user.ID.Hex(),
		Email:           user.Email,
		Name:            user.Name,
		IsAdmin:         user.IsAdmin,
		ApartmentID:     profile.ApartmentID,
		ApartmentNumber: profile.ApartmentNumber,
		CondominiumID:   profile.CondominiumID,
		CondominiumName: profile.CondominiumName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to sign token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token, "user": profile})
}

// loadProfile joins a user with their apartment and condominium, if any.
func loadProfile(ctx context.Context, user models.User) models.UserProfile {
	profile := models.UserProfile{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	}

	var apartment models.Apartment
	if err := db.ApartmentCollection.FindOne(ctx, bson.M{"owner": user.ID}).Decode(&apartment); err != nil {
		return profile
	}
	profile.ApartmentID = apartment.ID.Hex()
	profile.ApartmentNumber = apartment.Number

	var condo models.Condominium
	if err := db.CondosCollection.FindOne(ctx, bson.M{"_id": apartment.Condominium}).Decode(&condo); err == nil {
		profile.CondominiumID = condo.ID.Hex()
		profile.CondominiumName = condo.Name
	}
	return profile
}
