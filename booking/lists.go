package booking

import (
	"context"
	"errors"
	"net/http"

	"vivenda/db"
	"vivenda/models"
	"vivenda/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// buildBookView joins a booking with its place and user display fields.
func buildBookView(ctx context.Context, book models.Book) models.BookView {
	view := models.BookView{
		ID:        book.ID,
		BookID:    book.BookID,
		PlaceID:   book.PlaceID,
		PlaceName: "Place not found",
		DateHour:  book.DateHour,
		Reason:    book.Reason,
		Guests:    book.Guests,
		Status:    book.Status,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	}

	if place, err := findPlace(ctx, book.PlaceID); err == nil {
		view.PlaceName = place.Name
	}
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": book.UserID}).Decode(&user); err == nil {
		view.UserName = user.Name
		view.UserEmail = user.Email
	}
	return view
}

// buildBookViews batches the place and user lookups for a list of bookings.
func buildBookViews(ctx context.Context, books []models.Book) []models.BookView {
	placeIDs := make([]string, 0, len(books))
	userIDs := make([]primitive.ObjectID, 0, len(books))
	for _, b := range books {
		placeIDs = append(placeIDs, b.PlaceID)
		userIDs = append(userIDs, b.UserID)
	}

	placeNames := map[string]string{}
	if cur, err := db.PlacesCollection.Find(ctx, bson.M{"placeid": bson.M{"$in": placeIDs}}); err == nil {
		var places []models.Place
		if err := cur.All(ctx, &places); err == nil {
			for _, p := range places {
				placeNames[p.PlaceID] = p.Name
			}
		}
	}

	users := map[primitive.ObjectID]models.User{}
	if cur, err := db.UserCollection.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}}); err == nil {
		var list []models.User
		if err := cur.All(ctx, &list); err == nil {
			for _, u := range list {
				users[u.ID] = u
			}
		}
	}

	views := make([]models.BookView, 0, len(books))
	for _, b := range books {
		v := models.BookView{
			ID:        b.ID,
			BookID:    b.BookID,
			PlaceID:   b.PlaceID,
			PlaceName: "Place not found",
			DateHour:  b.DateHour,
			Reason:    b.Reason,
			Guests:    b.Guests,
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		}
		if name, ok := placeNames[b.PlaceID]; ok {
			v.PlaceName = name
		}
		if u, ok := users[b.UserID]; ok {
			v.UserName = u.Name
			v.UserEmail = u.Email
		}
		views = append(views, v)
	}
	return views
}

func listBooks(ctx context.Context, filter bson.M) ([]models.Book, error) {
	cur, err := db.BooksCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func GetBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	books, err := listBooks(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildBookViews(ctx, books))
}

func GetBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	book, err := findBook(ctx, ps.ByName("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildBookView(ctx, *book))
}

func GetBooksByPlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	filter := bson.M{"placeId": ps.ByName("placeid")}
	if day := r.URL.Query().Get("date"); day != "" {
		t, err := parseDateParam(day)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid date")
			return
		}
		start, end := dayBounds(t)
		filter["dateHour"] = bson.M{"$gte": start, "$lte": end}
	}

	books, err := listBooks(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildBookViews(ctx, books))
}

func GetBooksByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	books, err := listBooks(ctx, bson.M{"userId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildBookViews(ctx, books))
}

// GetBooksByCondominium lists bookings of every place belonging to the
// condominium.
func GetBooksByCondominium(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
	var places []models.Place
	if err := cur.All(ctx, &places); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(places) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, []models.BookView{})
		return
	}

	placeIDs := make([]string, 0, len(places))
	for _, p := range places {
		placeIDs = append(placeIDs, p.PlaceID)
	}

	books, err := listBooks(ctx, bson.M{"placeId": bson.M{"$in": placeIDs}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildBookViews(ctx, books))
}
