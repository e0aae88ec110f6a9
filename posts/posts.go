package posts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"vivenda/db"
	"vivenda/filemgr"
	"vivenda/globals"
	"vivenda/models"
	"vivenda/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const handlerTimeout = 5 * time.Second

func requestUserID(r *http.Request) (primitive.ObjectID, error) {
	raw, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || raw == "" {
		return primitive.NilObjectID, errors.New("missing user in context")
	}
	return primitive.ObjectIDFromHex(raw)
}

// CreatePost accepts a multipart form with a content field and optional images.
func CreatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	authorID, err := requestUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "content is required")
		return
	}

	images, err := filemgr.SaveFormFiles(r.MultipartForm, "images", filemgr.EntityPost, false)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Content:   content,
		Images:    images,
		Author:    authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.PostsCollection.InsertOne(ctx, post); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, post)
}

func GetPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := db.PostsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	utils.RespondWithJSON(w, http.StatusOK, posts)
}

func GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var post models.Post
	if err := db.PostsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, post)
}

// UpdatePost lets the author edit the post content.
func UpdatePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	authorID, err := requestUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "content is required")
		return
	}

	set := bson.M{"content": content, "updatedAt": time.Now()}
	if images, err := filemgr.SaveFormFiles(r.MultipartForm, "images", filemgr.EntityPost, false); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	} else if len(images) > 0 {
		set["images"] = images
	}

	var post models.Post
	err = db.PostsCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "author": authorID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, post)
}

// DeletePost removes a post. Only the author may delete it.
func DeletePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	authorID, err := requestUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	res, err := db.PostsCollection.DeleteOne(ctx, bson.M{"_id": id, "author": authorID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Post not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Post removed"})
}
