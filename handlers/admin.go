package handlers

import (
	"context"
	"net/http"
	"time"

	"intervue/database"
	"intervue/models"
	"intervue/moderation"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetReportedExperiences lists every post carrying at least one report, for
// the moderation dashboard. Admin only (enforced in the route group).
func GetReportedExperiences(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "reportCount", Value: -1}})
	cursor, err := database.Experiences.Find(ctx, bson.M{"reportCount": bson.M{"$gt": 0}}, findOptions)
	if err != nil {
		respondInternal(c, "Failed to fetch reported experiences", err)
		return
	}
	defer cursor.Close(ctx)

	var experiences []models.Experience
	if err := cursor.All(ctx, &experiences); err != nil {
		respondInternal(c, "Failed to decode reported experiences", err)
		return
	}
	if experiences == nil {
		experiences = []models.Experience{}
	}

	respondOK(c, http.StatusOK, "Reported experiences fetched", experiences)
}

// RelistExperience is the admin override: the post goes back to public
// listings immediately and its deletion deadline is cancelled. Report
// entries stay until the sweeper resolves them.
func RelistExperience(c *gin.Context) {
	expID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid experience ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().Unix()

	var updated models.Experience
	err = database.Experiences.FindOneAndUpdate(ctx,
		bson.M{"_id": expID},
		bson.M{
			"$set":   bson.M{"unlisted": false, "contentUpdatedAt": now, "updatedAt": now},
			"$unset": bson.M{"scheduledForDeletion": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Experience not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to relist experience", err)
		return
	}

	notifyAdminRelist(ctx, &updated)

	respondOK(c, http.StatusOK, "Experience relisted", updated)
}

func notifyAdminRelist(ctx context.Context, exp *models.Experience) {
	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": exp.UserID}).Decode(&author); err != nil {
		return
	}

	subject, body := moderation.RelistedNotification(exp)
	notifier.Notify(author.Name, author.Email, subject, body,
		"View your post", appBaseURL+"/experience/"+exp.ID.Hex())
}
