package handlers

import (
	"context"
	"net/http"
	"time"

	"intervue/database"
	"intervue/models"
	"intervue/moderation"
	"intervue/sentiment"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateExperienceRequest struct {
	Company         string         `json:"company" binding:"required"`
	Role            string         `json:"role" binding:"required"`
	Package         string         `json:"package"`
	InterviewStatus string         `json:"interviewStatus"`
	OverallFeedback string         `json:"overallFeedback"`
	Challenges      string         `json:"challenges"`
	Rounds          []models.Round `json:"rounds"`
}

func CreateExperience(c *gin.Context) {
	var req CreateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res := sentiment.Analyze(req.OverallFeedback)
	now := time.Now().Unix()

	exp := models.Experience{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Company:         req.Company,
		Role:            req.Role,
		Package:         req.Package,
		InterviewStatus: req.InterviewStatus,
		OverallFeedback: req.OverallFeedback,
		Challenges:      req.Challenges,
		Rounds:          req.Rounds,
		Sentiment: models.Sentiment{
			Score:       res.Score,
			Comparative: res.Comparative,
			Category:    res.Category,
		},
		HelpfulVoters: []primitive.ObjectID{},
		Comments:      []models.Comment{},
		Reports:       []models.Report{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if exp.Rounds == nil {
		exp.Rounds = []models.Round{}
	}

	if _, err := database.Experiences.InsertOne(ctx, exp); err != nil {
		respondInternal(c, "Failed to create experience", err)
		return
	}

	respondOK(c, http.StatusCreated, "Experience shared successfully", exp)
}

// ListExperiences returns the public feed. Unlisted posts never appear here.
func ListExperiences(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Experiences.Find(ctx, bson.M{"unlisted": bson.M{"$ne": true}}, findOptions)
	if err != nil {
		respondInternal(c, "Failed to fetch experiences", err)
		return
	}
	defer cursor.Close(ctx)

	var experiences []models.Experience
	if err := cursor.All(ctx, &experiences); err != nil {
		respondInternal(c, "Failed to decode experiences", err)
		return
	}
	if experiences == nil {
		experiences = []models.Experience{}
	}

	respondOK(c, http.StatusOK, "Experiences fetched", experiences)
}

func GetExperience(c *gin.Context) {
	expID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid experience ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exp models.Experience
	err = database.Experiences.FindOne(ctx, bson.M{"_id": expID}).Decode(&exp)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Experience not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to fetch experience", err)
		return
	}

	respondOK(c, http.StatusOK, "Experience fetched", exp)
}

// GetMyExperiences returns the caller's own posts, unlisted ones included so
// authors can see what needs fixing.
func GetMyExperiences(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Experiences.Find(ctx, bson.M{"user": userID}, findOptions)
	if err != nil {
		respondInternal(c, "Failed to fetch experiences", err)
		return
	}
	defer cursor.Close(ctx)

	var experiences []models.Experience
	if err := cursor.All(ctx, &experiences); err != nil {
		respondInternal(c, "Failed to decode experiences", err)
		return
	}
	if experiences == nil {
		experiences = []models.Experience{}
	}

	respondOK(c, http.StatusOK, "Experiences fetched", experiences)
}

// UpdateExperience applies an owner's partial edit. Moderation fields are
// not part of the patch type, so they can never be written from a request
// body. A content-changing edit on a post pending deletion relists it.
func UpdateExperience(c *gin.Context) {
	expID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid experience ID")
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	var patch moderation.ExperiencePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exp models.Experience
	err = database.Experiences.FindOne(ctx, bson.M{"_id": expID}).Decode(&exp)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Experience not found")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to fetch experience", err)
		return
	}

	if exp.UserID != userID {
		respondError(c, http.StatusForbidden, "You can only edit your own experience")
		return
	}

	now := time.Now().Unix()
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if patch.Company != nil {
		set["company"] = *patch.Company
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Package != nil {
		set["package"] = *patch.Package
	}
	if patch.InterviewStatus != nil {
		set["interviewStatus"] = *patch.InterviewStatus
	}
	if patch.Challenges != nil {
		set["challenges"] = *patch.Challenges
	}
	if patch.Rounds != nil {
		set["rounds"] = patch.Rounds
	}
	if patch.OverallFeedback != nil {
		set["overallFeedback"] = *patch.OverallFeedback
		// New feedback text fully replaces the stored sentiment
		res := sentiment.Analyze(*patch.OverallFeedback)
		set["sentiment"] = models.Sentiment{
			Score:       res.Score,
			Comparative: res.Comparative,
			Category:    res.Category,
		}
	}

	relisting := moderation.ShouldRelist(&exp, patch)
	if relisting {
		set["unlisted"] = false
		set["contentUpdatedAt"] = now
		unset["scheduledForDeletion"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var updated models.Experience
	err = database.Experiences.FindOneAndUpdate(ctx, bson.M{"_id": expID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondInternal(c, "Failed to update experience", err)
		return
	}

	if relisting {
		notifyRelisted(ctx, &updated)
	}

	respondOK(c, http.StatusOK, "Experience updated", updated)
}

func notifyRelisted(ctx context.Context, exp *models.Experience) {
	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": exp.UserID}).Decode(&author); err != nil {
		return
	}

	subject, body := moderation.RelistedNotification(exp)
	notifier.Notify(author.Name, author.Email, subject, body,
		"View your post", appBaseURL+"/experience/"+exp.ID.Hex())
}

func DeleteExperience(c *gin.Context) {
	expID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid experience ID")
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Experiences.DeleteOne(ctx, bson.M{"_id": expID, "user": userID})
	if err != nil {
		respondInternal(c, "Failed to delete experience", err)
		return
	}
	if res.DeletedCount == 0 {
		respondError(c, http.StatusNotFound, "Experience not found")
		return
	}

	respondOK(c, http.StatusOK, "Experience deleted", nil)
}

// ToggleHelpful flips the caller's membership in the helpful-voters set.
// Both directions are single conditional updates, so double votes can't
// slip in between a read and a write.
func ToggleHelpful(c *gin.Context) {
	expID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid experience ID")
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Try to add first; if the voter is already present, remove instead.
	res, err := database.Experiences.UpdateOne(ctx,
		bson.M{"_id": expID, "helpfulVoters": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"helpfulVoters": userID}})
	if err != nil {
		respondInternal(c, "Failed to update helpful vote", err)
		return
	}

	if res.ModifiedCount > 0 {
		respondOK(c, http.StatusOK, "Marked as helpful", gin.H{"helpful": true})
		return
	}

	res, err = database.Experiences.UpdateOne(ctx,
		bson.M{"_id": expID},
		bson.M{"$pull": bson.M{"helpfulVoters": userID}})
	if err != nil {
		respondInternal(c, "Failed to update helpful vote", err)
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, "Experience not found")
		return
	}

	respondOK(c, http.StatusOK, "Helpful vote removed", gin.H{"helpful": false})
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func AddComment(c *gin.Context) {
	expID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid experience ID")
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Comment text is required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	comment := models.Comment{
		UserID:    userID,
		Text:      req.Text,
		CreatedAt: time.Now().Unix(),
	}

	res, err := database.Experiences.UpdateOne(ctx,
		bson.M{"_id": expID},
		bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		respondInternal(c, "Failed to add comment", err)
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, "Experience not found")
		return
	}

	respondOK(c, http.StatusCreated, "Comment added", comment)
}
