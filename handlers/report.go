package handlers

import (
	"context"
	"log"
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

type ReportRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Details string `json:"details"`
}

// ReportExperience files a report against a post. One report per user; on
// the third report the post is unlisted, given a 24h deletion deadline and
// the author is warned by email. The append and the threshold crossing are
// both conditional updates, so concurrent reports can neither duplicate an
// entry nor unlist the same post twice.
func ReportExperience(c *gin.Context) {
	expID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid experience ID")
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "A report reason is required")
		return
	}

	label, valid := moderation.ReasonLabel(req.Reason)
	if !valid {
		respondError(c, http.StatusBadRequest, "Invalid report reason")
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

	if moderation.HasReported(exp.Reports, userID) {
		respondError(c, http.StatusBadRequest, "You have already reported this experience")
		return
	}

	report := models.Report{
		UserID:     userID,
		Reason:     req.Reason,
		Details:    req.Details,
		ReportedAt: time.Now().Unix(),
	}

	// The filter excludes posts already carrying this user's report, so the
	// append and the counter increment are one atomic, once-per-user write.
	// Returning the updated document gives the authoritative post-increment
	// count for the threshold check below.
	var appended models.Experience
	err = database.Experiences.FindOneAndUpdate(ctx,
		bson.M{"_id": expID, "reports.user": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"reports": report},
			"$inc":  bson.M{"reportCount": 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&appended)
	if err == mongo.ErrNoDocuments {
		// Lost a race with this user's own concurrent report
		respondError(c, http.StatusBadRequest, "You have already reported this experience")
		return
	}
	if err != nil {
		respondInternal(c, "Failed to record report", err)
		return
	}

	if moderation.ShouldUnlist(appended.ReportCount, appended.Unlisted) {
		unlist(ctx, expID, userID)
	}

	respondOK(c, http.StatusOK, "Experience reported as "+label, nil)
}

// unlist performs the edge-triggered threshold transition: exactly one
// request observes the crossing because only one conditional update can flip
// unlisted from false to true. Reports past the third never extend the
// deadline or resend the warning. The report itself is already committed, so
// failures here are logged rather than surfaced to the reporter; the sweeper
// picks up any post left listed over the threshold.
func unlist(ctx context.Context, expID, reporterID primitive.ObjectID) {
	now := time.Now().Unix()
	deadline := moderation.DeletionDeadline(now)

	var unlisted models.Experience
	err := database.Experiences.FindOneAndUpdate(ctx,
		bson.M{
			"_id":         expID,
			"reportCount": bson.M{"$gte": moderation.ReportThreshold},
			"unlisted":    bson.M{"$ne": true},
		},
		bson.M{
			"$set": bson.M{
				"unlisted":             true,
				"reportedAt":           now,
				"scheduledForDeletion": deadline,
			},
			"$unset": bson.M{"contentUpdatedAt": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&unlisted)
	if err == mongo.ErrNoDocuments {
		return
	}
	if err != nil {
		log.Printf("Unlist transition for %s failed: %v", expID.Hex(), err)
		return
	}

	notifyUnlisted(ctx, &unlisted, reporterID, time.Unix(deadline, 0))
}

func notifyUnlisted(ctx context.Context, exp *models.Experience, reporterID primitive.ObjectID, deadline time.Time) {
	var author models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": exp.UserID}).Decode(&author); err != nil {
		return
	}

	// Skip the warning when the reporter is the author themselves
	var reporter models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": reporterID}).Decode(&reporter); err == nil {
		if reporter.Email == author.Email {
			return
		}
	}

	subject, body := moderation.UnlistedNotification(exp, deadline)
	notifier.Notify(author.Name, author.Email, subject, body,
		"Edit your post", appBaseURL+"/experience/"+exp.ID.Hex()+"/edit")
}
