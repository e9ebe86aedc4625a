package handlers

import (
	"context"
	"net/http"
	"time"

	"intervue/database"
	"intervue/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateJobRequest struct {
	Title               string `json:"title" binding:"required"`
	Company             string `json:"company" binding:"required"`
	Description         string `json:"description"`
	ApplyLink           string `json:"applyLink"`
	ApplicationDeadline int64  `json:"applicationDeadline" binding:"required"`
}

func CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	if req.ApplicationDeadline <= time.Now().Unix() {
		respondError(c, http.StatusBadRequest, "Application deadline must be in the future")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	job := models.Job{
		ID:                  primitive.NewObjectID(),
		PostedBy:            userID,
		Title:               req.Title,
		Company:             req.Company,
		Description:         req.Description,
		ApplyLink:           req.ApplyLink,
		ApplicationDeadline: req.ApplicationDeadline,
		CreatedAt:           time.Now().Unix(),
	}

	if _, err := database.Jobs.InsertOne(ctx, job); err != nil {
		respondInternal(c, "Failed to create job posting", err)
		return
	}

	respondOK(c, http.StatusCreated, "Job posted successfully", job)
}

// ListJobs returns open postings only. Expired ones linger unseen until the
// sweeper removes them.
func ListJobs(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "applicationDeadline", Value: 1}})
	cursor, err := database.Jobs.Find(ctx,
		bson.M{"applicationDeadline": bson.M{"$gte": time.Now().Unix()}}, findOptions)
	if err != nil {
		respondInternal(c, "Failed to fetch jobs", err)
		return
	}
	defer cursor.Close(ctx)

	var jobList []models.Job
	if err := cursor.All(ctx, &jobList); err != nil {
		respondInternal(c, "Failed to decode jobs", err)
		return
	}
	if jobList == nil {
		jobList = []models.Job{}
	}

	respondOK(c, http.StatusOK, "Jobs fetched", jobList)
}

func DeleteJob(c *gin.Context) {
	jobID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid job ID")
		return
	}

	userID, ok := actingUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": jobID}
	if c.GetString("role") != models.RoleAdmin {
		filter["postedBy"] = userID
	}

	res, err := database.Jobs.DeleteOne(ctx, filter)
	if err != nil {
		respondInternal(c, "Failed to delete job", err)
		return
	}
	if res.DeletedCount == 0 {
		respondError(c, http.StatusNotFound, "Job not found")
		return
	}

	respondOK(c, http.StatusOK, "Job deleted", nil)
}
