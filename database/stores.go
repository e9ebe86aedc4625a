package database

import (
	"context"

	"intervue/models"
	"intervue/moderation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExperienceStore and JobStore back the sweeper with the shared collections.
// They exist as types (rather than package funcs) so the sweeper can run
// against mocks in tests.

type ExperienceStore struct{}

// DueForDeletion returns every experience whose deletion deadline has passed.
// Posts without a deadline don't match: a missing or null field never
// satisfies $lte.
func (ExperienceStore) DueForDeletion(ctx context.Context, now int64) ([]models.Experience, error) {
	cursor, err := Experiences.Find(ctx, bson.M{"scheduledForDeletion": bson.M{"$lte": now}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var due []models.Experience
	if err := cursor.All(ctx, &due); err != nil {
		return nil, err
	}
	return due, nil
}

// UnlistOverReported transitions posts that sit at or over the report
// threshold but were never unlisted, which happens when a reporting request
// dies between the append and the transition. Each transition reuses the
// edge-triggered filter, so a post racing with a live report request is
// still unlisted exactly once. Returns the posts it transitioned.
func (ExperienceStore) UnlistOverReported(ctx context.Context, now int64) ([]models.Experience, error) {
	cursor, err := Experiences.Find(ctx, bson.M{
		"reportCount": bson.M{"$gte": moderation.ReportThreshold},
		"unlisted":    bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var candidates []models.Experience
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}

	var transitioned []models.Experience
	for _, exp := range candidates {
		var updated models.Experience
		err := Experiences.FindOneAndUpdate(ctx,
			bson.M{"_id": exp.ID, "unlisted": bson.M{"$ne": true}},
			bson.M{
				"$set": bson.M{
					"unlisted":             true,
					"reportedAt":           now,
					"scheduledForDeletion": moderation.DeletionDeadline(now),
				},
				"$unset": bson.M{"contentUpdatedAt": ""},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return transitioned, err
		}
		transitioned = append(transitioned, updated)
	}
	return transitioned, nil
}

// ResetReportState clears all report and moderation state and relists the
// post.
func (ExperienceStore) ResetReportState(ctx context.Context, id primitive.ObjectID, now int64) error {
	_, err := Experiences.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"reports":     []models.Report{},
			"reportCount": 0,
			"unlisted":    false,
			"updatedAt":   now,
		},
		"$unset": bson.M{
			"reportedAt":           "",
			"contentUpdatedAt":     "",
			"scheduledForDeletion": "",
		},
	})
	return err
}

// Delete removes the post permanently. There is no tombstone.
func (ExperienceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := Experiences.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindAuthor loads the owning user of a post.
func (ExperienceStore) FindAuthor(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

type JobStore struct{}

// DeleteExpired removes all job postings whose application deadline is
// before the cutoff.
func (JobStore) DeleteExpired(ctx context.Context, cutoff int64) (int64, error) {
	res, err := Jobs.DeleteMany(ctx, bson.M{
		"applicationDeadline": bson.M{"$gt": 0, "$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
