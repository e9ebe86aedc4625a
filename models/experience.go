package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Sentiment is derived from the feedback text on create/update. Never
// written by clients.
type Sentiment struct {
	Score       float64 `bson:"score" json:"score"`
	Comparative float64 `bson:"comparative" json:"comparative"`
	Category    string  `bson:"category" json:"category"`
}

type Round struct {
	Name      string   `bson:"name" json:"name"`
	Questions []string `bson:"questions" json:"questions"`
}

type Report struct {
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	Reason     string             `bson:"reason" json:"reason"`
	Details    string             `bson:"details,omitempty" json:"details,omitempty"`
	ReportedAt int64              `bson:"reportedAt" json:"reportedAt"`
}

type Comment struct {
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

type Experience struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user" json:"user"`

	Company         string  `bson:"company" json:"company"`
	Role            string  `bson:"role" json:"role"`
	Package         string  `bson:"package,omitempty" json:"package,omitempty"`
	InterviewStatus string  `bson:"interviewStatus" json:"interviewStatus"`
	OverallFeedback string  `bson:"overallFeedback" json:"overallFeedback"`
	Challenges      string  `bson:"challenges,omitempty" json:"challenges,omitempty"`
	Rounds          []Round `bson:"rounds" json:"rounds"`

	Sentiment     Sentiment            `bson:"sentiment" json:"sentiment"`
	HelpfulVoters []primitive.ObjectID `bson:"helpfulVoters" json:"helpfulVoters"`
	Comments      []Comment            `bson:"comments" json:"comments"`

	Reports     []Report `bson:"reports" json:"reports"`
	ReportCount int      `bson:"reportCount" json:"reportCount"`

	// Moderation lifecycle. Unlisted posts are hidden from public listings
	// until the author edits the content or the sweeper deletes them.
	Unlisted             bool   `bson:"unlisted" json:"unlisted"`
	ReportedAt           *int64 `bson:"reportedAt,omitempty" json:"reportedAt,omitempty"`
	ScheduledForDeletion *int64 `bson:"scheduledForDeletion,omitempty" json:"scheduledForDeletion,omitempty"`
	ContentUpdatedAt     *int64 `bson:"contentUpdatedAt,omitempty" json:"contentUpdatedAt,omitempty"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64 `bson:"updatedAt" json:"updatedAt"`
}
