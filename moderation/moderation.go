// Package moderation holds the rules of the report/unlist/relist lifecycle:
// the report-reason enum, the unlist threshold, content-change detection for
// edits, and the sweep decision for posts past their deletion deadline.
package moderation

import (
	"fmt"
	"html"
	"strings"
	"time"

	"intervue/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// ReportThreshold is the report count at which a post is unlisted.
	ReportThreshold = 3

	// DeletionGrace is how long an unlisted post survives before the
	// sweeper deletes it, counted from the moment it was unlisted.
	DeletionGrace = 24 * time.Hour

	// StaleJobRetention is how long a job posting outlives its application
	// deadline before the sweeper removes it.
	StaleJobRetention = 7 * 24 * time.Hour
)

// reasonLabels is the closed report-reason enum with the human-readable
// labels used in notification text.
var reasonLabels = map[string]string{
	"spam":                   "Spam",
	"inappropriate_content":  "Inappropriate Content",
	"offensive_language":     "Offensive Language",
	"misleading_information": "Misleading Information",
	"privacy_violation":      "Privacy Violation",
	"duplicate_content":      "Duplicate Content",
	"other":                  "Other",
}

// ReasonLabel returns the display label for a report reason, and whether the
// reason is one of the seven valid values.
func ReasonLabel(reason string) (string, bool) {
	label, ok := reasonLabels[reason]
	return label, ok
}

// HasReported reports whether the given user already appears in the report
// list. At most one report per user is allowed.
func HasReported(reports []models.Report, userID primitive.ObjectID) bool {
	for _, r := range reports {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// ReasonSummary returns the labels of all accumulated reports in order,
// duplicates included.
func ReasonSummary(reports []models.Report) []string {
	labels := make([]string, 0, len(reports))
	for _, r := range reports {
		if label, ok := reasonLabels[r.Reason]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// ExperiencePatch is the partial update an owner may apply to their post.
// Moderation and derived fields are deliberately absent so they can never be
// bound from a request body.
type ExperiencePatch struct {
	Company         *string        `json:"company"`
	Role            *string        `json:"role"`
	Package         *string        `json:"package"`
	InterviewStatus *string        `json:"interviewStatus"`
	OverallFeedback *string        `json:"overallFeedback"`
	Challenges      *string        `json:"challenges"`
	Rounds          []models.Round `json:"rounds"`
}

// ContentChanged reports whether the patch touches any qualifying content
// field. Company edits, comments and helpful votes never qualify.
func (p ExperiencePatch) ContentChanged() bool {
	return p.OverallFeedback != nil ||
		p.Challenges != nil ||
		p.Rounds != nil ||
		p.Role != nil ||
		p.Package != nil ||
		p.InterviewStatus != nil
}

// ShouldUnlist reports whether a post at the given report count must
// transition to pending deletion. The transition is edge-triggered: it fires
// on the crossing into the threshold and never re-fires on a post that is
// already unlisted, so extra reports cannot move the deadline.
func ShouldUnlist(reportCount int, unlisted bool) bool {
	return reportCount >= ReportThreshold && !unlisted
}

// DeletionDeadline returns when a post unlisted at the given time will be
// deleted: exactly one grace window later.
func DeletionDeadline(reportedAt int64) int64 {
	return reportedAt + int64(DeletionGrace/time.Second)
}

// ShouldRelist reports whether applying the patch must relist the post: the
// patch is a content change and the post is pending deletion.
func ShouldRelist(exp *models.Experience, patch ExperiencePatch) bool {
	return patch.ContentChanged() && exp.Unlisted && exp.ReportedAt != nil
}

// SweepAction is the sweeper's verdict for a post past its deadline.
type SweepAction int

const (
	SweepDelete SweepAction = iota
	SweepReset
)

// Resolve decides the fate of a post whose deletion deadline has passed. If
// the content was updated after the post was reported the report state is
// reset; otherwise the post is deleted for good.
func Resolve(exp *models.Experience) SweepAction {
	if exp.ContentUpdatedAt == nil {
		return SweepDelete
	}
	if exp.ReportedAt == nil || *exp.ContentUpdatedAt > *exp.ReportedAt {
		return SweepReset
	}
	return SweepDelete
}

// UnlistedNotification builds the author email sent when a post crosses the
// report threshold and is unlisted.
func UnlistedNotification(exp *models.Experience, deadline time.Time) (subject, body string) {
	labels := ReasonSummary(exp.Reports)
	subject = "Your interview experience has been reported"
	body = fmt.Sprintf(
		"<p>Your experience post about <b>%s</b> has been reported by the community for: %s.</p>"+
			"<p>It is no longer publicly visible. Edit the post before <b>%s</b> to restore it, "+
			"otherwise it will be permanently deleted.</p>",
		html.EscapeString(exp.Company),
		strings.Join(labels, ", "),
		deadline.UTC().Format(time.RFC1123),
	)
	return subject, body
}

// RelistedNotification builds the author email sent when an edited post is
// restored to public listings.
func RelistedNotification(exp *models.Experience) (subject, body string) {
	subject = "Your interview experience is live again"
	body = fmt.Sprintf(
		"<p>Thanks for updating your experience post about <b>%s</b>. "+
			"It has been restored and is visible to the community again.</p>",
		html.EscapeString(exp.Company),
	)
	return subject, body
}
