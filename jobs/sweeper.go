// Package jobs runs the scheduled maintenance work: resolving reported posts
// past their deletion deadline and purging stale job postings.
package jobs

import (
	"context"
	"log"
	"time"

	"intervue/mailer"
	"intervue/models"
	"intervue/moderation"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExperienceStore is the slice of persistence the sweeper needs for the
// report-resolution duty.
type ExperienceStore interface {
	DueForDeletion(ctx context.Context, now int64) ([]models.Experience, error)
	UnlistOverReported(ctx context.Context, now int64) ([]models.Experience, error)
	ResetReportState(ctx context.Context, id primitive.ObjectID, now int64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAuthor(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

// JobStore is the slice of persistence the sweeper needs for the stale-job
// duty.
type JobStore interface {
	DeleteExpired(ctx context.Context, cutoff int64) (int64, error)
}

// Sweeper finalizes the fate of unlisted posts and retires stale job
// postings. It is a singleton periodic task, independent of request traffic.
type Sweeper struct {
	experiences ExperienceStore
	jobs        JobStore
	notifier    mailer.Notifier
	baseURL     string
	now         func() time.Time
}

func NewSweeper(experiences ExperienceStore, jobStore JobStore, notifier mailer.Notifier, baseURL string) *Sweeper {
	return &Sweeper{
		experiences: experiences,
		jobs:        jobStore,
		notifier:    notifier,
		baseURL:     baseURL,
		now:         time.Now,
	}
}

// Start schedules the sweep on an hourly cadence and returns the running
// cron so the caller can stop it on shutdown.
func (s *Sweeper) Start() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("@hourly", s.RunOnce); err != nil {
		log.Fatal("Failed to schedule sweeper:", err)
	}
	c.Start()
	log.Println("Lifecycle sweeper scheduled (hourly)")
	return c
}

// RunOnce executes both duties back to back. Each duty recovers on its own,
// so a failure in one never blocks the other; there is no intra-tick retry,
// the next tick is the retry.
func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.runDuty("report resolution", func() error { return s.resolveReportedPosts(ctx) })
	s.runDuty("stale job sweep", func() error { return s.sweepStaleJobs(ctx) })
}

func (s *Sweeper) runDuty(name string, duty func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Sweeper duty %q panicked: %v", name, r)
		}
	}()
	if err := duty(); err != nil {
		log.Printf("Sweeper duty %q failed: %v", name, err)
	}
}

// resolveReportedPosts settles every post whose deletion deadline has
// passed: reset the report state when the author fixed the content after the
// report, delete the post otherwise. It first unlists any post stranded at
// the report threshold by a request that died mid-transition.
func (s *Sweeper) resolveReportedPosts(ctx context.Context) error {
	now := s.now().Unix()

	stragglers, err := s.experiences.UnlistOverReported(ctx, now)
	if err != nil {
		log.Printf("Sweeper unlist of over-reported posts failed: %v", err)
	}
	for i := range stragglers {
		s.notifyUnlisted(ctx, &stragglers[i])
	}

	due, err := s.experiences.DueForDeletion(ctx, now)
	if err != nil {
		return err
	}

	for i := range due {
		exp := &due[i]
		switch moderation.Resolve(exp) {
		case moderation.SweepReset:
			if err := s.experiences.ResetReportState(ctx, exp.ID, now); err != nil {
				log.Printf("Sweeper reset of %s failed: %v", exp.ID.Hex(), err)
				continue
			}
			s.notifyRelisted(ctx, exp)
		case moderation.SweepDelete:
			if err := s.experiences.Delete(ctx, exp.ID); err != nil {
				log.Printf("Sweeper delete of %s failed: %v", exp.ID.Hex(), err)
			}
		}
	}
	return nil
}

func (s *Sweeper) notifyUnlisted(ctx context.Context, exp *models.Experience) {
	author, err := s.experiences.FindAuthor(ctx, exp.UserID)
	if err != nil {
		log.Printf("Sweeper could not load author of %s: %v", exp.ID.Hex(), err)
		return
	}

	deadline := s.now().Add(moderation.DeletionGrace)
	if exp.ScheduledForDeletion != nil {
		deadline = time.Unix(*exp.ScheduledForDeletion, 0)
	}

	subject, body := moderation.UnlistedNotification(exp, deadline)
	s.notifier.Notify(author.Name, author.Email, subject, body,
		"Edit your post", s.baseURL+"/experience/"+exp.ID.Hex()+"/edit")
}

func (s *Sweeper) notifyRelisted(ctx context.Context, exp *models.Experience) {
	author, err := s.experiences.FindAuthor(ctx, exp.UserID)
	if err != nil {
		log.Printf("Sweeper could not load author of %s: %v", exp.ID.Hex(), err)
		return
	}

	subject, body := moderation.RelistedNotification(exp)
	s.notifier.Notify(author.Name, author.Email, subject, body,
		"View your post", s.baseURL+"/experience/"+exp.ID.Hex())
}

// sweepStaleJobs drops job postings whose application deadline passed more
// than the retention window ago. No notification for these.
func (s *Sweeper) sweepStaleJobs(ctx context.Context) error {
	cutoff := s.now().Add(-moderation.StaleJobRetention).Unix()

	deleted, err := s.jobs.DeleteExpired(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("Sweeper removed %d stale job postings", deleted)
	}
	return nil
}
