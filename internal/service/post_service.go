package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/content-compass/internal/metrics"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/repository"
)

// OverdueGrace is how long a scheduled post without auto-publish may sit
// past its date before it needs verification.
const OverdueGrace = time.Hour

// PostService runs the background status transitions of posts.
type PostService interface {
	PublishDue(ctx context.Context, postID string) (bool, error)
	MarkOverdue(ctx context.Context) (int, error)
}

type postService struct {
	pr   repository.PostRepository
	dash DashboardService
	now  func() time.Time
}

func NewPostService(pr repository.PostRepository, dash DashboardService) PostService {
	return &postService{
		pr:   pr,
		dash: dash,
		now:  time.Now,
	}
}

// PublishDue publishes a post that is still scheduled for auto-publish.
// Posts edited or deleted since the task was queued are left alone.
func (s *postService) PublishDue(ctx context.Context, postID string) (bool, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil || post.Status != models.PostStatusScheduled || !post.AutoPublish {
		slog.Info("skipping auto-publish", "post_id", postID)
		return false, nil
	}
	if post.Date.After(s.now()) {
		slog.Info("post rescheduled, skipping auto-publish", "post_id", postID, "date", post.Date)
		return false, nil
	}

	ok, err := s.pr.TransitionStatus(ctx, postID, models.PostStatusScheduled, models.PostStatusPublished)
	if err != nil || !ok {
		return false, err
	}
	metrics.PostsPublished.Inc()
	s.dash.Invalidate(ctx, post.TeamID)
	return true, nil
}

// MarkOverdue flags scheduled posts past their date by more than OverdueGrace.
func (s *postService) MarkOverdue(ctx context.Context) (int, error) {
	posts, err := s.pr.ListOverdue(ctx, s.now().Add(-OverdueGrace))
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, p := range posts {
		ok, err := s.pr.TransitionStatus(ctx, p.ID, models.PostStatusScheduled, models.PostStatusNeedsVerification)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if ok {
			marked++
			s.dash.Invalidate(ctx, p.TeamID)
		}
	}
	return marked, nil
}
