package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/maheshrc27/content-compass/internal/cache"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/repository"
)

const (
	dashboardTTL     = 60 * time.Second
	dashboardDays    = 30
	dashboardTopPost = 5
)

type Totals struct {
	Posts       int   `json:"posts"`
	Impressions int64 `json:"impressions"`
	Likes       int64 `json:"likes"`
	Retweets    int64 `json:"retweets"`
}

type DayEngagement struct {
	Date        string `json:"date"`
	Likes       int64  `json:"likes"`
	Retweets    int64  `json:"retweets"`
	Impressions int64  `json:"impressions"`
}

type Dashboard struct {
	Totals     Totals          `json:"totals"`
	TopPosts   []models.Post   `json:"topPosts"`
	Engagement []DayEngagement `json:"engagement"`
}

// Summarize aggregates the published posts of a team. The engagement series
// covers the last 30 days up to now, oldest first.
func Summarize(posts []*models.Post, now time.Time) Dashboard {
	d := Dashboard{TopPosts: []models.Post{}, Engagement: make([]DayEngagement, dashboardDays)}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -(dashboardDays - 1))
	index := make(map[string]int, dashboardDays)
	for i := range d.Engagement {
		day := first.AddDate(0, 0, i).Format(time.DateOnly)
		d.Engagement[i].Date = day
		index[day] = i
	}

	for _, p := range posts {
		if p.Status != models.PostStatusPublished {
			continue
		}
		d.Totals.Posts++
		d.Totals.Impressions += p.Analytics.Impressions
		d.Totals.Likes += p.Analytics.Likes
		d.Totals.Retweets += p.Analytics.Retweets
		d.TopPosts = append(d.TopPosts, p.Clone())

		if i, ok := index[p.Date.In(now.Location()).Format(time.DateOnly)]; ok {
			d.Engagement[i].Likes += p.Analytics.Likes
			d.Engagement[i].Retweets += p.Analytics.Retweets
			d.Engagement[i].Impressions += p.Analytics.Impressions
		}
	}

	slices.SortStableFunc(d.TopPosts, func(a, b models.Post) int {
		switch {
		case a.Analytics.Impressions > b.Analytics.Impressions:
			return -1
		case a.Analytics.Impressions < b.Analytics.Impressions:
			return 1
		}
		return 0
	})
	if len(d.TopPosts) > dashboardTopPost {
		d.TopPosts = d.TopPosts[:dashboardTopPost]
	}
	return d
}

type DashboardService interface {
	Get(ctx context.Context, teamID string) (Dashboard, error)
	Invalidate(ctx context.Context, teamID string)
}

type dashboardService struct {
	pr    repository.PostRepository
	cache *cache.Cache
	now   func() time.Time
}

func NewDashboardService(pr repository.PostRepository, c *cache.Cache) DashboardService {
	return &dashboardService{pr: pr, cache: c, now: time.Now}
}

func dashboardKey(teamID string) string {
	return "dashboard:" + teamID
}

func (s *dashboardService) Get(ctx context.Context, teamID string) (Dashboard, error) {
	var d Dashboard
	err := s.cache.CacheAside(ctx, dashboardKey(teamID), &d, dashboardTTL, func() error {
		posts, err := s.pr.ListByTeamID(ctx, teamID)
		if err != nil {
			return err
		}
		d = Summarize(posts, s.now())
		return nil
	})
	return d, err
}

func (s *dashboardService) Invalidate(ctx context.Context, teamID string) {
	if err := s.cache.Delete(ctx, dashboardKey(teamID)); err != nil {
		slog.Warn("failed to invalidate dashboard cache", "team_id", teamID, "error", err)
	}
}
