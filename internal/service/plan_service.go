package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/maheshrc27/content-compass/internal/ai"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/schedule"
	"github.com/maheshrc27/content-compass/internal/state"
)

// PlanRequest is the content plan form. Either Days with Times applies the
// same times to every selected weekday, or Schedule lists times per weekday.
type PlanRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Tone        string              `json:"tone"`
	StartDate   time.Time           `json:"startDate"`
	EndDate     time.Time           `json:"endDate"`
	Days        []string            `json:"days"`
	Times       []string            `json:"times"`
	Schedule    map[string][]string `json:"schedule"`
	TimeZone    string              `json:"timeZone"`
}

// PlanPreview is a generated plan that has not been saved yet.
type PlanPreview struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tone        string     `json:"tone"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Posts       []ai.Draft `json:"posts"`
}

type PlanService interface {
	Generate(ctx context.Context, profile models.UserProfile, req PlanRequest) (PlanPreview, error)
	Suggest(ctx context.Context, profile models.UserProfile) (ai.Result, error)
	Trending(ctx context.Context, profile models.UserProfile) ai.TrendingResult
	FollowUps(ctx context.Context, profile models.UserProfile, topic, tweet string) ai.FollowUpResult
}

type planService struct {
	mapper *ai.Mapper
	now    func() time.Time
}

func NewPlanService(mapper *ai.Mapper) PlanService {
	return &planService{mapper: mapper, now: time.Now}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown day %q", state.ErrValidationFailed, s)
	}
	return d, nil
}

func parseSlots(times []string) ([]schedule.Slot, error) {
	slots := make([]schedule.Slot, 0, len(times))
	for _, t := range times {
		slot, err := schedule.ParseSlot(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", state.ErrValidationFailed, err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// scheduleRequest validates the form and turns it into an expander request.
// maxPlanRange bounds plan size; the expander itself is unbounded.
const maxPlanRange = 92 * 24 * time.Hour

func (req PlanRequest) scheduleRequest() (schedule.Request, error) {
	var invalid []string
	if len(strings.TrimSpace(req.Title)) < 3 {
		invalid = append(invalid, "title must be at least 3 characters")
	}
	if len(strings.TrimSpace(req.Description)) < 10 {
		invalid = append(invalid, "description must be at least 10 characters")
	}
	if !slices.Contains(models.AvailableTones, req.Tone) {
		invalid = append(invalid, "unknown tone")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		invalid = append(invalid, "a valid date range is required")
	} else if req.EndDate.Sub(req.StartDate) > maxPlanRange {
		invalid = append(invalid, "date range cannot exceed 92 days")
	}
	if len(invalid) > 0 {
		return schedule.Request{}, fmt.Errorf("%w: %s", state.ErrValidationFailed, strings.Join(invalid, "; "))
	}

	loc := time.UTC
	if req.TimeZone != "" {
		l, err := time.LoadLocation(req.TimeZone)
		if err != nil {
			return schedule.Request{}, fmt.Errorf("%w: unknown time zone %q", state.ErrValidationFailed, req.TimeZone)
		}
		loc = l
	}

	days := map[time.Weekday][]schedule.Slot{}
	if len(req.Schedule) > 0 {
		for name, times := range req.Schedule {
			d, err := parseWeekday(name)
			if err != nil {
				return schedule.Request{}, err
			}
			slots, err := parseSlots(times)
			if err != nil {
				return schedule.Request{}, err
			}
			days[d] = append(days[d], slots...)
		}
	} else {
		slots, err := parseSlots(req.Times)
		if err != nil {
			return schedule.Request{}, err
		}
		selected := make([]time.Weekday, 0, len(req.Days))
		for _, name := range req.Days {
			d, err := parseWeekday(name)
			if err != nil {
				return schedule.Request{}, err
			}
			selected = append(selected, d)
		}
		days = schedule.Weekly(selected, slots...)
	}

	return schedule.Request{From: req.StartDate, To: req.EndDate, Days: days, Location: loc}, nil
}

// Generate expands the schedule first, so an empty schedule never reaches
// the model, then fills the slots with generated drafts.
func (s *planService) Generate(ctx context.Context, profile models.UserProfile, req PlanRequest) (PlanPreview, error) {
	preview := PlanPreview{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Tone:        req.Tone,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Posts:       []ai.Draft{},
	}

	sreq, err := req.scheduleRequest()
	if err != nil {
		slog.Info(err.Error())
		return preview, err
	}
	slots, err := schedule.Expand(sreq, s.now())
	if err != nil {
		slog.Info(err.Error())
		return preview, err
	}

	result, err := s.mapper.PlanForSlots(ctx, ai.ContentPlanInput{
		TopicPreferences: profile.TopicPreferences,
		PostFrequency:    fmt.Sprintf("%d posts over the selected period", len(slots)),
		Title:            preview.Title,
		Description:      preview.Description,
		Tone:             preview.Tone,
	}, slots)
	preview.Posts = result.Posts
	return preview, err
}

// Suggest runs the single-shot flow that dates drafts by the model's own
// day offsets from today.
func (s *planService) Suggest(ctx context.Context, profile models.UserProfile) (ai.Result, error) {
	return s.mapper.PlanFromOffsets(ctx, ai.ContentPlanInput{
		TopicPreferences: profile.TopicPreferences,
		PostFrequency:    profile.PostFrequency,
	})
}

func (s *planService) Trending(ctx context.Context, profile models.UserProfile) ai.TrendingResult {
	return s.mapper.TrendingTopics(ctx, ai.TrendingInput{
		TopicPreferences: profile.TopicPreferences,
		PostFrequency:    profile.PostFrequency,
	})
}

func (s *planService) FollowUps(ctx context.Context, profile models.UserProfile, topic, tweet string) ai.FollowUpResult {
	return s.mapper.FollowUps(ctx, ai.FollowUpInput{
		TopicPreferences: profile.TopicPreferences,
		PostFrequency:    profile.PostFrequency,
		TrendingTopic:    topic,
		InitialTweet:     tweet,
	})
}
