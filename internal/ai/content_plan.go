package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/content-compass/internal/metrics"
	"github.com/maheshrc27/content-compass/internal/models"
)

type ContentPlanInput struct {
	TopicPreferences []string `json:"topicPreferences"`
	PostFrequency    string   `json:"postFrequency"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Tone             string   `json:"tone"`
}

// Candidate is one post as returned by the model.
type Candidate struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	DayOffset   int    `json:"dayOffset"`
	AutoPublish bool   `json:"autoPublish"`
	Status      string `json:"status"`
}

// Draft is an unsaved post. It carries no identifier and no analytics.
type Draft struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Date        time.Time         `json:"date"`
	Status      models.PostStatus `json:"status"`
	AutoPublish bool              `json:"autoPublish"`
}

type Result struct {
	Posts []Draft `json:"posts"`
}

// Mapper builds prompts, calls the generator and turns the validated output
// into drafts.
type Mapper struct {
	gen Generator
	now func() time.Time
}

func NewMapper(gen Generator) *Mapper {
	return &Mapper{gen: gen, now: time.Now}
}

// PlanFromOffsets dates each candidate at now plus its day offset.
func (m *Mapper) PlanFromOffsets(ctx context.Context, in ContentPlanInput) (Result, error) {
	cands, err := m.candidates(ctx, in)
	if err != nil {
		return Result{Posts: []Draft{}}, err
	}
	now := m.now()
	posts := make([]Draft, 0, len(cands))
	for _, c := range cands {
		posts = append(posts, draft(c, now.AddDate(0, 0, c.DayOffset)))
	}
	return Result{Posts: posts}, nil
}

// PlanForSlots ignores the model's offsets and pairs candidates with slots in
// order. Candidates beyond the last slot are dropped.
func (m *Mapper) PlanForSlots(ctx context.Context, in ContentPlanInput, slots []time.Time) (Result, error) {
	cands, err := m.candidates(ctx, in)
	if err != nil {
		return Result{Posts: []Draft{}}, err
	}
	n := min(len(cands), len(slots))
	posts := make([]Draft, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, draft(cands[i], slots[i]))
	}
	return Result{Posts: posts}, nil
}

func draft(c Candidate, date time.Time) Draft {
	return Draft{
		Title:       c.Title,
		Content:     c.Content,
		Date:        date,
		Status:      models.PostStatusDraft,
		AutoPublish: false,
	}
}

func (m *Mapper) candidates(ctx context.Context, in ContentPlanInput) ([]Candidate, error) {
	prompt, err := render(contentPlanPrompt, in)
	if err != nil {
		return nil, m.fail("content_plan", err)
	}

	raw, err := m.gen.Generate(ctx, Request{Name: "content_plan", Prompt: prompt, Schema: contentPlanSchema})
	if err != nil {
		return nil, m.fail("content_plan", err)
	}

	var out struct {
		Posts []Candidate `json:"posts"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, m.fail("content_plan", fmt.Errorf("malformed response: %w", err))
	}

	valid := make([]Candidate, 0, len(out.Posts))
	for i, c := range out.Posts {
		c, ok := validCandidate(c)
		if !ok {
			slog.Info("dropping invalid generated post", "index", i)
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil, m.fail("content_plan", fmt.Errorf("no usable posts in response (%d returned)", len(out.Posts)))
	}
	return valid, nil
}

func validCandidate(c Candidate) (Candidate, bool) {
	c.Title = strings.TrimSpace(c.Title)
	c.Content = strings.TrimSpace(c.Content)
	if c.Title == "" || c.Content == "" || c.DayOffset < 1 {
		return c, false
	}
	if c.Status == "" {
		c.Status = string(models.PostStatusDraft)
	}
	if c.Status != string(models.PostStatusDraft) {
		return c, false
	}
	c.AutoPublish = false
	return c, true
}

// report records a failed generation without producing an error, for flows
// that fall back to a placeholder.
func (m *Mapper) report(flow string, err error) {
	metrics.GenerationFailures.WithLabelValues(flow).Inc()
	slog.Warn("content generation failed", "flow", flow, "error", err)
}

func (m *Mapper) fail(flow string, err error) error {
	m.report(flow, err)
	return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}
