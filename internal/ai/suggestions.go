package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

type TrendingInput struct {
	TopicPreferences []string `json:"topicPreferences"`
	PostFrequency    string   `json:"postFrequency"`
}

type TrendingResult struct {
	TrendingTopic string   `json:"trendingTopic"`
	TweetIdeas    []string `json:"tweetIdeas"`
}

type FollowUpInput struct {
	TopicPreferences []string `json:"topicPreferences"`
	PostFrequency    string   `json:"postFrequency"`
	TrendingTopic    string   `json:"trendingTopic"`
	InitialTweet     string   `json:"initialTweet"`
}

type FollowUpResult struct {
	FollowUpSuggestions []string `json:"followUpSuggestions"`
}

func trendingFallback() TrendingResult {
	return TrendingResult{
		TrendingTopic: "Could not fetch topic",
		TweetIdeas:    []string{"Failed to generate tweet ideas. Please try again later."},
	}
}

func followUpFallback() FollowUpResult {
	return FollowUpResult{
		FollowUpSuggestions: []string{"Failed to generate follow-up suggestions. Please try again."},
	}
}

// TrendingTopics never fails. Generation errors yield a placeholder result.
func (m *Mapper) TrendingTopics(ctx context.Context, in TrendingInput) TrendingResult {
	var out TrendingResult
	if err := m.generateInto(ctx, "trending_topics", trendingPrompt, trendingSchema, in, &out); err != nil {
		return trendingFallback()
	}
	out.TrendingTopic = strings.TrimSpace(out.TrendingTopic)
	out.TweetIdeas = nonEmpty(out.TweetIdeas)
	if out.TrendingTopic == "" || len(out.TweetIdeas) == 0 {
		m.report("trending_topics", errors.New("incomplete response"))
		return trendingFallback()
	}
	return out
}

// FollowUps never fails. Generation errors yield a placeholder result.
func (m *Mapper) FollowUps(ctx context.Context, in FollowUpInput) FollowUpResult {
	var out FollowUpResult
	if err := m.generateInto(ctx, "follow_ups", followUpPrompt, followUpSchema, in, &out); err != nil {
		return followUpFallback()
	}
	out.FollowUpSuggestions = nonEmpty(out.FollowUpSuggestions)
	if len(out.FollowUpSuggestions) == 0 {
		m.report("follow_ups", errors.New("incomplete response"))
		return followUpFallback()
	}
	return out
}

func (m *Mapper) generateInto(ctx context.Context, flow string, tmpl *template.Template, schema json.RawMessage, in, dest any) error {
	prompt, err := render(tmpl, in)
	if err != nil {
		return m.fail(flow, err)
	}
	raw, err := m.gen.Generate(ctx, Request{Name: flow, Prompt: prompt, Schema: schema})
	if err != nil {
		return m.fail(flow, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return m.fail(flow, fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
