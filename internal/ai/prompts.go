package ai

import (
	"encoding/json"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{"join": strings.Join}

var contentPlanPrompt = template.Must(template.New("contentPlan").Funcs(funcs).Parse(
	`You are an AI assistant designed to help users create a content plan based on a central theme.

The user wants to create a series of posts with the target title: "{{.Title}}".
Here is the description of the content they want: "{{.Description}}".
The desired tone for the posts is: "{{.Tone}}".

The user has the following topic preferences: {{join .TopicPreferences ", "}}
The user wants to post {{.PostFrequency}}.

Generate a list of tweet ideas based on the provided title, description, and tone. The posts should feel like a cohesive series but each should be unique and stand on its own.

For each post, provide:
- A title (for internal tracking, it should be a variation of the main title e.g. "{{.Title}} - Part 1")
- The tweet content.
- A dayOffset from today (a unique number for each post, starting from 1).
- A status for the post (should be 'Draft').
- An autoPublish recommendation (always false).

The tweet ideas should sound natural, be engaging, and be relevant to the user's chosen topics and the provided context.
`))

var trendingPrompt = template.Must(template.New("trending").Funcs(funcs).Parse(
	`You are a social media expert. You will identify a trending topic based on the user's preferences, and create tweet ideas related to the topic.

The user is interested in the following topics: {{join .TopicPreferences ", "}}
The user wants to post {{.PostFrequency}}.

Identify one trending topic relevant to the user's interests.
Generate 3 tweet ideas related to the trending topic.
`))

var followUpPrompt = template.Must(template.New("followUp").Funcs(funcs).Parse(
	`You are an AI assistant designed to help users generate engaging tweet threads based on trending topics.

The user has the following topic preferences: {{join .TopicPreferences ", "}}
The user wants to post {{.PostFrequency}}.

The current trending topic is: {{.TrendingTopic}}
The initial tweet is: {{.InitialTweet}}

Generate a list of follow-up tweet ideas that would create a deeper conversation around the initial tweet and trending topic, while aligning with the user's topic preferences. The tweet ideas should sound natural and engaging.
`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

var contentPlanSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "posts": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "content": {"type": "string"},
          "dayOffset": {"type": "integer"},
          "autoPublish": {"type": "boolean"},
          "status": {"type": "string", "enum": ["Draft"]}
        },
        "required": ["title", "content", "dayOffset", "autoPublish", "status"],
        "additionalProperties": false
      }
    }
  },
  "required": ["posts"],
  "additionalProperties": false
}`)

var trendingSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "trendingTopic": {"type": "string"},
    "tweetIdeas": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["trendingTopic", "tweetIdeas"],
  "additionalProperties": false
}`)

var followUpSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "followUpSuggestions": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["followUpSuggestions"],
  "additionalProperties": false
}`)
