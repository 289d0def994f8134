package models

import (
	"slices"
	"time"
)

type UserProfile struct {
	UID                   string    `db:"uid" json:"uid"`
	Email                 string    `db:"email" json:"email"`
	Name                  string    `db:"name" json:"name"`
	AvatarURL             string    `db:"avatar_url" json:"avatarUrl"`
	TopicPreferences      []string  `db:"topic_preferences" json:"topicPreferences"`
	PostFrequency         string    `db:"post_frequency" json:"postFrequency"`
	Signature             string    `db:"signature" json:"signature"`
	TeamIDs               []string  `db:"team_ids" json:"teams"`
	ActiveTeamID          string    `db:"active_team_id" json:"activeTeamId"`
	IsOnboardingCompleted bool      `db:"is_onboarding_completed" json:"isOnboardingCompleted"`
	StripeCustomerID      string    `db:"stripe_customer_id" json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID  string    `db:"stripe_subscription_id" json:"stripeSubscriptionId,omitempty"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

func (u UserProfile) Clone() UserProfile {
	u.TopicPreferences = slices.Clone(u.TopicPreferences)
	u.TeamIDs = slices.Clone(u.TeamIDs)
	return u
}

func (u *UserProfile) HasTeam(teamID string) bool {
	return slices.Contains(u.TeamIDs, teamID)
}
