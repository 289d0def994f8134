package models

import (
	"slices"
	"time"
)

type PostStatus string

const (
	PostStatusDraft             PostStatus = "Draft"
	PostStatusScheduled         PostStatus = "Scheduled"
	PostStatusPublished         PostStatus = "Published"
	PostStatusNeedsVerification PostStatus = "Needs Verification"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished, PostStatusNeedsVerification:
		return true
	}
	return false
}

// Analytics is written only by the publishing side, never by user edits.
type Analytics struct {
	Likes       int64 `db:"likes" json:"likes"`
	Retweets    int64 `db:"retweets" json:"retweets"`
	Impressions int64 `db:"impressions" json:"impressions"`
}

type Post struct {
	ID                    string     `db:"id" json:"id"`
	TeamID                string     `db:"team_id" json:"teamId"`
	Date                  time.Time  `db:"date" json:"date"`
	Title                 string     `db:"title" json:"title"`
	Content               string     `db:"content" json:"content"`
	Status                PostStatus `db:"status" json:"status"`
	AutoPublish           bool       `db:"auto_publish" json:"autoPublish"`
	SocialMediaAccountIDs []string   `db:"social_media_account_ids" json:"socialMediaAccountIds"`
	Analytics             Analytics  `db:"analytics" json:"analytics"`
	CreatedAt             time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updatedAt"`
}

// Clone returns a copy that shares no slices with p.
func (p Post) Clone() Post {
	p.SocialMediaAccountIDs = slices.Clone(p.SocialMediaAccountIDs)
	return p
}

// PostPatch carries the user-editable fields of a post. Nil fields are left unchanged.
type PostPatch struct {
	Date                  *time.Time  `json:"date"`
	Title                 *string     `json:"title"`
	Content               *string     `json:"content"`
	Status                *PostStatus `json:"status"`
	AutoPublish           *bool       `json:"autoPublish"`
	SocialMediaAccountIDs *[]string   `json:"socialMediaAccountIds"`
}

func (p Post) Apply(patch PostPatch) Post {
	next := p.Clone()
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Content != nil {
		next.Content = *patch.Content
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.AutoPublish != nil {
		next.AutoPublish = *patch.AutoPublish
	}
	if patch.SocialMediaAccountIDs != nil {
		next.SocialMediaAccountIDs = slices.Clone(*patch.SocialMediaAccountIDs)
	}
	return next
}

// CopyOf builds the unsaved duplicate of p used by post copying.
func CopyOf(p Post) Post {
	return Post{
		TeamID:                p.TeamID,
		Date:                  p.Date,
		Title:                 p.Title + " (Copy)",
		Content:               p.Content,
		Status:                PostStatusDraft,
		AutoPublish:           false,
		SocialMediaAccountIDs: slices.Clone(p.SocialMediaAccountIDs),
	}
}
