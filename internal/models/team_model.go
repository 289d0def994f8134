package models

import "time"

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusDisabled MemberStatus = "disabled"
)

type Permissions struct {
	CreatePost        bool `json:"createPost"`
	EditPost          bool `json:"editPost"`
	CreateContentPlan bool `json:"createContentPlan"`
	SendInvites       bool `json:"sendInvites"`
	IsAdmin           bool `json:"isAdmin"`
}

// AdminPermissions are granted to the creator of a team.
func AdminPermissions() Permissions {
	return Permissions{CreatePost: true, EditPost: true, CreateContentPlan: true, SendInvites: true, IsAdmin: true}
}

// MemberPermissions are granted to users joining through an invitation.
func MemberPermissions() Permissions {
	return Permissions{CreatePost: true, EditPost: true, CreateContentPlan: true}
}

type TeamMember struct {
	Status      MemberStatus `json:"status"`
	Permissions Permissions  `json:"permissions"`
}

type Team struct {
	ID                  string                `db:"id" json:"id"`
	Name                string                `db:"name" json:"name"`
	Description         string                `db:"description" json:"description"`
	CreatedAt           time.Time             `db:"created_at" json:"createdAt"`
	Members             map[string]TeamMember `db:"members" json:"members"`
	SocialMediaAccounts []SocialMediaAccount  `db:"social_media_accounts" json:"socialMediaAccounts"`
}

// Member returns the membership of uid if it is active.
func (t *Team) Member(uid string) (TeamMember, bool) {
	m, ok := t.Members[uid]
	if !ok || m.Status != MemberStatusActive {
		return TeamMember{}, false
	}
	return m, true
}

func (t *Team) IsMember(uid string) bool {
	_, ok := t.Member(uid)
	return ok
}

func (t Team) Clone() Team {
	members := make(map[string]TeamMember, len(t.Members))
	for k, v := range t.Members {
		members[k] = v
	}
	t.Members = members
	t.SocialMediaAccounts = append([]SocialMediaAccount(nil), t.SocialMediaAccounts...)
	return t
}
