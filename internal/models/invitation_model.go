package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

type Invitation struct {
	ID           string           `db:"id" json:"id"`
	TeamID       string           `db:"team_id" json:"teamId"`
	InviteeEmail string           `db:"invitee_email" json:"inviteeEmail"`
	InviterID    string           `db:"inviter_id" json:"inviterId"`
	Status       InvitationStatus `db:"status" json:"status"`
	CreatedAt    time.Time        `db:"created_at" json:"createdAt"`
}

func (i *Invitation) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(i.CreatedAt) > ttl
}
