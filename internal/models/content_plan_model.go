package models

import "time"

type ContentPlan struct {
	ID          string    `db:"id" json:"id"`
	TeamID      string    `db:"team_id" json:"teamId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Tone        string    `db:"tone" json:"tone"`
	PostIDs     []string  `db:"post_ids" json:"postIds"`
	StartDate   time.Time `db:"start_date" json:"startDate"`
	EndDate     time.Time `db:"end_date" json:"endDate"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
