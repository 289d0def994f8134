package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/content-compass/internal/models"
)

type ContentPlanRepository interface {
	GetByID(ctx context.Context, id string) (*models.ContentPlan, error)
	Create(ctx context.Context, tx *sql.Tx, plan *models.ContentPlan) (string, error)
	ListByTeamID(ctx context.Context, teamID string) ([]*models.ContentPlan, error)
}

type contentPlanRepository struct {
	db *sql.DB
}

func NewContentPlanRepository(db *sql.DB) ContentPlanRepository {
	return &contentPlanRepository{db: db}
}

const planColumns = `id, team_id, title, description, tone, post_ids, start_date, end_date, created_at`

func scanPlan(s scanner) (*models.ContentPlan, error) {
	var plan models.ContentPlan
	var postIDs pq.StringArray
	err := s.Scan(&plan.ID, &plan.TeamID, &plan.Title, &plan.Description, &plan.Tone, &postIDs,
		&plan.StartDate, &plan.EndDate, &plan.CreatedAt)
	if err != nil {
		return nil, err
	}
	plan.PostIDs = append([]string{}, postIDs...)
	return &plan, nil
}

func (r *contentPlanRepository) Create(ctx context.Context, tx *sql.Tx, plan *models.ContentPlan) (string, error) {
	query := `
		INSERT INTO content_plans (id, team_id, title, description, tone, post_ids, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	id, err := NewID()
	if err != nil {
		return "", err
	}
	err = conn(r.db, tx).QueryRowContext(ctx, query, id, plan.TeamID, plan.Title, plan.Description, plan.Tone,
		pq.Array(plan.PostIDs), plan.StartDate, plan.EndDate).Scan(&plan.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	plan.ID = id
	return id, nil
}

func (r *contentPlanRepository) GetByID(ctx context.Context, id string) (*models.ContentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM content_plans WHERE id = $1`
	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return plan, nil
}

func (r *contentPlanRepository) ListByTeamID(ctx context.Context, teamID string) ([]*models.ContentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM content_plans WHERE team_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	plans := []*models.ContentPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
