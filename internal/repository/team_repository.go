package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/content-compass/internal/models"
)

type TeamRepository interface {
	GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.Team, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Team, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Team, error)
	Create(ctx context.Context, tx *sql.Tx, team *models.Team) (string, error)
	SetMember(ctx context.Context, tx *sql.Tx, teamID, uid string, member models.TeamMember) error
	UpdateSocialMediaAccounts(ctx context.Context, teamID string, accounts []models.SocialMediaAccount) error
}

type teamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) TeamRepository {
	return &teamRepository{db: db}
}

const teamColumns = `id, name, description, members, social_media_accounts, created_at`

func scanTeam(s scanner) (*models.Team, error) {
	var team models.Team
	var members, accounts []byte
	if err := s.Scan(&team.ID, &team.Name, &team.Description, &members, &accounts, &team.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(members, &team.Members); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(accounts, &team.SocialMediaAccounts); err != nil {
		return nil, err
	}
	if team.Members == nil {
		team.Members = map[string]models.TeamMember{}
	}
	if team.SocialMediaAccounts == nil {
		team.SocialMediaAccounts = []models.SocialMediaAccount{}
	}
	return &team, nil
}

func (r *teamRepository) Create(ctx context.Context, tx *sql.Tx, team *models.Team) (string, error) {
	query := `
		INSERT INTO teams (id, name, description, members, social_media_accounts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	id, err := NewID()
	if err != nil {
		return "", err
	}
	if team.Members == nil {
		team.Members = map[string]models.TeamMember{}
	}
	if team.SocialMediaAccounts == nil {
		team.SocialMediaAccounts = []models.SocialMediaAccount{}
	}
	members, err := json.Marshal(team.Members)
	if err != nil {
		return "", err
	}
	accounts, err := json.Marshal(team.SocialMediaAccounts)
	if err != nil {
		return "", err
	}

	err = conn(r.db, tx).QueryRowContext(ctx, query, id, team.Name, team.Description, members, accounts).Scan(&team.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	team.ID = id
	return id, nil
}

func (r *teamRepository) get(ctx context.Context, tx *sql.Tx, query, id string) (*models.Team, error) {
	team, err := scanTeam(conn(r.db, tx).QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return team, nil
}

func (r *teamRepository) GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.Team, error) {
	return r.get(ctx, tx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
}

// GetByIDForUpdate locks the team row for the rest of tx.
func (r *teamRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Team, error) {
	return r.get(ctx, tx, `SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR UPDATE`, id)
}

func (r *teamRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1) ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	teams := []*models.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// SetMember adds or replaces a single entry of the members map.
func (r *teamRepository) SetMember(ctx context.Context, tx *sql.Tx, teamID, uid string, member models.TeamMember) error {
	query := `UPDATE teams SET members = jsonb_set(members, ARRAY[$1::text], $2::jsonb, true) WHERE id = $3`
	value, err := json.Marshal(member)
	if err != nil {
		return err
	}
	res, err := conn(r.db, tx).ExecContext(ctx, query, uid, value, teamID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOne(res)
}

func (r *teamRepository) UpdateSocialMediaAccounts(ctx context.Context, teamID string, accounts []models.SocialMediaAccount) error {
	query := `UPDATE teams SET social_media_accounts = $1 WHERE id = $2`
	if accounts == nil {
		accounts = []models.SocialMediaAccount{}
	}
	value, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, value, teamID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOne(res)
}
