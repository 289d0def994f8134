package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/content-compass/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *sql.Tx, uid string) (*models.UserProfile, bool, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*models.UserProfile, bool, error)
	Create(ctx context.Context, tx *sql.Tx, user *models.UserProfile) error
	Save(ctx context.Context, tx *sql.Tx, user *models.UserProfile) error
	UpdateProfile(ctx context.Context, user *models.UserProfile) error
	UpdateActiveTeam(ctx context.Context, tx *sql.Tx, uid, teamID string) error
	AddTeam(ctx context.Context, tx *sql.Tx, uid, teamID string, activate bool) error
	SetStripeCustomerID(ctx context.Context, uid, customerID string) error
	SetStripeSubscriptionID(ctx context.Context, uid, subscriptionID string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `uid, email, name, avatar_url, topic_preferences, post_frequency, signature, team_ids, active_team_id,
	is_onboarding_completed, COALESCE(stripe_customer_id, ''), COALESCE(stripe_subscription_id, ''), created_at, updated_at`

func scanUser(s scanner) (*models.UserProfile, error) {
	var user models.UserProfile
	var topics, teams pq.StringArray
	err := s.Scan(&user.UID, &user.Email, &user.Name, &user.AvatarURL, &topics, &user.PostFrequency, &user.Signature,
		&teams, &user.ActiveTeamID, &user.IsOnboardingCompleted, &user.StripeCustomerID, &user.StripeSubscriptionID,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.TopicPreferences = append([]string{}, topics...)
	user.TeamIDs = append([]string{}, teams...)
	return &user, nil
}

func (r *userRepository) get(ctx context.Context, q querier, query string, arg any) (*models.UserProfile, bool, error) {
	user, err := scanUser(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return user, true, nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *sql.Tx, uid string) (*models.UserProfile, bool, error) {
	return r.get(ctx, conn(r.db, tx), `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)
}

func (r *userRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.UserProfile, bool, error) {
	return r.get(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE stripe_customer_id = $1`, customerID)
}

// Create inserts a provisional profile. An existing profile is left as is.
func (r *userRepository) Create(ctx context.Context, tx *sql.Tx, user *models.UserProfile) error {
	query := `
		INSERT INTO users (uid, email, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO NOTHING
	`
	_, err := conn(r.db, tx).ExecContext(ctx, query, user.UID, user.Email, user.Name, user.AvatarURL)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Save writes every profile field except billing identifiers.
func (r *userRepository) Save(ctx context.Context, tx *sql.Tx, user *models.UserProfile) error {
	query := `
		INSERT INTO users (uid, email, name, avatar_url, topic_preferences, post_frequency, signature, team_ids,
			active_team_id, is_onboarding_completed, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			topic_preferences = EXCLUDED.topic_preferences,
			post_frequency = EXCLUDED.post_frequency,
			signature = EXCLUDED.signature,
			team_ids = EXCLUDED.team_ids,
			active_team_id = EXCLUDED.active_team_id,
			is_onboarding_completed = EXCLUDED.is_onboarding_completed,
			updated_at = EXCLUDED.updated_at
	`
	_, err := conn(r.db, tx).ExecContext(ctx, query, user.UID, user.Email, user.Name, user.AvatarURL,
		pq.Array(user.TopicPreferences), user.PostFrequency, user.Signature, pq.Array(user.TeamIDs),
		user.ActiveTeamID, user.IsOnboardingCompleted, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.UserProfile) error {
	query := `
		UPDATE users
		SET name = $1,
			avatar_url = $2,
			topic_preferences = $3,
			post_frequency = $4,
			signature = $5,
			updated_at = $6
		WHERE uid = $7
	`
	res, err := r.db.ExecContext(ctx, query, user.Name, user.AvatarURL, pq.Array(user.TopicPreferences),
		user.PostFrequency, user.Signature, time.Now(), user.UID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOne(res)
}

func (r *userRepository) UpdateActiveTeam(ctx context.Context, tx *sql.Tx, uid, teamID string) error {
	query := `UPDATE users SET active_team_id = $1, updated_at = $2 WHERE uid = $3`
	res, err := conn(r.db, tx).ExecContext(ctx, query, teamID, time.Now(), uid)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOne(res)
}

// AddTeam appends teamID to the user's teams if missing and optionally makes it active.
func (r *userRepository) AddTeam(ctx context.Context, tx *sql.Tx, uid, teamID string, activate bool) error {
	query := `
		UPDATE users
		SET team_ids = CASE WHEN $1 = ANY(team_ids) THEN team_ids ELSE array_append(team_ids, $1) END,
			active_team_id = CASE WHEN $2 OR active_team_id = '' THEN $1 ELSE active_team_id END,
			updated_at = $3
		WHERE uid = $4
	`
	res, err := conn(r.db, tx).ExecContext(ctx, query, teamID, activate, time.Now(), uid)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOne(res)
}

func (r *userRepository) SetStripeCustomerID(ctx context.Context, uid, customerID string) error {
	query := `UPDATE users SET stripe_customer_id = $1, updated_at = $2 WHERE uid = $3`
	_, err := r.db.ExecContext(ctx, query, customerID, time.Now(), uid)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// SetStripeSubscriptionID stores the subscription id. An empty id clears it.
func (r *userRepository) SetStripeSubscriptionID(ctx context.Context, uid, subscriptionID string) error {
	query := `UPDATE users SET stripe_subscription_id = NULLIF($1, ''), updated_at = $2 WHERE uid = $3`
	_, err := r.db.ExecContext(ctx, query, subscriptionID, time.Now(), uid)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
