package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/content-compass/internal/models"
)

type InvitationRepository interface {
	GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.Invitation, error)
	Create(ctx context.Context, invitation *models.Invitation) (string, error)
	ListPendingByTeamID(ctx context.Context, teamID string) ([]*models.Invitation, error)
	MarkAccepted(ctx context.Context, tx *sql.Tx, id string) (bool, error)
	RemovePending(ctx context.Context, id string) (bool, error)
	RemoveExpired(ctx context.Context, before time.Time) (int64, error)
}

type invitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

const invitationColumns = `id, team_id, invitee_email, inviter_id, status, created_at`

func scanInvitation(s scanner) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.Scan(&inv.ID, &inv.TeamID, &inv.InviteeEmail, &inv.InviterID, &inv.Status, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) Create(ctx context.Context, invitation *models.Invitation) (string, error) {
	query := `
		INSERT INTO invitations (id, team_id, invitee_email, inviter_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	id, err := NewID()
	if err != nil {
		return "", err
	}
	invitation.Status = models.InvitationPending
	err = r.db.QueryRowContext(ctx, query, id, invitation.TeamID, invitation.InviteeEmail, invitation.InviterID,
		invitation.Status).Scan(&invitation.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	invitation.ID = id
	return id, nil
}

func (r *invitationRepository) GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	inv, err := scanInvitation(conn(r.db, tx).QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListPendingByTeamID(ctx context.Context, teamID string) ([]*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE team_id = $1 AND status = $2 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, teamID, models.InvitationPending)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	invitations := []*models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// MarkAccepted flips a pending invitation to accepted. It reports false when
// the invitation was not pending, so only one caller can ever win.
func (r *invitationRepository) MarkAccepted(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	query := `UPDATE invitations SET status = $1 WHERE id = $2 AND status = $3`
	res, err := conn(r.db, tx).ExecContext(ctx, query, models.InvitationAccepted, id, models.InvitationPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *invitationRepository) RemovePending(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM invitations WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, models.InvitationPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RemoveExpired deletes pending invitations created before the cutoff.
func (r *invitationRepository) RemoveExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM invitations WHERE status = $1 AND created_at < $2`
	res, err := r.db.ExecContext(ctx, query, models.InvitationPending, before)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return res.RowsAffected()
}
