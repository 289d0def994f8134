package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/repository"
	"github.com/maheshrc27/content-compass/internal/state"
)

type InvitationService interface {
	Invite(ctx context.Context, uid, teamID, email string) (*models.Invitation, string, error)
	ListPending(ctx context.Context, uid, teamID string) ([]*models.Invitation, error)
	Resend(ctx context.Context, uid, invitationID string) (string, error)
	Revoke(ctx context.Context, uid, invitationID string) error
	Accept(ctx context.Context, uid, invitationID string) (*models.Team, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type invitationService struct {
	db     *sql.DB
	ir     repository.InvitationRepository
	tr     repository.TeamRepository
	ur     repository.UserRepository
	mailer Mailer
	origin string
	ttl    time.Duration
	now    func() time.Time
}

func NewInvitationService(
	db *sql.DB,
	ir repository.InvitationRepository,
	tr repository.TeamRepository,
	ur repository.UserRepository,
	mailer Mailer,
	origin string,
	ttl time.Duration) InvitationService {
	return &invitationService{
		db:     db,
		ir:     ir,
		tr:     tr,
		ur:     ur,
		mailer: mailer,
		origin: strings.TrimRight(origin, "/"),
		ttl:    ttl,
		now:    time.Now,
	}
}

// inviter loads the team and checks that uid may send invites for it.
func (s *invitationService) inviter(ctx context.Context, uid, teamID string) (*models.Team, error) {
	team, err := s.tr.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, state.ErrNotFound
	}
	member, ok := team.Member(uid)
	if !ok {
		return nil, state.ErrNotMember
	}
	if !member.Permissions.SendInvites && !member.Permissions.IsAdmin {
		return nil, state.ErrPermissionDenied
	}
	return team, nil
}

func (s *invitationService) link(id string) string {
	return fmt.Sprintf("%s/accept-invite?token=%s", s.origin, id)
}

func (s *invitationService) send(ctx context.Context, uid string, team *models.Team, inv *models.Invitation) (string, error) {
	inviterName := "A teammate"
	if user, isExist, err := s.ur.GetByID(ctx, nil, uid); err == nil && isExist && user.Name != "" {
		inviterName = user.Name
	}
	return s.mailer.SendInvite(ctx, InviteEmail{
		To:      inv.InviteeEmail,
		Inviter: inviterName,
		Team:    team.Name,
		Link:    s.link(inv.ID),
	})
}

func (s *invitationService) Invite(ctx context.Context, uid, teamID, email string) (*models.Invitation, string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		err = fmt.Errorf("%w: invalid email address", state.ErrValidationFailed)
		slog.Info(err.Error())
		return nil, "", err
	}

	team, err := s.inviter(ctx, uid, teamID)
	if err != nil {
		return nil, "", err
	}

	inv := &models.Invitation{
		TeamID:       team.ID,
		InviteeEmail: strings.ToLower(addr.Address),
		InviterID:    uid,
		Status:       models.InvitationPending,
	}
	if _, err := s.ir.Create(ctx, inv); err != nil {
		return nil, "", fmt.Errorf("%w: %w", state.ErrPersistenceFailed, err)
	}

	preview, err := s.send(ctx, uid, team, inv)
	if err != nil {
		return inv, "", fmt.Errorf("error sending invitation email: %w", err)
	}
	return inv, preview, nil
}

func (s *invitationService) ListPending(ctx context.Context, uid, teamID string) ([]*models.Invitation, error) {
	team, err := s.tr.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, state.ErrNotFound
	}
	if !team.IsMember(uid) {
		return nil, state.ErrNotMember
	}
	return s.ir.ListPendingByTeamID(ctx, teamID)
}

func (s *invitationService) pending(ctx context.Context, uid, id string) (*models.Invitation, *models.Team, error) {
	inv, err := s.ir.GetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil || inv.Status != models.InvitationPending {
		return nil, nil, ErrInvitationInvalid
	}
	team, err := s.inviter(ctx, uid, inv.TeamID)
	if err != nil {
		return nil, nil, err
	}
	return inv, team, nil
}

func (s *invitationService) Resend(ctx context.Context, uid, id string) (string, error) {
	inv, team, err := s.pending(ctx, uid, id)
	if err != nil {
		return "", err
	}
	return s.send(ctx, uid, team, inv)
}

func (s *invitationService) Revoke(ctx context.Context, uid, id string) error {
	if _, _, err := s.pending(ctx, uid, id); err != nil {
		return err
	}
	removed, err := s.ir.RemovePending(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrInvitationInvalid
	}
	return nil
}

// Accept flips the invitation to accepted and joins uid to the team in one
// transaction. Only one of several racing accepts can win the status flip.
func (s *invitationService) Accept(ctx context.Context, uid, id string) (*models.Team, error) {
	var joined *models.Team
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		inv, err := s.ir.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if inv == nil || inv.Status != models.InvitationPending || inv.Expired(s.ttl, s.now()) {
			return ErrInvitationInvalid
		}

		accepted, err := s.ir.MarkAccepted(ctx, tx, id)
		if err != nil {
			return err
		}
		if !accepted {
			return ErrInvitationInvalid
		}

		team, err := s.tr.GetByIDForUpdate(ctx, tx, inv.TeamID)
		if err != nil {
			return err
		}
		if team == nil {
			return ErrInvitationInvalid
		}

		member := models.TeamMember{Status: models.MemberStatusActive, Permissions: models.MemberPermissions()}
		if existing, ok := team.Members[uid]; ok && existing.Status == models.MemberStatusActive {
			member = existing
		}
		if err := s.tr.SetMember(ctx, tx, team.ID, uid, member); err != nil {
			return err
		}
		if err := s.ur.AddTeam(ctx, tx, uid, team.ID, false); err != nil {
			return notFound(err)
		}

		if team.Members == nil {
			team.Members = map[string]models.TeamMember{}
		}
		team.Members[uid] = member
		joined = team
		return nil
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return joined, nil
}

func (s *invitationService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.ir.RemoveExpired(ctx, s.now().Add(-s.ttl))
}
