package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

// userRepoStub is a stub for repository.UserRepository. Unset functions
// return zero values.
type userRepoStub struct {
	getByIDFn         func(context.Context, string) (*models.UserProfile, bool, error)
	getByCustomerFn   func(context.Context, string) (*models.UserProfile, bool, error)
	createFn          func(context.Context, *models.UserProfile) error
	saveFn            func(context.Context, *models.UserProfile) error
	addTeamFn         func(context.Context, string, string, bool) error
	setCustomerFn     func(context.Context, string, string) error
	setSubscriptionFn func(context.Context, string, string) error
}

func (s *userRepoStub) GetByID(ctx context.Context, _ *sql.Tx, uid string) (*models.UserProfile, bool, error) {
	if s.getByIDFn == nil {
		return nil, false, nil
	}
	return s.getByIDFn(ctx, uid)
}
func (s *userRepoStub) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.UserProfile, bool, error) {
	if s.getByCustomerFn == nil {
		return nil, false, nil
	}
	return s.getByCustomerFn(ctx, customerID)
}
func (s *userRepoStub) Create(ctx context.Context, _ *sql.Tx, user *models.UserProfile) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Save(ctx context.Context, _ *sql.Tx, user *models.UserProfile) error {
	if s.saveFn == nil {
		return nil
	}
	return s.saveFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(context.Context, *models.UserProfile) error { return nil }
func (s *userRepoStub) UpdateActiveTeam(context.Context, *sql.Tx, string, string) error {
	return nil
}
func (s *userRepoStub) AddTeam(ctx context.Context, _ *sql.Tx, uid, teamID string, activate bool) error {
	if s.addTeamFn == nil {
		return nil
	}
	return s.addTeamFn(ctx, uid, teamID, activate)
}
func (s *userRepoStub) SetStripeCustomerID(ctx context.Context, uid, customerID string) error {
	if s.setCustomerFn == nil {
		return nil
	}
	return s.setCustomerFn(ctx, uid, customerID)
}
func (s *userRepoStub) SetStripeSubscriptionID(ctx context.Context, uid, subscriptionID string) error {
	if s.setSubscriptionFn == nil {
		return nil
	}
	return s.setSubscriptionFn(ctx, uid, subscriptionID)
}

// teamRepoStub is a stub for repository.TeamRepository.
type teamRepoStub struct {
	teams       map[string]*models.Team
	createFn    func(context.Context, *models.Team) (string, error)
	setMemberFn func(context.Context, string, string, models.TeamMember) error
}

func (s *teamRepoStub) GetByID(_ context.Context, _ *sql.Tx, id string) (*models.Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	clone := t.Clone()
	return &clone, nil
}
func (s *teamRepoStub) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Team, error) {
	return s.GetByID(ctx, tx, id)
}
func (s *teamRepoStub) ListByIDs(context.Context, []string) ([]*models.Team, error) {
	return nil, nil
}
func (s *teamRepoStub) Create(ctx context.Context, _ *sql.Tx, team *models.Team) (string, error) {
	if s.createFn == nil {
		team.ID = "team-new"
		return team.ID, nil
	}
	return s.createFn(ctx, team)
}
func (s *teamRepoStub) SetMember(ctx context.Context, _ *sql.Tx, teamID, uid string, member models.TeamMember) error {
	if s.setMemberFn == nil {
		return nil
	}
	return s.setMemberFn(ctx, teamID, uid, member)
}
func (s *teamRepoStub) UpdateSocialMediaAccounts(context.Context, string, []models.SocialMediaAccount) error {
	return nil
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	getByIDFn     func(context.Context, string) (*models.Post, error)
	createFn      func(context.Context, *models.Post) (string, error)
	listByTeamFn  func(context.Context, string) ([]*models.Post, error)
	listOverdueFn func(context.Context, time.Time) ([]*models.Post, error)
	transitionFn  func(context.Context, string, models.PostStatus, models.PostStatus) (bool, error)
}

func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if s.getByIDFn == nil {
		return nil, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Create(ctx context.Context, _ *sql.Tx, post *models.Post) (string, error) {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) ListByTeamID(ctx context.Context, teamID string) ([]*models.Post, error) {
	if s.listByTeamFn == nil {
		return []*models.Post{}, nil
	}
	return s.listByTeamFn(ctx, teamID)
}
func (s *postRepoStub) ListByIDs(context.Context, []string) ([]*models.Post, error) {
	return nil, nil
}
func (s *postRepoStub) ListOverdue(ctx context.Context, before time.Time) ([]*models.Post, error) {
	return s.listOverdueFn(ctx, before)
}
func (s *postRepoStub) Patch(ctx context.Context, id string, _ models.PostPatch) (*models.Post, error) {
	return s.GetByID(ctx, id)
}
func (s *postRepoStub) TransitionStatus(ctx context.Context, postID string, from, to models.PostStatus) (bool, error) {
	return s.transitionFn(ctx, postID, from, to)
}
func (s *postRepoStub) Remove(context.Context, string) error { return nil }

// planRepoStub is a stub for repository.ContentPlanRepository.
type planRepoStub struct {
	createFn func(context.Context, *models.ContentPlan) (string, error)
}

func (s *planRepoStub) GetByID(context.Context, string) (*models.ContentPlan, error) {
	return nil, nil
}
func (s *planRepoStub) Create(ctx context.Context, _ *sql.Tx, plan *models.ContentPlan) (string, error) {
	return s.createFn(ctx, plan)
}
func (s *planRepoStub) ListByTeamID(context.Context, string) ([]*models.ContentPlan, error) {
	return nil, nil
}

// invitationRepoStub is an in-memory repository.InvitationRepository.
type invitationRepoStub struct {
	invitations map[string]*models.Invitation
	created     []*models.Invitation
}

func (s *invitationRepoStub) GetByID(_ context.Context, _ *sql.Tx, id string) (*models.Invitation, error) {
	inv, ok := s.invitations[id]
	if !ok {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}
func (s *invitationRepoStub) Create(_ context.Context, inv *models.Invitation) (string, error) {
	inv.ID = "inv-new"
	inv.CreatedAt = time.Now()
	s.created = append(s.created, inv)
	return inv.ID, nil
}
func (s *invitationRepoStub) ListPendingByTeamID(_ context.Context, teamID string) ([]*models.Invitation, error) {
	var out []*models.Invitation
	for _, inv := range s.invitations {
		if inv.TeamID == teamID && inv.Status == models.InvitationPending {
			out = append(out, inv)
		}
	}
	return out, nil
}
func (s *invitationRepoStub) MarkAccepted(_ context.Context, _ *sql.Tx, id string) (bool, error) {
	inv, ok := s.invitations[id]
	if !ok || inv.Status != models.InvitationPending {
		return false, nil
	}
	inv.Status = models.InvitationAccepted
	return true, nil
}
func (s *invitationRepoStub) RemovePending(_ context.Context, id string) (bool, error) {
	inv, ok := s.invitations[id]
	if !ok || inv.Status != models.InvitationPending {
		return false, nil
	}
	delete(s.invitations, id)
	return true, nil
}
func (s *invitationRepoStub) RemoveExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// mailerStub records sent invitations.
type mailerStub struct {
	sent []InviteEmail
	err  error
}

func (m *mailerStub) SendInvite(_ context.Context, email InviteEmail) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return email.Link, nil
}

// dashboardStub counts invalidations per team.
type dashboardStub struct {
	invalidated map[string]int
}

func (d *dashboardStub) Get(context.Context, string) (Dashboard, error) { return Dashboard{}, nil }
func (d *dashboardStub) Invalidate(_ context.Context, teamID string) {
	if d.invalidated == nil {
		d.invalidated = map[string]int{}
	}
	d.invalidated[teamID]++
}
