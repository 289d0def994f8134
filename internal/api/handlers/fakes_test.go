package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maheshrc27/content-compass/internal/ai"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/service"
	"github.com/maheshrc27/content-compass/internal/state"
)

// memData is an in-memory state.DataAccess.
type memData struct {
	mu    sync.Mutex
	seq   int
	users map[string]models.UserProfile
	teams map[string]models.Team
	posts map[string]models.Post
	plans map[string]models.ContentPlan
}

func newMemData() *memData {
	return &memData{
		users: map[string]models.UserProfile{},
		teams: map[string]models.Team{},
		posts: map[string]models.Post{},
		plans: map[string]models.ContentPlan{},
	}
}

func (m *memData) id(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// seed stores an onboarded user holding perms in team "team-a".
func (m *memData) seed(uid string, perms models.Permissions) {
	m.teams["team-a"] = models.Team{
		ID:      "team-a",
		Name:    "Team A",
		Members: map[string]models.TeamMember{uid: {Status: models.MemberStatusActive, Permissions: perms}},
	}
	m.users[uid] = models.UserProfile{
		UID:                   uid,
		Name:                  "Ann",
		TopicPreferences:      []string{"Technology"},
		PostFrequency:         "1x a day",
		TeamIDs:               []string{"team-a"},
		ActiveTeamID:          "team-a",
		IsOnboardingCompleted: true,
	}
}

func (m *memData) LoadProfile(_ context.Context, uid string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, nil
	}
	u = u.Clone()
	return &u, nil
}

func (m *memData) CreateProfile(_ context.Context, p *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[p.UID] = p.Clone()
	return nil
}

func (m *memData) UpdateProfile(ctx context.Context, p *models.UserProfile) error {
	return m.CreateProfile(ctx, p)
}

func (m *memData) LoadTeams(_ context.Context, ids []string) ([]*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Team{}
	for _, id := range ids {
		if t, ok := m.teams[id]; ok {
			t = t.Clone()
			out = append(out, &t)
		}
	}
	return out, nil
}

func (m *memData) LoadPosts(_ context.Context, teamID string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Post{}
	for _, p := range m.posts {
		if p.TeamID == teamID {
			p = p.Clone()
			out = append(out, &p)
		}
	}
	return out, nil
}

func (m *memData) LoadContentPlans(_ context.Context, teamID string) ([]*models.ContentPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.ContentPlan{}
	for _, p := range m.plans {
		if p.TeamID == teamID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (m *memData) GetPost(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	p = p.Clone()
	return &p, nil
}

func (m *memData) CreatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id("post")
	p.CreatedAt = time.Now()
	m.posts[p.ID] = p.Clone()
	return nil
}

func (m *memData) UpdatePost(_ context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.posts[id]
	if !ok {
		return nil, state.ErrNotFound
	}
	next := stored.Apply(patch)
	m.posts[id] = next.Clone()
	return &next, nil
}

func (m *memData) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *memData) SetActiveTeam(_ context.Context, uid, teamID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[uid]
	u.ActiveTeamID = teamID
	m.users[uid] = u
	return nil
}

func (m *memData) CreateTeam(_ context.Context, uid string, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	team.ID = m.id("team")
	m.teams[team.ID] = team.Clone()
	u := m.users[uid]
	u.TeamIDs = append(append([]string{}, u.TeamIDs...), team.ID)
	u.ActiveTeamID = team.ID
	m.users[uid] = u
	return nil
}

func (m *memData) UpdateTeamAccounts(_ context.Context, teamID string, accounts []models.SocialMediaAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.teams[teamID]
	t.SocialMediaAccounts = accounts
	m.teams[teamID] = t
	return nil
}

func (m *memData) CompleteOnboarding(_ context.Context, profile *models.UserProfile, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	team.ID = m.id("team")
	m.teams[team.ID] = team.Clone()
	profile.TeamIDs = append(profile.TeamIDs, team.ID)
	profile.ActiveTeamID = team.ID
	m.users[profile.UID] = profile.Clone()
	return nil
}

func (m *memData) CreateContentPlan(_ context.Context, plan *models.ContentPlan, posts []*models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan.PostIDs = nil
	for _, p := range posts {
		p.ID = m.id("post")
		m.posts[p.ID] = p.Clone()
		plan.PostIDs = append(plan.PostIDs, p.ID)
	}
	plan.ID = m.id("plan")
	m.plans[plan.ID] = *plan
	return nil
}

// planServiceStub returns canned previews or errors.
type planServiceStub struct {
	preview service.PlanPreview
	err     error
}

func (s *planServiceStub) Generate(_ context.Context, _ models.UserProfile, req service.PlanRequest) (service.PlanPreview, error) {
	if s.err != nil {
		return service.PlanPreview{Title: req.Title, Posts: []ai.Draft{}}, s.err
	}
	return s.preview, nil
}

func (s *planServiceStub) Suggest(context.Context, models.UserProfile) (ai.Result, error) {
	return ai.Result{Posts: s.preview.Posts}, s.err
}

func (s *planServiceStub) Trending(context.Context, models.UserProfile) ai.TrendingResult {
	return ai.TrendingResult{TrendingTopic: "Edge AI", TweetIdeas: []string{"idea"}}
}

func (s *planServiceStub) FollowUps(_ context.Context, _ models.UserProfile, topic, tweet string) ai.FollowUpResult {
	return ai.FollowUpResult{FollowUpSuggestions: []string{topic + ": " + tweet}}
}

// dashboardServiceStub records the teams it was asked about.
type dashboardServiceStub struct {
	teams []string
}

func (s *dashboardServiceStub) Get(_ context.Context, teamID string) (service.Dashboard, error) {
	s.teams = append(s.teams, teamID)
	return service.Dashboard{Totals: service.Totals{Posts: 3}}, nil
}

func (s *dashboardServiceStub) Invalidate(context.Context, string) {}

// invitationServiceStub accepts any invitation into team-b.
type invitationServiceStub struct {
	da *memData
}

func (s *invitationServiceStub) Invite(_ context.Context, uid, teamID, email string) (*models.Invitation, string, error) {
	return &models.Invitation{ID: "inv-1", TeamID: teamID, InviteeEmail: email, InviterID: uid}, "http://localhost/accept-invite?token=inv-1", nil
}

func (s *invitationServiceStub) ListPending(context.Context, string, string) ([]*models.Invitation, error) {
	return []*models.Invitation{}, nil
}

func (s *invitationServiceStub) Resend(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *invitationServiceStub) Revoke(context.Context, string, string) error { return nil }

func (s *invitationServiceStub) Accept(_ context.Context, uid, id string) (*models.Team, error) {
	if id != "inv-1" {
		return nil, service.ErrInvitationInvalid
	}
	s.da.mu.Lock()
	defer s.da.mu.Unlock()
	team := models.Team{
		ID:      "team-b",
		Name:    "Team B",
		Members: map[string]models.TeamMember{uid: {Status: models.MemberStatusActive, Permissions: models.MemberPermissions()}},
	}
	s.da.teams[team.ID] = team
	u := s.da.users[uid]
	u.TeamIDs = append(append([]string{}, u.TeamIDs...), team.ID)
	s.da.users[uid] = u
	return &team, nil
}

func (s *invitationServiceStub) PurgeExpired(context.Context) (int64, error) { return 0, nil }
