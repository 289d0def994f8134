package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/maheshrc27/content-compass/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// fakeData is an in-memory DataAccess that counts writes and can fail them.
type fakeData struct {
	mu     sync.Mutex
	users  map[string]models.UserProfile
	teams  map[string]models.Team
	posts  map[string]models.Post
	plans  map[string]models.ContentPlan
	seq    int
	writes int

	failWrites bool
	// failOn fails post writes for the given ids.
	failOn map[string]bool
	// blockOn holds post writes for the given ids until the channel is closed.
	blockOn map[string]chan struct{}
}

func newFakeData() *fakeData {
	return &fakeData{
		users:   map[string]models.UserProfile{},
		teams:   map[string]models.Team{},
		posts:   map[string]models.Post{},
		plans:   map[string]models.ContentPlan{},
		failOn:  map[string]bool{},
		blockOn: map[string]chan struct{}{},
	}
}

func (f *fakeData) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeData) write() error {
	if f.failWrites {
		return errStoreDown
	}
	f.writes++
	return nil
}

func (f *fakeData) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *fakeData) LoadProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[uid]
	if !ok {
		return nil, nil
	}
	u = u.Clone()
	return &u, nil
}

func (f *fakeData) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	f.users[profile.UID] = profile.Clone()
	return nil
}

func (f *fakeData) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	return f.CreateProfile(ctx, profile)
}

func (f *fakeData) LoadTeams(ctx context.Context, ids []string) ([]*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Team
	for _, id := range ids {
		if t, ok := f.teams[id]; ok {
			t = t.Clone()
			out = append(out, &t)
		}
	}
	return out, nil
}

func (f *fakeData) LoadPosts(ctx context.Context, teamID string) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Post
	for _, p := range f.posts {
		if p.TeamID == teamID {
			p = p.Clone()
			out = append(out, &p)
		}
	}
	return out, nil
}

func (f *fakeData) LoadContentPlans(ctx context.Context, teamID string) ([]*models.ContentPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ContentPlan
	for _, p := range f.plans {
		if p.TeamID == teamID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (f *fakeData) GetPost(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	p = p.Clone()
	return &p, nil
}

func (f *fakeData) CreatePost(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	post.ID = f.nextID("post-")
	post.Analytics = models.Analytics{}
	post.CreatedAt = time.Now()
	f.posts[post.ID] = post.Clone()
	return nil
}

func (f *fakeData) postWrite(id string) error {
	f.mu.Lock()
	block := f.blockOn[id]
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[id] {
		return errStoreDown
	}
	return f.write()
}

func (f *fakeData) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if err := f.postWrite(id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := stored.Apply(patch)
	f.posts[id] = next.Clone()
	return &next, nil
}

func (f *fakeData) DeletePost(ctx context.Context, id string) error {
	if err := f.postWrite(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	return nil
}

func (f *fakeData) SetActiveTeam(ctx context.Context, uid, teamID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	u := f.users[uid]
	u.ActiveTeamID = teamID
	f.users[uid] = u
	return nil
}

func (f *fakeData) CreateTeam(ctx context.Context, uid string, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	team.ID = f.nextID("team-")
	f.teams[team.ID] = team.Clone()
	u := f.users[uid]
	u.TeamIDs = append(slices.Clone(u.TeamIDs), team.ID)
	u.ActiveTeamID = team.ID
	f.users[uid] = u
	return nil
}

func (f *fakeData) UpdateTeamAccounts(ctx context.Context, teamID string, accounts []models.SocialMediaAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	t := f.teams[teamID]
	t.SocialMediaAccounts = accounts
	f.teams[teamID] = t
	return nil
}

func (f *fakeData) CompleteOnboarding(ctx context.Context, profile *models.UserProfile, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	team.ID = f.nextID("team-")
	f.teams[team.ID] = team.Clone()
	profile.TeamIDs = []string{team.ID}
	profile.ActiveTeamID = team.ID
	f.users[profile.UID] = profile.Clone()
	return nil
}

func (f *fakeData) CreateContentPlan(ctx context.Context, plan *models.ContentPlan, posts []*models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.write(); err != nil {
		return err
	}
	plan.PostIDs = nil
	for _, p := range posts {
		p.ID = f.nextID("post-")
		f.posts[p.ID] = p.Clone()
		plan.PostIDs = append(plan.PostIDs, p.ID)
	}
	plan.ID = f.nextID("plan-")
	f.plans[plan.ID] = *plan
	return nil
}

// seedActiveUser stores an onboarded user that administers one team holding posts.
func (f *fakeData) seedActiveUser(uid string, posts ...models.Post) models.Team {
	team := models.Team{
		ID:      "team-a",
		Name:    "Team A",
		Members: map[string]models.TeamMember{uid: {Status: models.MemberStatusActive, Permissions: models.AdminPermissions()}},
	}
	f.teams[team.ID] = team
	f.users[uid] = models.UserProfile{
		UID:                   uid,
		Name:                  "Ann",
		TopicPreferences:      []string{"Technology"},
		PostFrequency:         "1x a day",
		TeamIDs:               []string{team.ID},
		ActiveTeamID:          team.ID,
		IsOnboardingCompleted: true,
	}
	for _, p := range posts {
		p.TeamID = team.ID
		f.posts[p.ID] = p
	}
	return team
}
