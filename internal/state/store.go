package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/content-compass/internal/lock"
	"github.com/maheshrc27/content-compass/internal/metrics"
	"github.com/maheshrc27/content-compass/internal/models"
)

// Identity is what the sign-in provider tells us about a user.
type Identity struct {
	UID      string
	Email    string
	Name     string
	PhotoURL string
}

// DataAccess is the persistence the store drives. Multi-record operations
// must be atomic.
type DataAccess interface {
	LoadProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error
	LoadTeams(ctx context.Context, ids []string) ([]*models.Team, error)
	LoadPosts(ctx context.Context, teamID string) ([]*models.Post, error)
	LoadContentPlans(ctx context.Context, teamID string) ([]*models.ContentPlan, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	// UpdatePost persists only the fields set in patch and returns the
	// stored record.
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	SetActiveTeam(ctx context.Context, uid, teamID string) error
	CreateTeam(ctx context.Context, uid string, team *models.Team) error
	UpdateTeamAccounts(ctx context.Context, teamID string, accounts []models.SocialMediaAccount) error
	CompleteOnboarding(ctx context.Context, profile *models.UserProfile, team *models.Team) error
	CreateContentPlan(ctx context.Context, plan *models.ContentPlan, posts []*models.Post) error
}

// Hooks observe successful post writes.
type Hooks struct {
	PostSaved   func(ctx context.Context, post models.Post)
	PostDeleted func(ctx context.Context, post models.Post)
}

// Store owns one user's session snapshot and applies mutations to it.
type Store struct {
	uid   string
	da    DataAccess
	locks *lock.Keyed
	hooks Hooks

	mu      sync.RWMutex
	snap    Snapshot
	pending map[string]models.Post
}

func NewStore(uid string, da DataAccess, locks *lock.Keyed, hooks Hooks) *Store {
	return &Store{
		uid:     uid,
		da:      da,
		locks:   locks,
		hooks:   hooks,
		snap:    Snapshot{Phase: PhaseUnresolved},
		pending: make(map[string]models.Post),
	}
}

func (s *Store) UID() string { return s.uid }

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Phase
}

// Pending reports whether a post has an unconfirmed optimistic change.
func (s *Store) Pending(postID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[postID]
	return ok
}

func persistenceFailed(op string, err error) error {
	slog.Error("persistence failed", "op", op, "error", err)
	return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
}

// Resolve loads the session for id. A nil identity signs the session out.
// First sign-in creates a provisional profile.
func (s *Store) Resolve(ctx context.Context, id *Identity) (Snapshot, error) {
	if id == nil {
		s.SignOut()
		return s.Snapshot(), nil
	}
	err := s.locks.Do(ctx, "auth-"+s.uid, func(ctx context.Context) error {
		profile, err := s.da.LoadProfile(ctx, s.uid)
		if err != nil {
			return persistenceFailed("load profile", err)
		}
		if profile == nil {
			profile = &models.UserProfile{
				UID:              s.uid,
				Email:            id.Email,
				Name:             id.Name,
				AvatarURL:        id.PhotoURL,
				TopicPreferences: []string{},
				TeamIDs:          []string{},
			}
			if err := s.da.CreateProfile(ctx, profile); err != nil {
				return persistenceFailed("create profile", err)
			}
		}

		next := withUser(Snapshot{}, *profile)
		if next.Phase == PhaseActive {
			if next, err = s.loadScope(ctx, next); err != nil {
				return err
			}
		}

		s.mu.Lock()
		s.snap = next
		s.mu.Unlock()
		return nil
	})
	return s.Snapshot(), err
}

// Reload re-reads the session of an already resolved user.
func (s *Store) Reload(ctx context.Context) (Snapshot, error) {
	return s.Resolve(ctx, &Identity{UID: s.uid})
}

func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = anonymous()
	clear(s.pending)
}

// loadScope loads the user's teams and the active team's data. An active team
// the user no longer belongs to is replaced by the first remaining team.
func (s *Store) loadScope(ctx context.Context, snap Snapshot) (Snapshot, error) {
	teams, err := s.da.LoadTeams(ctx, snap.User.TeamIDs)
	if err != nil {
		return snap, persistenceFailed("load teams", err)
	}
	snap.Teams = []models.Team{}
	for _, t := range teams {
		if t.IsMember(s.uid) {
			snap.Teams = append(snap.Teams, t.Clone())
		}
	}

	active := snap.User.ActiveTeamID
	if _, ok := snap.Team(active); !ok {
		active = ""
		if len(snap.Teams) > 0 {
			active = snap.Teams[0].ID
		}
		slog.Info("active team is not a membership, falling back", "uid", s.uid, "from", snap.User.ActiveTeamID, "to", active)
		if err := s.da.SetActiveTeam(ctx, s.uid, active); err != nil {
			return snap, persistenceFailed("set active team", err)
		}
	}

	if active == "" {
		return withScope(snap, "", nil, nil), nil
	}
	posts, plans, err := s.loadTeamData(ctx, active)
	if err != nil {
		return snap, err
	}
	return withScope(snap, active, posts, plans), nil
}

func (s *Store) loadTeamData(ctx context.Context, teamID string) ([]models.Post, []models.ContentPlan, error) {
	posts, err := s.da.LoadPosts(ctx, teamID)
	if err != nil {
		return nil, nil, persistenceFailed("load posts", err)
	}
	plans, err := s.da.LoadContentPlans(ctx, teamID)
	if err != nil {
		return nil, nil, persistenceFailed("load content plans", err)
	}
	outPosts := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		outPosts = append(outPosts, *p)
	}
	outPlans := make([]models.ContentPlan, 0, len(plans))
	for _, p := range plans {
		outPlans = append(outPlans, *p)
	}
	return outPosts, outPlans, nil
}

// scope returns the active team and the caller's membership in it.
// Callers hold s.mu.
func (s *Store) scope() (models.Team, models.TeamMember, error) {
	if s.snap.User == nil {
		return models.Team{}, models.TeamMember{}, ErrNotAuthenticated
	}
	team, ok := s.snap.ActiveTeam()
	if !ok {
		return models.Team{}, models.TeamMember{}, ErrNoActiveTeam
	}
	member, ok := team.Member(s.uid)
	if !ok {
		return models.Team{}, models.TeamMember{}, ErrNotMember
	}
	return team, member, nil
}

// Membership returns the active team and the caller's membership in it.
func (s *Store) Membership() (models.Team, models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, member, err := s.scope()
	return team.Clone(), member, err
}

func (s *Store) activeTeamID() string {
	if s.snap.User == nil {
		return ""
	}
	return s.snap.User.ActiveTeamID
}

type PostInput struct {
	Date                  time.Time         `json:"date"`
	Title                 string            `json:"title"`
	Content               string            `json:"content"`
	Status                models.PostStatus `json:"status"`
	AutoPublish           bool              `json:"autoPublish"`
	SocialMediaAccountIDs []string          `json:"socialMediaAccountIds"`
}

func validatePost(p models.Post) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: title is required", ErrValidationFailed)
	case strings.TrimSpace(p.Content) == "":
		return fmt.Errorf("%w: content is required", ErrValidationFailed)
	case p.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrValidationFailed)
	case !p.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrValidationFailed, p.Status)
	}
	return nil
}

// AddPost persists a new post in the active team, then adds it locally.
// Nothing changes locally when the write fails.
func (s *Store) AddPost(ctx context.Context, in PostInput) (models.Post, error) {
	s.mu.RLock()
	team, member, err := s.scope()
	s.mu.RUnlock()
	if err != nil {
		return models.Post{}, err
	}
	if !member.Permissions.CreatePost {
		return models.Post{}, ErrPermissionDenied
	}

	post := models.Post{
		TeamID:                team.ID,
		Date:                  in.Date,
		Title:                 in.Title,
		Content:               in.Content,
		Status:                in.Status,
		AutoPublish:           in.AutoPublish,
		SocialMediaAccountIDs: slices.Clone(in.SocialMediaAccountIDs),
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.SocialMediaAccountIDs == nil {
		post.SocialMediaAccountIDs = []string{}
	}
	if err := validatePost(post); err != nil {
		return models.Post{}, err
	}

	return s.create(ctx, post)
}

func (s *Store) create(ctx context.Context, post models.Post) (models.Post, error) {
	if err := s.da.CreatePost(context.WithoutCancel(ctx), &post); err != nil {
		return models.Post{}, persistenceFailed("create post", err)
	}

	s.mu.Lock()
	if s.activeTeamID() == post.TeamID {
		s.snap = insertPost(s.snap, post)
	}
	s.mu.Unlock()

	s.postSaved(ctx, post)
	return post, nil
}

func postKey(id string) string { return "post-" + id }

// UpdatePost applies patch locally at once and persists only the patched
// fields. On success the post is replaced by the stored record; on failure
// only this post is restored.
func (s *Store) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (models.Post, error) {
	var updated models.Post
	err := s.locks.Do(ctx, postKey(id), func(ctx context.Context) error {
		s.mu.Lock()
		_, member, err := s.scope()
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if !member.Permissions.EditPost {
			s.mu.Unlock()
			return ErrPermissionDenied
		}
		current, _, ok := s.snap.Post(id)
		if !ok {
			s.mu.Unlock()
			return ErrNotFound
		}
		next := current.Apply(patch)
		if err := validatePost(next); err != nil {
			s.mu.Unlock()
			return err
		}
		s.snap = replacePost(s.snap, next)
		s.pending[id] = current
		s.mu.Unlock()

		stored, err := s.da.UpdatePost(context.WithoutCancel(ctx), id, patch)

		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.pending, id)
		if errors.Is(err, ErrNotFound) {
			s.snap = removePost(s.snap, id)
			return ErrNotFound
		}
		if err != nil {
			s.snap = replacePost(s.snap, current)
			metrics.Rollbacks.WithLabelValues("update_post").Inc()
			return persistenceFailed("update post", err)
		}

		// The stored record may carry changes made outside this session.
		updated = stored.Clone()
		if _, _, present := s.snap.Post(id); present {
			s.snap = insertPost(removePost(s.snap, id), updated)
		}
		return nil
	})
	if err != nil {
		return models.Post{}, err
	}
	s.postSaved(ctx, updated)
	return updated, nil
}

// DeletePost removes the post locally at once. On failure it is put back at
// its previous position, or in date order if the list changed meanwhile.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	var removed models.Post
	err := s.locks.Do(ctx, postKey(id), func(ctx context.Context) error {
		s.mu.Lock()
		_, member, err := s.scope()
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if !member.Permissions.EditPost {
			s.mu.Unlock()
			return ErrPermissionDenied
		}
		current, idx, ok := s.snap.Post(id)
		if !ok {
			s.mu.Unlock()
			return ErrNotFound
		}
		s.snap = removePost(s.snap, id)
		remaining := len(s.snap.Posts)
		s.pending[id] = current
		s.mu.Unlock()

		err = s.da.DeletePost(context.WithoutCancel(ctx), id)

		s.mu.Lock()
		delete(s.pending, id)
		if err != nil {
			if _, _, present := s.snap.Post(id); !present && s.activeTeamID() == current.TeamID {
				if len(s.snap.Posts) == remaining {
					s.snap = insertPostAt(s.snap, current, idx)
				} else {
					s.snap = insertPost(s.snap, current)
				}
			}
			s.mu.Unlock()
			metrics.Rollbacks.WithLabelValues("delete_post").Inc()
			return persistenceFailed("delete post", err)
		}
		s.mu.Unlock()

		removed = current
		return nil
	})
	if err != nil {
		return err
	}
	if s.hooks.PostDeleted != nil {
		s.hooks.PostDeleted(ctx, removed)
	}
	return nil
}

// CopyPost duplicates the stored version of a post as a new draft.
func (s *Store) CopyPost(ctx context.Context, id string) (models.Post, error) {
	s.mu.RLock()
	team, member, err := s.scope()
	s.mu.RUnlock()
	if err != nil {
		return models.Post{}, err
	}
	if !member.Permissions.CreatePost {
		return models.Post{}, ErrPermissionDenied
	}

	canonical, err := s.da.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, persistenceFailed("get post", err)
	}
	if canonical == nil || canonical.TeamID != team.ID {
		return models.Post{}, ErrNotFound
	}

	return s.create(ctx, models.CopyOf(*canonical))
}

// SwitchTeam scopes the session to another team. Switching to the current
// team writes nothing.
func (s *Store) SwitchTeam(ctx context.Context, teamID string) (Snapshot, error) {
	err := s.locks.Do(ctx, "switch-team-"+s.uid, func(ctx context.Context) error {
		s.mu.RLock()
		user := s.snap.User
		_, known := s.snap.Team(teamID)
		s.mu.RUnlock()

		if user == nil {
			return ErrNotAuthenticated
		}
		if user.ActiveTeamID == teamID {
			return nil
		}
		if !known {
			return ErrNotMember
		}

		fresh, err := s.da.LoadTeams(ctx, []string{teamID})
		if err != nil {
			return persistenceFailed("load team", err)
		}
		if len(fresh) == 0 || !fresh[0].IsMember(s.uid) {
			return ErrNotMember
		}

		posts, plans, err := s.loadTeamData(ctx, teamID)
		if err != nil {
			return err
		}
		if err := s.da.SetActiveTeam(context.WithoutCancel(ctx), s.uid, teamID); err != nil {
			return persistenceFailed("set active team", err)
		}

		s.mu.Lock()
		s.snap = withTeam(s.snap, *fresh[0])
		s.snap = withScope(s.snap, teamID, posts, plans)
		s.mu.Unlock()
		return nil
	})
	return s.Snapshot(), err
}

type TeamInput struct {
	Name                string                      `json:"name"`
	Description         string                      `json:"description"`
	SocialMediaAccounts []models.SocialMediaAccount `json:"socialMediaAccounts"`
}

// AddTeam creates a team with the caller as admin and makes it active.
func (s *Store) AddTeam(ctx context.Context, in TeamInput) (models.Team, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Team{}, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if err := validateAccounts(in.SocialMediaAccounts); err != nil {
		return models.Team{}, err
	}

	var team models.Team
	err := s.locks.Do(ctx, "add-team-"+s.uid, func(ctx context.Context) error {
		s.mu.RLock()
		phase := s.snap.Phase
		s.mu.RUnlock()
		if phase != PhaseActive {
			return ErrNotAuthenticated
		}

		team = models.Team{
			Name:                strings.TrimSpace(in.Name),
			Description:         in.Description,
			Members:             map[string]models.TeamMember{s.uid: {Status: models.MemberStatusActive, Permissions: models.AdminPermissions()}},
			SocialMediaAccounts: in.SocialMediaAccounts,
		}
		if err := s.da.CreateTeam(context.WithoutCancel(ctx), s.uid, &team); err != nil {
			return persistenceFailed("create team", err)
		}

		s.mu.Lock()
		s.snap = withTeam(s.snap, team)
		s.snap = withScope(s.snap, team.ID, nil, nil)
		s.mu.Unlock()
		return nil
	})
	return team, err
}

func validateAccounts(accounts []models.SocialMediaAccount) error {
	for _, a := range accounts {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.UserName) == "" {
			return fmt.Errorf("%w: account name and handle are required", ErrValidationFailed)
		}
		if !a.Title.Valid() {
			return fmt.Errorf("%w: unsupported platform %q", ErrValidationFailed, a.Title)
		}
	}
	return nil
}

// UpdateTeamAccounts replaces the social media accounts of a team the caller administers.
func (s *Store) UpdateTeamAccounts(ctx context.Context, teamID string, accounts []models.SocialMediaAccount) (models.Team, error) {
	if err := validateAccounts(accounts); err != nil {
		return models.Team{}, err
	}
	s.mu.RLock()
	team, ok := s.snap.Team(teamID)
	s.mu.RUnlock()
	if !ok {
		return models.Team{}, ErrNotMember
	}
	if m, _ := team.Member(s.uid); !m.Permissions.IsAdmin {
		return models.Team{}, ErrPermissionDenied
	}
	if accounts == nil {
		accounts = []models.SocialMediaAccount{}
	}

	if err := s.da.UpdateTeamAccounts(context.WithoutCancel(ctx), teamID, accounts); err != nil {
		return models.Team{}, persistenceFailed("update team accounts", err)
	}
	team = team.Clone()
	team.SocialMediaAccounts = accounts

	s.mu.Lock()
	s.snap = withTeam(s.snap, team)
	s.mu.Unlock()
	return team, nil
}

type OnboardingInput struct {
	Name             string   `json:"name"`
	Signature        string   `json:"signature"`
	TopicPreferences []string `json:"topicPreferences"`
	PostFrequency    string   `json:"postFrequency"`
	TeamName         string   `json:"teamName"`
	TeamDescription  string   `json:"teamDescription"`
}

func (in OnboardingInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.TeamName) == "" {
		missing = append(missing, "teamName")
	}
	if strings.TrimSpace(in.PostFrequency) == "" {
		missing = append(missing, "postFrequency")
	}
	if len(in.TopicPreferences) == 0 {
		missing = append(missing, "topicPreferences")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequiredFields, strings.Join(missing, ", "))
	}
	return validateTopics(in.TopicPreferences)
}

func validateTopics(topics []string) error {
	if len(topics) > models.MaxTopicPreferences {
		return fmt.Errorf("%w: at most %d topics", ErrValidationFailed, models.MaxTopicPreferences)
	}
	return nil
}

// CompleteOnboarding finalises the profile and creates the user's first team
// in one atomic write.
func (s *Store) CompleteOnboarding(ctx context.Context, in OnboardingInput) (Snapshot, error) {
	if err := in.validate(); err != nil {
		return s.Snapshot(), err
	}

	err := s.locks.Do(ctx, "auth-"+s.uid, func(ctx context.Context) error {
		s.mu.RLock()
		user := s.snap.User
		s.mu.RUnlock()
		if user == nil {
			return ErrNotAuthenticated
		}
		if user.IsOnboardingCompleted {
			return ErrAlreadyOnboarded
		}

		profile := user.Clone()
		profile.Name = strings.TrimSpace(in.Name)
		profile.Signature = in.Signature
		profile.TopicPreferences = slices.Clone(in.TopicPreferences)
		profile.PostFrequency = in.PostFrequency
		profile.IsOnboardingCompleted = true

		team := models.Team{
			Name:                strings.TrimSpace(in.TeamName),
			Description:         in.TeamDescription,
			Members:             map[string]models.TeamMember{s.uid: {Status: models.MemberStatusActive, Permissions: models.AdminPermissions()}},
			SocialMediaAccounts: []models.SocialMediaAccount{},
		}
		if err := s.da.CompleteOnboarding(context.WithoutCancel(ctx), &profile, &team); err != nil {
			return persistenceFailed("complete onboarding", err)
		}

		next := withUser(Snapshot{}, profile)
		next = withTeam(next, team)
		next = withScope(next, team.ID, nil, nil)

		s.mu.Lock()
		s.snap = next
		s.mu.Unlock()
		return nil
	})
	return s.Snapshot(), err
}

type ProfileInput struct {
	Name             *string   `json:"name"`
	Signature        *string   `json:"signature"`
	TopicPreferences *[]string `json:"topicPreferences"`
	PostFrequency    *string   `json:"postFrequency"`
	AvatarURL        *string   `json:"-"`
}

func (s *Store) UpdateProfile(ctx context.Context, in ProfileInput) (models.UserProfile, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return models.UserProfile{}, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if in.TopicPreferences != nil {
		if err := validateTopics(*in.TopicPreferences); err != nil {
			return models.UserProfile{}, err
		}
	}

	var profile models.UserProfile
	err := s.locks.Do(ctx, "profile-"+s.uid, func(ctx context.Context) error {
		s.mu.RLock()
		user := s.snap.User
		s.mu.RUnlock()
		if user == nil {
			return ErrNotAuthenticated
		}

		profile = user.Clone()
		if in.Name != nil {
			profile.Name = strings.TrimSpace(*in.Name)
		}
		if in.Signature != nil {
			profile.Signature = *in.Signature
		}
		if in.TopicPreferences != nil {
			profile.TopicPreferences = slices.Clone(*in.TopicPreferences)
		}
		if in.PostFrequency != nil {
			profile.PostFrequency = *in.PostFrequency
		}
		if in.AvatarURL != nil {
			profile.AvatarURL = *in.AvatarURL
		}

		if err := s.da.UpdateProfile(context.WithoutCancel(ctx), &profile); err != nil {
			return persistenceFailed("update profile", err)
		}

		s.mu.Lock()
		u := profile.Clone()
		s.snap.User = &u
		s.mu.Unlock()
		return nil
	})
	return profile, err
}

type PlanPostInput struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

type PlanInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tone        string          `json:"tone"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Posts       []PlanPostInput `json:"posts"`
}

// AcceptPlan stores a previewed plan and its draft posts together.
func (s *Store) AcceptPlan(ctx context.Context, in PlanInput) (models.ContentPlan, []models.Post, error) {
	s.mu.RLock()
	team, member, err := s.scope()
	s.mu.RUnlock()
	if err != nil {
		return models.ContentPlan{}, nil, err
	}
	if !member.Permissions.CreateContentPlan {
		return models.ContentPlan{}, nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.ContentPlan{}, nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if len(in.Posts) == 0 {
		return models.ContentPlan{}, nil, fmt.Errorf("%w: a plan needs at least one post", ErrValidationFailed)
	}

	posts := make([]*models.Post, 0, len(in.Posts))
	for _, p := range in.Posts {
		post := &models.Post{
			TeamID:                team.ID,
			Date:                  p.Date,
			Title:                 p.Title,
			Content:               p.Content,
			Status:                models.PostStatusDraft,
			SocialMediaAccountIDs: []string{},
		}
		if err := validatePost(*post); err != nil {
			return models.ContentPlan{}, nil, err
		}
		posts = append(posts, post)
	}

	plan := models.ContentPlan{
		TeamID:      team.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Tone:        in.Tone,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := s.da.CreateContentPlan(context.WithoutCancel(ctx), &plan, posts); err != nil {
		return models.ContentPlan{}, nil, persistenceFailed("create content plan", err)
	}

	created := make([]models.Post, 0, len(posts))
	s.mu.Lock()
	for _, p := range posts {
		created = append(created, *p)
		if s.activeTeamID() == team.ID {
			s.snap = insertPost(s.snap, *p)
		}
	}
	if s.activeTeamID() == team.ID {
		s.snap = prependPlan(s.snap, plan)
	}
	s.mu.Unlock()

	for _, p := range created {
		s.postSaved(ctx, p)
	}
	return plan, created, nil
}

func (s *Store) postSaved(ctx context.Context, p models.Post) {
	if s.hooks.PostSaved != nil {
		s.hooks.PostSaved(ctx, p)
	}
}
