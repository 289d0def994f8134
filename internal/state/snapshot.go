package state

import (
	"slices"

	"github.com/maheshrc27/content-compass/internal/models"
)

type Phase string

const (
	PhaseUnresolved Phase = "unresolved"
	PhaseAnonymous  Phase = "anonymous"
	PhaseOnboarding Phase = "onboarding"
	PhaseActive     Phase = "active"
)

// Snapshot is an immutable view of one user's session. Reducers return new
// snapshots and never modify the one they are given.
type Snapshot struct {
	Phase        Phase                `json:"phase"`
	User         *models.UserProfile  `json:"user"`
	Teams        []models.Team        `json:"teams"`
	Posts        []models.Post        `json:"posts"`
	ContentPlans []models.ContentPlan `json:"contentPlans"`
}

// ActiveTeam returns the team the session is scoped to, if any.
func (s Snapshot) ActiveTeam() (models.Team, bool) {
	if s.User == nil || s.User.ActiveTeamID == "" {
		return models.Team{}, false
	}
	return s.Team(s.User.ActiveTeamID)
}

func (s Snapshot) Team(id string) (models.Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.Team{}, false
}

func (s Snapshot) Post(id string) (models.Post, int, bool) {
	for i, p := range s.Posts {
		if p.ID == id {
			return p, i, true
		}
	}
	return models.Post{}, -1, false
}

func anonymous() Snapshot {
	return Snapshot{Phase: PhaseAnonymous}
}

func withUser(s Snapshot, u models.UserProfile) Snapshot {
	u = u.Clone()
	s.User = &u
	if u.IsOnboardingCompleted {
		s.Phase = PhaseActive
	} else {
		s.Phase = PhaseOnboarding
	}
	return s
}

// withScope replaces the team-scoped collections.
func withScope(s Snapshot, activeTeamID string, posts []models.Post, plans []models.ContentPlan) Snapshot {
	if s.User != nil {
		u := s.User.Clone()
		u.ActiveTeamID = activeTeamID
		s.User = &u
	}
	s.Posts = sortPosts(clonePosts(posts))
	s.ContentPlans = append([]models.ContentPlan{}, plans...)
	return s
}

func withTeam(s Snapshot, t models.Team) Snapshot {
	teams := make([]models.Team, 0, len(s.Teams)+1)
	replaced := false
	for _, existing := range s.Teams {
		if existing.ID == t.ID {
			teams = append(teams, t.Clone())
			replaced = true
			continue
		}
		teams = append(teams, existing)
	}
	if !replaced {
		teams = append(teams, t.Clone())
	}
	s.Teams = teams
	if s.User != nil && !s.User.HasTeam(t.ID) {
		u := s.User.Clone()
		u.TeamIDs = append(u.TeamIDs, t.ID)
		s.User = &u
	}
	return s
}

// insertPost adds p keeping posts sorted by date, newest first.
func insertPost(s Snapshot, p models.Post) Snapshot {
	posts := make([]models.Post, 0, len(s.Posts)+1)
	posts = append(posts, s.Posts...)
	posts = append(posts, p.Clone())
	s.Posts = sortPosts(posts)
	return s
}

// insertPostAt restores p at index i, used to undo a removal in place.
func insertPostAt(s Snapshot, p models.Post, i int) Snapshot {
	i = max(0, min(i, len(s.Posts)))
	s.Posts = slices.Insert(slices.Clone(s.Posts), i, p.Clone())
	return s
}

func replacePost(s Snapshot, p models.Post) Snapshot {
	_, i, ok := s.Post(p.ID)
	if !ok {
		return s
	}
	posts := slices.Clone(s.Posts)
	posts[i] = p.Clone()
	s.Posts = posts
	return s
}

func removePost(s Snapshot, id string) Snapshot {
	s.Posts = slices.DeleteFunc(slices.Clone(s.Posts), func(p models.Post) bool { return p.ID == id })
	return s
}

func prependPlan(s Snapshot, plan models.ContentPlan) Snapshot {
	plans := make([]models.ContentPlan, 0, len(s.ContentPlans)+1)
	plans = append(plans, plan)
	s.ContentPlans = append(plans, s.ContentPlans...)
	return s
}

func sortPosts(posts []models.Post) []models.Post {
	slices.SortStableFunc(posts, func(a, b models.Post) int { return b.Date.Compare(a.Date) })
	return posts
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}

// clone copies s deeply enough that callers cannot reach the store's slices.
func (s Snapshot) clone() Snapshot {
	if s.User != nil {
		u := s.User.Clone()
		s.User = &u
	}
	teams := make([]models.Team, len(s.Teams))
	for i, t := range s.Teams {
		teams[i] = t.Clone()
	}
	s.Teams = teams
	s.Posts = clonePosts(s.Posts)
	s.ContentPlans = slices.Clone(s.ContentPlans)
	return s
}
