package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/repository"
	"github.com/maheshrc27/content-compass/internal/state"
)

// WorkspaceService is the persistence behind the session store. Every
// multi-record write runs in one transaction.
type WorkspaceService interface {
	state.DataAccess
}

type workspaceService struct {
	db *sql.DB
	ur repository.UserRepository
	tr repository.TeamRepository
	pr repository.PostRepository
	cp repository.ContentPlanRepository
}

func NewWorkspaceService(
	db *sql.DB,
	ur repository.UserRepository,
	tr repository.TeamRepository,
	pr repository.PostRepository,
	cp repository.ContentPlanRepository) WorkspaceService {
	return &workspaceService{
		db: db,
		ur: ur,
		tr: tr,
		pr: pr,
		cp: cp,
	}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return state.ErrNotFound
	}
	return err
}

func (s *workspaceService) LoadProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	user, isExist, err := s.ur.GetByID(ctx, nil, uid)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, nil
	}
	return user, nil
}

func (s *workspaceService) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	return s.ur.Create(ctx, nil, profile)
}

func (s *workspaceService) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	return notFound(s.ur.UpdateProfile(ctx, profile))
}

func (s *workspaceService) LoadTeams(ctx context.Context, ids []string) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	return s.tr.ListByIDs(ctx, ids)
}

func (s *workspaceService) LoadPosts(ctx context.Context, teamID string) ([]*models.Post, error) {
	return s.pr.ListByTeamID(ctx, teamID)
}

func (s *workspaceService) LoadContentPlans(ctx context.Context, teamID string) ([]*models.ContentPlan, error) {
	return s.cp.ListByTeamID(ctx, teamID)
}

func (s *workspaceService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.pr.GetByID(ctx, id)
}

func (s *workspaceService) CreatePost(ctx context.Context, post *models.Post) error {
	_, err := s.pr.Create(ctx, nil, post)
	return err
}

func (s *workspaceService) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	post, err := s.pr.Patch(ctx, id, patch)
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

func (s *workspaceService) DeletePost(ctx context.Context, id string) error {
	return notFound(s.pr.Remove(ctx, id))
}

func (s *workspaceService) SetActiveTeam(ctx context.Context, uid, teamID string) error {
	return notFound(s.ur.UpdateActiveTeam(ctx, nil, uid, teamID))
}

// CreateTeam inserts the team and makes it the user's active team.
func (s *workspaceService) CreateTeam(ctx context.Context, uid string, team *models.Team) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.tr.Create(ctx, tx, team); err != nil {
			return fmt.Errorf("error creating team: %w", err)
		}
		if err := s.ur.AddTeam(ctx, tx, uid, team.ID, true); err != nil {
			return fmt.Errorf("error adding team to user: %w", notFound(err))
		}
		return nil
	})
}

func (s *workspaceService) UpdateTeamAccounts(ctx context.Context, teamID string, accounts []models.SocialMediaAccount) error {
	for i := range accounts {
		if accounts[i].ID != "" {
			continue
		}
		id, err := repository.NewID()
		if err != nil {
			return err
		}
		accounts[i].ID = id
	}
	return notFound(s.tr.UpdateSocialMediaAccounts(ctx, teamID, accounts))
}

// CompleteOnboarding creates the first team and saves the finished profile
// pointing at it.
func (s *workspaceService) CompleteOnboarding(ctx context.Context, profile *models.UserProfile, team *models.Team) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.tr.Create(ctx, tx, team); err != nil {
			return fmt.Errorf("error creating team: %w", err)
		}
		profile.TeamIDs = append(profile.TeamIDs, team.ID)
		profile.ActiveTeamID = team.ID
		if err := s.ur.Save(ctx, tx, profile); err != nil {
			return fmt.Errorf("error saving profile: %w", err)
		}
		return nil
	})
}

// CreateContentPlan inserts the posts, then the plan referencing them.
func (s *workspaceService) CreateContentPlan(ctx context.Context, plan *models.ContentPlan, posts []*models.Post) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		ids := make([]string, 0, len(posts))
		for _, p := range posts {
			id, err := s.pr.Create(ctx, tx, p)
			if err != nil {
				return fmt.Errorf("error creating post: %w", err)
			}
			ids = append(ids, id)
		}
		plan.PostIDs = ids
		if _, err := s.cp.Create(ctx, tx, plan); err != nil {
			return fmt.Errorf("error creating content plan: %w", err)
		}
		return nil
	})
}
