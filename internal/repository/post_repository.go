package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/content-compass/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (string, error)
	ListByTeamID(ctx context.Context, teamID string) ([]*models.Post, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error)
	ListOverdue(ctx context.Context, before time.Time) ([]*models.Post, error)
	Patch(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	TransitionStatus(ctx context.Context, postID string, from, to models.PostStatus) (bool, error)
	Remove(ctx context.Context, id string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, team_id, date, title, content, status, auto_publish, social_media_account_ids, likes, retweets, impressions, created_at, updated_at`

func scanPost(s scanner) (*models.Post, error) {
	var post models.Post
	var accountIDs pq.StringArray
	err := s.Scan(&post.ID, &post.TeamID, &post.Date, &post.Title, &post.Content, &post.Status, &post.AutoPublish,
		&accountIDs, &post.Analytics.Likes, &post.Analytics.Retweets, &post.Analytics.Impressions, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.SocialMediaAccountIDs = []string(accountIDs)
	if post.SocialMediaAccountIDs == nil {
		post.SocialMediaAccountIDs = []string{}
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (string, error) {
	query := `
		INSERT INTO posts (id, team_id, date, title, content, status, auto_publish, social_media_account_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	id, err := NewID()
	if err != nil {
		return "", err
	}

	err = conn(r.db, tx).QueryRowContext(ctx, query, id, post.TeamID, post.Date, post.Title, post.Content, post.Status,
		post.AutoPublish, pq.Array(post.SocialMediaAccountIDs)).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	post.ID = id
	post.Analytics = models.Analytics{}
	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) ListByTeamID(ctx context.Context, teamID string) ([]*models.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE team_id = $1 ORDER BY date DESC`, teamID)
}

func (r *postRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ANY($1) ORDER BY date ASC`, pq.Array(ids))
}

// ListOverdue returns scheduled posts without auto-publish whose date is before the cutoff.
func (r *postRepository) ListOverdue(ctx context.Context, before time.Time) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 AND auto_publish = FALSE AND date < $2`
	return r.list(ctx, query, models.PostStatusScheduled, before)
}

// Patch writes only the fields set in patch and returns the stored row.
// Analytics are never touched. A missing post yields sql.ErrNoRows.
func (r *postRepository) Patch(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	var sets []string
	var args []any
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.AutoPublish != nil {
		set("auto_publish", *patch.AutoPublish)
	}
	if patch.SocialMediaAccountIDs != nil {
		set("social_media_account_ids", pq.Array(*patch.SocialMediaAccountIDs))
	}
	set("updated_at", time.Now())
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), postColumns)
	post, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err != sql.ErrNoRows {
			slog.Info(err.Error())
		}
		return nil, err
	}
	return post, nil
}

// TransitionStatus moves a post from one status to another only if it is
// still in the expected status.
func (r *postRepository) TransitionStatus(ctx context.Context, postID string, from, to models.PostStatus) (bool, error) {
	query := `UPDATE posts SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), postID, from)
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

func (r *postRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
