package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var postRowColumns = []string{"id", "team_id", "date", "title", "content", "status", "auto_publish",
	"social_media_account_ids", "likes", "retweets", "impressions", "created_at", "updated_at"}

func TestPostRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(sqlmock.AnyArg(), "team-1", now, "Title", "Body", models.PostStatusDraft, false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	post := &models.Post{TeamID: "team-1", Date: now, Title: "Title", Content: "Body", Status: models.PostStatusDraft,
		Analytics: models.Analytics{Likes: 3}}
	id, err := repo.Create(context.Background(), nil, post)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, id, post.ID)
	assert.Equal(t, models.Analytics{}, post.Analytics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM posts WHERE id`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow("p1", "team-1", now, "T", "C", "Scheduled", true, "{acc1,acc2}", 1, 2, 3, now, now))

	post, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, models.PostStatusScheduled, post.Status)
	assert.Equal(t, []string{"acc1", "acc2"}, post.SocialMediaAccountIDs)
	assert.Equal(t, models.Analytics{Likes: 1, Retweets: 2, Impressions: 3}, post.Analytics)

	mock.ExpectQuery(`SELECT (.+) FROM posts WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	post, err = repo.GetByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, post)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_PatchWritesOnlySetFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(`UPDATE posts SET title = \$1, updated_at = \$2 WHERE id = \$3 RETURNING`).
		WithArgs("Renamed", sqlmock.AnyArg(), "p1").
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow("p1", "team-1", now, "Renamed", "C", "Published", true, "{}", 5, 1, 40, now, now))

	title := "Renamed"
	post, err := repo.Patch(context.Background(), "p1", models.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.Equal(t, int64(40), post.Analytics.Impressions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_PatchMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`UPDATE posts SET updated_at = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), "gone").
		WillReturnError(sql.ErrNoRows)

	post, err := repo.Patch(context.Background(), "gone", models.PostPatch{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, post)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_TransitionStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`UPDATE posts SET status`).
		WithArgs(models.PostStatusPublished, sqlmock.AnyArg(), "p1", models.PostStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE posts SET status`).
		WithArgs(models.PostStatusPublished, sqlmock.AnyArg(), "p1", models.PostStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TransitionStatus(context.Background(), "p1", models.PostStatusScheduled, models.PostStatusPublished)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(context.Background(), "p1", models.PostStatusScheduled, models.PostStatusPublished)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTeamRepository(db)
	now := time.Now()

	members := `{"u1":{"status":"active","permissions":{"createPost":true,"editPost":true,"createContentPlan":true,"sendInvites":true,"isAdmin":true}},
		"u2":{"status":"disabled","permissions":{}}}`
	accounts := `[{"id":"a1","name":"Acme","userName":"@acme","title":"Twitter","active":true}]`

	mock.ExpectQuery(`SELECT (.+) FROM teams WHERE id`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "members", "social_media_accounts", "created_at"}).
			AddRow("t1", "Acme", "", []byte(members), []byte(accounts), now))

	team, err := repo.GetByID(context.Background(), nil, "t1")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.True(t, team.IsMember("u1"))
	assert.False(t, team.IsMember("u2"))
	assert.Equal(t, models.AdminPermissions(), team.Members["u1"].Permissions)
	require.Len(t, team.SocialMediaAccounts, 1)
	assert.Equal(t, "/icons/twitter-x.svg", team.SocialMediaAccounts[0].Title.Icon())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_SetMember(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTeamRepository(db)

	mock.ExpectExec(`UPDATE teams SET members = jsonb_set`).
		WithArgs("u2", sqlmock.AnyArg(), "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetMember(context.Background(), nil, "t1", "u2",
		models.TeamMember{Status: models.MemberStatusActive, Permissions: models.MemberPermissions()})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_MarkAcceptedOnce(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInvitationRepository(db)

	mock.ExpectExec(`UPDATE invitations SET status`).
		WithArgs(models.InvitationAccepted, "inv1", models.InvitationPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE invitations SET status`).
		WithArgs(models.InvitationAccepted, "inv1", models.InvitationPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkAccepted(context.Background(), nil, "inv1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkAccepted(context.Background(), nil, "inv1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE uid`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"uid", "email", "name", "avatar_url", "topic_preferences", "post_frequency",
			"signature", "team_ids", "active_team_id", "is_onboarding_completed", "stripe_customer_id",
			"stripe_subscription_id", "created_at", "updated_at"}).
			AddRow("u1", "a@b.c", "Ann", "", "{Technology}", "1x a day", "", "{t1}", "t1", true, "cus_1", "", now, now))

	user, ok, err := repo.GetByID(context.Background(), nil, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Technology"}, user.TopicPreferences)
	assert.Equal(t, []string{"t1"}, user.TeamIDs)
	assert.Equal(t, "cus_1", user.StripeCustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApiKeyRepository_AuthenticateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApiKeyRepository(db)

	mock.ExpectQuery(`UPDATE api_keys SET last_used_at`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	uid, ok, err := repo.Authenticate(context.Background(), "nope")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, uid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApiKeyRepository_ListByUserID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApiKeyRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM api_keys WHERE user_id`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "hint", "created_at", "last_used_at"}).
			AddRow("k1", "u1", "zapier", "abcd", now, nil).
			AddRow("k2", "u1", "", "wxyz", now, now))

	keys, err := repo.ListByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Nil(t, keys[0].LastUsedAt)
	require.NotNil(t, keys[1].LastUsedAt)
	assert.Empty(t, keys[1].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApiKeyRepository_RemoveForUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewApiKeyRepository(db)

	mock.ExpectExec(`DELETE FROM api_keys`).WithArgs("k1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM api_keys`).WithArgs("k1", "u2").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.RemoveForUser(context.Background(), "k1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.RemoveForUser(context.Background(), "k1", "u2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
