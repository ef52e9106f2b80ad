package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agridynamic/internal/db"
	"agridynamic/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, model.RoleStandard, user.Role)

	dup := &model.User{Name: "Other", Email: "ana@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)

	byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	identity, err := repo.FindIdentity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", identity.Name)
	assert.Empty(t, identity.PasswordHash)

	_, err = repo.FindIdentity(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].PasswordHash)
}

func TestArticleRepository(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	older := &model.Article{
		Title: "Soil", Description: "d", Image: "https://img/1.png",
		Status: model.ArticleStatusCompleted, Published: true,
		Contributors: []string{"Ana", "Ben"}, CreatedAt: base,
	}
	newer := &model.Article{
		Title: "Water", Description: "d", Image: "https://img/2.png",
		Status: model.ArticleStatusUpcoming, CreatedAt: base.Add(time.Minute),
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	all, err := repo.List(ctx, model.ArticleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Water", all[0].Title)
	assert.Equal(t, []string{"Ana", "Ben"}, all[1].Contributors)

	completed, err := repo.List(ctx, model.ArticleFilter{Status: model.ArticleStatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Soil", completed[0].Title)

	published := true
	onlyPublished, err := repo.List(ctx, model.ArticleFilter{Published: &published})
	require.NoError(t, err)
	require.Len(t, onlyPublished, 1)

	cards, err := repo.ListCards(ctx, []model.ArticleStatus{model.ArticleStatusCompleted})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, older.ID, cards[0].ID)
	assert.Equal(t, []string{"Ana", "Ben"}, cards[0].Contributors)

	older.Title = "Soil health"
	require.NoError(t, repo.Update(ctx, older))
	reloaded, err := repo.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soil health", reloaded.Title)

	require.NoError(t, repo.Delete(ctx, older.ID))
	_, err = repo.FindByID(ctx, older.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), gorm.ErrRecordNotFound)
}

func TestPartnerRepository_ListIsAlphabetical(t *testing.T) {
	repo := NewPartnerRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Zeta Farms", "Acre Co", "Mill House"} {
		require.NoError(t, repo.Create(ctx, &model.Partner{Name: name, Logo: "https://l", Link: "https://x"}))
	}

	partners, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, partners, 3)
	assert.Equal(t, "Acre Co", partners[0].Name)
	assert.Equal(t, "Mill House", partners[1].Name)
	assert.Equal(t, "Zeta Farms", partners[2].Name)
}

func TestVolunteerRepository_DuplicateEmail(t *testing.T) {
	repo := NewVolunteerRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Volunteer{FirstName: "Ana", LastName: "Diaz", Email: "ana@x.com"}))
	err := repo.Create(ctx, &model.Volunteer{FirstName: "Ana", LastName: "Diaz", Email: "ana@x.com"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	volunteers, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, volunteers, 1)
}

func TestEnquiryRepository(t *testing.T) {
	repo := NewEnquiryRepository(newTestDB(t))
	ctx := context.Background()

	enquiry := &model.Enquiry{Name: "Ana", Email: "ana@x.com", Message: "Hello"}
	require.NoError(t, repo.Create(ctx, enquiry))
	assert.Equal(t, model.EnquiryStatusNew, enquiry.Status)

	enquiry.Status = model.EnquiryStatusRead
	require.NoError(t, repo.Update(ctx, enquiry))

	got, err := repo.FindByID(ctx, enquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnquiryStatusRead, got.Status)

	require.NoError(t, repo.Delete(ctx, enquiry.ID))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
