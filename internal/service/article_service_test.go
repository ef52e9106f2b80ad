package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agridynamic/internal/cache"
	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/media"
	"agridynamic/internal/model"
)

func TestArticleService_Create(t *testing.T) {
	author := uuid.New()
	upload := media.UploadedBytes{Data: []byte("png"), ContentType: "image/png"}

	tests := []struct {
		name          string
		input         ArticleInput
		uploadErr     error
		createErr     error
		expectCreate  bool
		expectedError error
		check         func(*testing.T, *model.Article, *fakeHost)
	}{
		{
			name: "direct url",
			input: ArticleInput{
				Title: ptr("  Soil health  "), Description: ptr("Field trial"),
				Image:        media.DirectURL{Value: "https://elsewhere.org/soil.jpg"},
				Contributors: []string{"Ana", " ", "Ben "},
				Background:   ptr(`<p>ok</p><script>alert(1)</script>`),
			},
			expectCreate: true,
			check: func(t *testing.T, a *model.Article, h *fakeHost) {
				assert.Equal(t, "Soil health", a.Title)
				assert.Equal(t, "https://elsewhere.org/soil.jpg", a.Image)
				assert.Equal(t, model.ArticleStatusUpcoming, a.Status)
				assert.False(t, a.Published)
				assert.Equal(t, []string{"Ana", "Ben"}, a.Contributors)
				assert.Equal(t, "<p>ok</p>", a.Background)
				assert.Equal(t, &author, a.AuthorID)
				assert.Empty(t, h.uploads)
			},
		},
		{
			name:         "uploaded file",
			input:        ArticleInput{Title: ptr("T"), Description: ptr("D"), Image: upload, Status: ptr("completed"), Published: ptr(true)},
			expectCreate: true,
			check: func(t *testing.T, a *model.Article, h *fakeHost) {
				require.Len(t, h.uploads, 1)
				assert.Equal(t, h.uploads[0], a.Image)
				assert.Equal(t, model.ArticleStatusCompleted, a.Status)
				assert.True(t, a.Published)
			},
		},
		{
			name:          "no image",
			input:         ArticleInput{Title: ptr("T"), Description: ptr("D"), Image: media.Unchanged{}},
			expectedError: apperrors.ErrImageRequired,
		},
		{
			name:          "missing title",
			input:         ArticleInput{Description: ptr("D"), Image: upload},
			expectedError: apperrors.Validation(apperrors.MissingFieldsMessage([]string{"title"})),
		},
		{
			name:          "unknown status",
			input:         ArticleInput{Title: ptr("T"), Description: ptr("D"), Status: ptr("paused"), Image: media.DirectURL{Value: "u"}},
			expectedError: apperrors.Validation("Please provide valid values for: status."),
		},
		{
			name:          "upload fails",
			input:         ArticleInput{Title: ptr("T"), Description: ptr("D"), Image: upload},
			uploadErr:     errors.New("503"),
			expectedError: apperrors.ErrUploadFailed,
		},
		{
			name:         "store failure releases the upload",
			input:        ArticleInput{Title: ptr("T"), Description: ptr("D"), Image: upload},
			createErr:    errors.New("disk full"),
			expectCreate: true,
			check: func(t *testing.T, _ *model.Article, h *fakeHost) {
				require.Len(t, h.uploads, 1)
				assert.Equal(t, h.uploads, h.destroyed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockArticleRepository)
			if tt.expectCreate {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Article")).Return(tt.createErr)
			}
			host := &fakeHost{uploadErr: tt.uploadErr}
			service := NewArticleService(repo, newTestResolver(host), nil)

			article, err := service.Create(context.Background(), &author, tt.input)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, article)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			case tt.createErr != nil:
				assert.ErrorIs(t, err, tt.createErr)
				tt.check(t, article, host)
			default:
				require.NoError(t, err)
				tt.check(t, article, host)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestArticleService_Update(t *testing.T) {
	id := uuid.New()
	const current = hostURL + "agridynamic/articles/current"

	existing := func() *model.Article {
		return &model.Article{
			ID: id, Title: "Old", Description: "Desc", Image: current,
			Status: model.ArticleStatusUpcoming, Contributors: []string{"Ana"},
		}
	}

	tests := []struct {
		name          string
		input         ArticleInput
		updateErr     error
		expectedError error
		check         func(*testing.T, *model.Article, *fakeHost)
	}{
		{
			name:  "no image keeps reference",
			input: ArticleInput{Title: ptr("New"), Image: media.Unchanged{}},
			check: func(t *testing.T, a *model.Article, h *fakeHost) {
				assert.Equal(t, "New", a.Title)
				assert.Equal(t, "Desc", a.Description)
				assert.Equal(t, current, a.Image)
				assert.Equal(t, []string{"Ana"}, a.Contributors)
				assert.Empty(t, h.destroyed)
			},
		},
		{
			name:  "new url replaces and releases hosted asset",
			input: ArticleInput{Image: media.DirectURL{Value: "https://elsewhere.org/new.jpg"}},
			check: func(t *testing.T, a *model.Article, h *fakeHost) {
				assert.Equal(t, "https://elsewhere.org/new.jpg", a.Image)
				assert.Equal(t, []string{current}, h.destroyed)
			},
		},
		{
			name:  "same url is a no-op",
			input: ArticleInput{Image: media.DirectURL{Value: current}},
			check: func(t *testing.T, a *model.Article, h *fakeHost) {
				assert.Equal(t, current, a.Image)
				assert.Empty(t, h.destroyed)
			},
		},
		{
			name:  "upload replaces",
			input: ArticleInput{Image: media.UploadedBytes{Data: []byte("x")}, Contributors: []string{}},
			check: func(t *testing.T, a *model.Article, h *fakeHost) {
				require.Len(t, h.uploads, 1)
				assert.Equal(t, h.uploads[0], a.Image)
				assert.Equal(t, []string{current}, h.destroyed)
				assert.Empty(t, a.Contributors)
			},
		},
		{
			name:      "failed save keeps old asset",
			input:     ArticleInput{Image: media.UploadedBytes{Data: []byte("x")}},
			updateErr: errors.New("deadlock"),
			check: func(t *testing.T, _ *model.Article, h *fakeHost) {
				require.Len(t, h.uploads, 1)
				assert.Equal(t, h.uploads, h.destroyed)
			},
		},
		{
			name:          "blank title after merge",
			input:         ArticleInput{Title: ptr("   ")},
			expectedError: apperrors.Validation(apperrors.MissingFieldsMessage([]string{"title"})),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockArticleRepository)
			repo.On("FindByID", mock.Anything, id).Return(existing(), nil)
			if tt.expectedError == nil {
				repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Article")).Return(tt.updateErr)
			}
			host := &fakeHost{}

			article, err := NewArticleService(repo, newTestResolver(host), nil).Update(context.Background(), id.String(), tt.input)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.updateErr != nil:
				assert.ErrorIs(t, err, tt.updateErr)
				tt.check(t, article, host)
			default:
				require.NoError(t, err)
				tt.check(t, article, host)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestArticleService_GetAndDelete(t *testing.T) {
	id := uuid.New()
	const image = hostURL + "agridynamic/articles/pic"

	t.Run("malformed id", func(t *testing.T) {
		_, err := NewArticleService(new(MockArticleRepository), newTestResolver(&fakeHost{}), nil).Get(context.Background(), "not-an-id")
		assert.Equal(t, apperrors.KindInvalidIdentifier, apperrors.KindOf(err))
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockArticleRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)
		_, err := NewArticleService(repo, newTestResolver(&fakeHost{}), nil).Get(context.Background(), id.String())
		assert.ErrorIs(t, err, ErrArticleNotFound)
	})

	t.Run("delete releases image", func(t *testing.T) {
		repo := new(MockArticleRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.Article{ID: id, Image: image}, nil).Once()
		repo.On("Delete", mock.Anything, id).Return(nil).Once()
		host := &fakeHost{}

		res, err := NewArticleService(repo, newTestResolver(host), nil).Delete(context.Background(), id.String())

		require.NoError(t, err)
		assert.Equal(t, &Deleted{ID: id.String(), Message: "Entry removed"}, res)
		assert.Equal(t, []string{image}, host.destroyed)
		repo.AssertExpectations(t)
	})

	t.Run("delete of foreign image leaves host alone", func(t *testing.T) {
		repo := new(MockArticleRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.Article{ID: id, Image: "https://elsewhere.org/x"}, nil)
		repo.On("Delete", mock.Anything, id).Return(nil)
		host := &fakeHost{}

		_, err := NewArticleService(repo, newTestResolver(host), nil).Delete(context.Background(), id.String())

		require.NoError(t, err)
		assert.Empty(t, host.destroyed)
	})
}

func TestArticleService_ListCaching(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	repo := new(MockArticleRepository)
	repo.On("List", mock.Anything, model.ArticleFilter{}).Return([]model.Article{{Title: "A"}}, nil).Once()
	repo.On("List", mock.Anything, model.ArticleFilter{Status: model.ArticleStatusCompleted}).Return([]model.Article{}, nil).Twice()
	repo.On("ListCards", mock.Anything, cardStatuses).Return([]model.ArticleCard{{Title: "A"}}, nil).Twice()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	service := NewArticleService(repo, newTestResolver(&fakeHost{}), c)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		list, err := service.List(ctx, model.ArticleFilter{})
		require.NoError(t, err)
		assert.Equal(t, "A", list[0].Title)

		_, err = service.List(ctx, model.ArticleFilter{Status: model.ArticleStatusCompleted})
		require.NoError(t, err)

		_, err = service.Cards(ctx)
		require.NoError(t, err)
	}

	_, err := service.List(ctx, model.ArticleFilter{Status: "paused"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// a write drops the cached cards
	_, err = service.Create(ctx, nil, ArticleInput{Title: ptr("B"), Description: ptr("D"), Image: media.DirectURL{Value: "u"}})
	require.NoError(t, err)
	_, err = service.Cards(ctx)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
