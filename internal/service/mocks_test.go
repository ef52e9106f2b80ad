package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"agridynamic/internal/media"
	"agridynamic/internal/model"
	"agridynamic/internal/worker"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindIdentity(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockArticleRepository is a mock implementation of ArticleRepository.
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, filter model.ArticleFilter) ([]model.Article, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Article), args.Error(1)
}

func (m *MockArticleRepository) ListCards(ctx context.Context, statuses []model.ArticleStatus) ([]model.ArticleCard, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ArticleCard), args.Error(1)
}

// MockPartnerRepository is a mock implementation of PartnerRepository.
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) Create(ctx context.Context, partner *model.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, partner *model.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Partner), args.Error(1)
}

func (m *MockPartnerRepository) List(ctx context.Context) ([]model.Partner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Partner), args.Error(1)
}

// MockVolunteerRepository is a mock implementation of VolunteerRepository.
type MockVolunteerRepository struct {
	mock.Mock
}

func (m *MockVolunteerRepository) Create(ctx context.Context, volunteer *model.Volunteer) error {
	args := m.Called(ctx, volunteer)
	return args.Error(0)
}

func (m *MockVolunteerRepository) Update(ctx context.Context, volunteer *model.Volunteer) error {
	args := m.Called(ctx, volunteer)
	return args.Error(0)
}

func (m *MockVolunteerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVolunteerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Volunteer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Volunteer), args.Error(1)
}

func (m *MockVolunteerRepository) List(ctx context.Context) ([]model.Volunteer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Volunteer), args.Error(1)
}

// MockEnquiryRepository is a mock implementation of EnquiryRepository.
type MockEnquiryRepository struct {
	mock.Mock
}

func (m *MockEnquiryRepository) Create(ctx context.Context, enquiry *model.Enquiry) error {
	args := m.Called(ctx, enquiry)
	return args.Error(0)
}

func (m *MockEnquiryRepository) Update(ctx context.Context, enquiry *model.Enquiry) error {
	args := m.Called(ctx, enquiry)
	return args.Error(0)
}

func (m *MockEnquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEnquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Enquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enquiry), args.Error(1)
}

func (m *MockEnquiryRepository) List(ctx context.Context) ([]model.Enquiry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Enquiry), args.Error(1)
}

const hostURL = "https://media.test/"

// fakeHost records uploads and destroys.
type fakeHost struct {
	uploads   []string
	destroyed []string
	uploadErr error
}

func (h *fakeHost) Upload(_ context.Context, folder string, _ []byte, _ string) (string, error) {
	if h.uploadErr != nil {
		return "", h.uploadErr
	}
	ref := hostURL + folder + "/" + uuid.NewString()
	h.uploads = append(h.uploads, ref)
	return ref, nil
}

func (h *fakeHost) Destroy(_ context.Context, ref string) error {
	h.destroyed = append(h.destroyed, ref)
	return nil
}

func (h *fakeHost) Owns(ref string) bool {
	return strings.HasPrefix(ref, hostURL)
}

// inlineTasks runs submitted tasks on the caller's goroutine.
type inlineTasks struct{}

func (inlineTasks) Submit(_ string, task worker.Task) bool {
	_ = task(context.Background())
	return true
}

func newTestResolver(host *fakeHost) *media.Resolver {
	return media.NewResolver(host, nil, inlineTasks{}, nil)
}

func ptr[T any](v T) *T {
	return &v
}
