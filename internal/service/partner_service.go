package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agridynamic/internal/cache"
	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/media"
	"agridynamic/internal/model"
	"agridynamic/internal/repository"
)

const partnersCacheKey = "partners:all"

var (
	// ErrPartnerNotFound is returned when no partner matches the id.
	ErrPartnerNotFound = apperrors.NotFound("Partner not found")
	// ErrPartnerLogoRequired is returned when a partner is created without a logo.
	ErrPartnerLogoRequired = apperrors.Validation("Partner logo (file or URL) is required.", "logo")
)

// PartnerInput carries create and update fields. Nil fields are not supplied.
type PartnerInput struct {
	Name        *string
	Description *string
	Link        *string
	Logo        media.Source
}

// PartnerService manages partner organisations.
type PartnerService interface {
	List(ctx context.Context) ([]model.Partner, error)
	Get(ctx context.Context, id string) (*model.Partner, error)
	Create(ctx context.Context, in PartnerInput) (*model.Partner, error)
	Update(ctx context.Context, id string, in PartnerInput) (*model.Partner, error)
	Delete(ctx context.Context, id string) (*Deleted, error)
}

type partnerService struct {
	repo   repository.PartnerRepository
	images *media.Resolver
	cache  *cache.Client
}

// NewPartnerService creates a new partner service.
func NewPartnerService(repo repository.PartnerRepository, images *media.Resolver, cache *cache.Client) PartnerService {
	return &partnerService{repo: repo, images: images, cache: cache}
}

// List returns partners ordered by name.
func (s *partnerService) List(ctx context.Context) ([]model.Partner, error) {
	var partners []model.Partner
	if s.cache.GetJSON(ctx, partnersCacheKey, &partners) {
		return partners, nil
	}

	partners, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	s.cache.SetJSON(ctx, partnersCacheKey, partners, listCacheTTL)
	return partners, nil
}

func (s *partnerService) Get(ctx context.Context, id string) (*model.Partner, error) {
	partnerID, err := parseID("Partner", id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, partnerID)
}

func (s *partnerService) Create(ctx context.Context, in PartnerInput) (*model.Partner, error) {
	partner := &model.Partner{}
	applyPartnerInput(partner, in)
	if err := checkEntity(partner, "Logo"); err != nil {
		return nil, err
	}

	logo, err := s.images.ResolveCreate(ctx, media.FolderPartners, in.Logo)
	if err != nil {
		if errors.Is(err, apperrors.ErrImageRequired) {
			return nil, ErrPartnerLogoRequired
		}
		return nil, err
	}
	partner.Logo = logo

	if err := s.repo.Create(ctx, partner); err != nil {
		if _, uploaded := in.Logo.(media.UploadedBytes); uploaded {
			s.images.Release(logo)
		}
		return nil, fmt.Errorf("create partner: %w", err)
	}

	s.invalidate(ctx)
	return partner, nil
}

func (s *partnerService) Update(ctx context.Context, id string, in PartnerInput) (*model.Partner, error) {
	partnerID, err := parseID("Partner", id)
	if err != nil {
		return nil, err
	}
	partner, err := s.find(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	applyPartnerInput(partner, in)
	if err := checkEntity(partner, "Logo"); err != nil {
		return nil, err
	}

	res, err := s.images.ResolveUpdate(ctx, media.FolderPartners, partner.Logo, in.Logo)
	if err != nil {
		return nil, err
	}
	partner.Logo = res.URL

	if err := s.repo.Update(ctx, partner); err != nil {
		if _, uploaded := in.Logo.(media.UploadedBytes); uploaded {
			s.images.Release(res.URL)
		}
		return nil, fmt.Errorf("update partner: %w", err)
	}

	s.images.Release(res.Replaced)
	s.invalidate(ctx)
	return partner, nil
}

func (s *partnerService) Delete(ctx context.Context, id string) (*Deleted, error) {
	partnerID, err := parseID("Partner", id)
	if err != nil {
		return nil, err
	}
	partner, err := s.find(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, partnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("delete partner: %w", err)
	}

	s.images.Release(partner.Logo)
	s.invalidate(ctx)
	return &Deleted{ID: partnerID.String(), Message: "Partner removed"}, nil
}

func (s *partnerService) find(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("find partner: %w", err)
	}
	return partner, nil
}

func (s *partnerService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, partnersCacheKey)
}

func applyPartnerInput(p *model.Partner, in PartnerInput) {
	setString(&p.Name, in.Name, strings.TrimSpace)
	setString(&p.Description, in.Description, sanitizeRich)
	setString(&p.Link, in.Link, strings.TrimSpace)
}
