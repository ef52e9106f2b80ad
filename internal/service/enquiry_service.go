package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/model"
	"agridynamic/internal/notify"
	"agridynamic/internal/repository"
)

// ErrEnquiryNotFound is returned when no enquiry matches the id.
var ErrEnquiryNotFound = apperrors.NotFound("Enquiry not found.")

var plainText = bluemonday.StrictPolicy()

// EnquiryInput carries the fields of a public submission.
type EnquiryInput struct {
	Name    *string
	Email   *string
	Message *string
}

// EnquiryUpdate carries an administrator's changes. A non-empty Reply is
// mailed to the submitter.
type EnquiryUpdate struct {
	Name    *string
	Email   *string
	Message *string
	Status  *string
	Reply   *string
}

// EnquiryService manages contact form enquiries.
type EnquiryService interface {
	Submit(ctx context.Context, in EnquiryInput) (*model.Enquiry, error)
	List(ctx context.Context) ([]model.Enquiry, error)
	Get(ctx context.Context, id string) (*model.Enquiry, error)
	Update(ctx context.Context, id string, in EnquiryUpdate) (*model.Enquiry, error)
	Delete(ctx context.Context, id string) (*Deleted, error)
}

type enquiryService struct {
	repo       repository.EnquiryRepository
	notifier   *notify.Notifier
	adminEmail string
}

// NewEnquiryService creates a new enquiry service. Submissions are announced
// to adminEmail when it is set.
func NewEnquiryService(repo repository.EnquiryRepository, notifier *notify.Notifier, adminEmail string) EnquiryService {
	return &enquiryService{repo: repo, notifier: notifier, adminEmail: adminEmail}
}

func (s *enquiryService) Submit(ctx context.Context, in EnquiryInput) (*model.Enquiry, error) {
	enquiry := &model.Enquiry{Status: model.EnquiryStatusNew}
	applyEnquiryFields(enquiry, in.Name, in.Email, in.Message)
	if err := checkEntity(enquiry); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, enquiry); err != nil {
		return nil, fmt.Errorf("create enquiry: %w", err)
	}

	if s.adminEmail != "" {
		s.notifier.Notify(submissionNotice(s.adminEmail, enquiry))
	}
	return enquiry, nil
}

func (s *enquiryService) List(ctx context.Context) ([]model.Enquiry, error) {
	enquiries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	return enquiries, nil
}

func (s *enquiryService) Get(ctx context.Context, id string) (*model.Enquiry, error) {
	enquiryID, err := parseID("Enquiry", id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, enquiryID)
}

// Update applies the supplied fields. A reply without an explicit status marks
// the enquiry as responded.
func (s *enquiryService) Update(ctx context.Context, id string, in EnquiryUpdate) (*model.Enquiry, error) {
	enquiryID, err := parseID("Enquiry", id)
	if err != nil {
		return nil, err
	}
	enquiry, err := s.find(ctx, enquiryID)
	if err != nil {
		return nil, err
	}

	applyEnquiryFields(enquiry, in.Name, in.Email, in.Message)
	reply := ""
	if in.Reply != nil {
		reply = strings.TrimSpace(*in.Reply)
	}
	switch {
	case in.Status != nil && *in.Status != "":
		enquiry.Status = model.EnquiryStatus(*in.Status)
	case reply != "":
		enquiry.Status = model.EnquiryStatusResponded
	}
	if err := checkEntity(enquiry); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, enquiry); err != nil {
		return nil, fmt.Errorf("update enquiry: %w", err)
	}

	if reply != "" {
		s.notifier.Notify(replyMessage(enquiry, reply))
	}
	return enquiry, nil
}

func (s *enquiryService) Delete(ctx context.Context, id string) (*Deleted, error) {
	enquiryID, err := parseID("Enquiry", id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, enquiryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("delete enquiry: %w", err)
	}
	return &Deleted{ID: enquiryID.String(), Message: "Enquiry removed successfully!"}, nil
}

func (s *enquiryService) find(ctx context.Context, id uuid.UUID) (*model.Enquiry, error) {
	enquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("find enquiry: %w", err)
	}
	return enquiry, nil
}

func applyEnquiryFields(e *model.Enquiry, name, email, message *string) {
	setString(&e.Name, name, strings.TrimSpace)
	setString(&e.Email, email, normalizeEmail)
	setString(&e.Message, message, strings.TrimSpace)
}

func submissionNotice(to string, e *model.Enquiry) notify.Message {
	return notify.Message{
		To:      to,
		Subject: "New enquiry from " + e.Name,
		Text: fmt.Sprintf("Name: %s\nEmail: %s\n\n%s\n\nReceived: %s",
			e.Name, e.Email, e.Message, e.CreatedAt.Format("2006-01-02 15:04 MST")),
		HTML: fmt.Sprintf("<p><strong>Name:</strong> %s<br><strong>Email:</strong> %s</p><p>%s</p>",
			plainText.Sanitize(e.Name), plainText.Sanitize(e.Email), htmlParagraphs(e.Message)),
	}
}

func replyMessage(e *model.Enquiry, reply string) notify.Message {
	return notify.Message{
		To:      e.Email,
		Subject: "Re: your enquiry",
		Text:    fmt.Sprintf("Hello %s,\n\n%s\n\n> %s", e.Name, reply, strings.ReplaceAll(e.Message, "\n", "\n> ")),
		HTML: fmt.Sprintf("<p>Hello %s,</p><p>%s</p><blockquote>%s</blockquote>",
			plainText.Sanitize(e.Name), htmlParagraphs(reply), htmlParagraphs(e.Message)),
	}
}

func htmlParagraphs(s string) string {
	return strings.ReplaceAll(plainText.Sanitize(s), "\n", "<br>")
}
