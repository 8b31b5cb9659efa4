package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/eventbus"
	"github.com/countyai/cop-portal/pkg/metrics"
	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.ContactSubmission) error
	GetByID(ctx context.Context, id string) (*model.ContactSubmission, error)
	List(ctx context.Context, filter store.ContactFilter) ([]model.ContactSubmission, error)
	Update(ctx context.Context, id string, patch model.ContactPatch) (*model.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
}

type CreateContactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
}

type ContactService struct {
	repo   ContactRepository
	notify notifier
}

func NewContactService(repo ContactRepository, bus eventbus.Publisher, logger *zap.Logger) *ContactService {
	return &ContactService{repo: repo, notify: notifier{bus: bus, logger: logger}}
}

func (s *ContactService) Create(ctx context.Context, req CreateContactRequest) (*model.ContactSubmission, error) {
	if err := requireFields(
		requiredField{"name", req.Name},
		requiredField{"email", req.Email},
		requiredField{"subject", req.Subject},
		requiredField{"message", req.Message},
	); err != nil {
		return nil, err
	}
	if err := validEmail("email", req.Email); err != nil {
		return nil, err
	}

	contact := &model.ContactSubmission{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Department: req.Department,
		Subject:    req.Subject,
		Message:    req.Message,
		Status:     model.ContactNew,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("contacts").Inc()
	s.notify.publish(ctx, eventbus.ChannelSubmission, "contact_received", eventbus.SubmissionEvent{
		Collection: "contacts",
		ID:         contact.ID,
		Status:     string(contact.Status),
	})
	return contact, nil
}

func (s *ContactService) Get(ctx context.Context, id string) (*model.ContactSubmission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) List(ctx context.Context, filter store.ContactFilter) ([]model.ContactSubmission, error) {
	return s.repo.List(ctx, filter)
}

func (s *ContactService) Update(ctx context.Context, id string, patch model.ContactPatch) (*model.ContactSubmission, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalidField("status", "unknown status "+string(*patch.Status))
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
