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

type PromptRepository interface {
	Create(ctx context.Context, prompt *model.PromptSubmission) error
	GetByID(ctx context.Context, id string) (*model.PromptSubmission, error)
	List(ctx context.Context, filter store.PromptFilter) ([]model.PromptSubmission, error)
	Update(ctx context.Context, id string, patch model.PromptPatch, actor string) (*model.PromptSubmission, error)
	Delete(ctx context.Context, id string) error
}

type CreatePromptRequest struct {
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Template       string   `json:"template"`
	Tags           []string `json:"tags"`
	SubmitterName  string   `json:"submitterName"`
	SubmitterEmail string   `json:"submitterEmail"`
}

type PromptService struct {
	repo   PromptRepository
	notify notifier
}

func NewPromptService(repo PromptRepository, bus eventbus.Publisher, logger *zap.Logger) *PromptService {
	return &PromptService{repo: repo, notify: notifier{bus: bus, logger: logger}}
}

func (s *PromptService) Create(ctx context.Context, req CreatePromptRequest) (*model.PromptSubmission, error) {
	if err := requireFields(
		requiredField{"title", req.Title},
		requiredField{"category", req.Category},
		requiredField{"description", req.Description},
		requiredField{"template", req.Template},
	); err != nil {
		return nil, err
	}
	if email := strings.TrimSpace(req.SubmitterEmail); email != "" {
		if err := validEmail("submitterEmail", email); err != nil {
			return nil, err
		}
	}

	prompt := &model.PromptSubmission{
		Title:          strings.TrimSpace(req.Title),
		Category:       strings.TrimSpace(req.Category),
		Description:    req.Description,
		Template:       req.Template,
		Tags:           dedupeTags(req.Tags),
		SubmitterName:  req.SubmitterName,
		SubmitterEmail: strings.TrimSpace(req.SubmitterEmail),
		Status:         model.PromptPending,
	}
	if err := s.repo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("prompts").Inc()
	s.notify.publish(ctx, eventbus.ChannelSubmission, "prompt_submitted", eventbus.SubmissionEvent{
		Collection: "prompts",
		ID:         prompt.ID,
		Status:     string(prompt.Status),
	})
	return prompt, nil
}

func (s *PromptService) Get(ctx context.Context, id string) (*model.PromptSubmission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PromptService) List(ctx context.Context, filter store.PromptFilter) ([]model.PromptSubmission, error) {
	return s.repo.List(ctx, filter)
}

func (s *PromptService) Update(ctx context.Context, id string, patch model.PromptPatch, actor string) (*model.PromptSubmission, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalidField("status", "unknown status "+string(*patch.Status))
	}
	if patch.Tags != nil {
		tags := []string(dedupeTags(*patch.Tags))
		patch.Tags = &tags
	}

	prompt, err := s.repo.Update(ctx, id, patch, actor)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		s.notify.publish(ctx, eventbus.ChannelSubmission, "prompt_reviewed", eventbus.SubmissionEvent{
			Collection: "prompts",
			ID:         prompt.ID,
			Status:     string(prompt.Status),
		})
	}
	return prompt, nil
}

func (s *PromptService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// dedupeTags treats tags as a set, keeping first-seen order.
func dedupeTags(tags []string) model.StringList {
	out := make(model.StringList, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
