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

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, filter store.ProjectFilter) ([]model.Project, error)
	Update(ctx context.Context, id string, patch model.ProjectPatch, actor string) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

type CreateProjectRequest struct {
	ProjectName      string   `json:"projectName"`
	Department       string   `json:"department"`
	ProjectLead      string   `json:"projectLead"`
	ContactEmail     string   `json:"contactEmail"`
	Description      string   `json:"description"`
	Problem          string   `json:"problem"`
	Solution         string   `json:"solution"`
	ExpectedOutcomes string   `json:"expectedOutcomes"`
	Timeline         string   `json:"timeline"`
	Budget           string   `json:"budget"`
	AITypes          []string `json:"aiTypes"`
	AffectedStaff    float64  `json:"affectedStaff"`
	HoursPerWeek     float64  `json:"hoursPerWeek"`
	EfficiencyGain   float64  `json:"efficiencyGain"`
}

type ProjectService struct {
	repo   ProjectRepository
	logger *zap.Logger
	notify notifier
}

func NewProjectService(repo ProjectRepository, bus eventbus.Publisher, logger *zap.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger, notify: notifier{bus: bus, logger: logger}}
}

func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*model.Project, error) {
	if err := requireFields(
		requiredField{"projectName", req.ProjectName},
		requiredField{"department", req.Department},
		requiredField{"projectLead", req.ProjectLead},
		requiredField{"contactEmail", req.ContactEmail},
	); err != nil {
		return nil, err
	}
	if err := validEmail("contactEmail", req.ContactEmail); err != nil {
		return nil, err
	}

	project := &model.Project{
		ProjectName:      strings.TrimSpace(req.ProjectName),
		Department:       strings.TrimSpace(req.Department),
		ProjectLead:      strings.TrimSpace(req.ProjectLead),
		ContactEmail:     strings.TrimSpace(req.ContactEmail),
		Description:      req.Description,
		Problem:          req.Problem,
		Solution:         req.Solution,
		ExpectedOutcomes: req.ExpectedOutcomes,
		Status:           model.ProjectPending,
		Priority:         model.PriorityMedium,
		Progress:         0,
		Timeline:         req.Timeline,
		Budget:           req.Budget,
		AITypes:          model.StringList(req.AITypes),
		AffectedStaff:    req.AffectedStaff,
		HoursPerWeek:     req.HoursPerWeek,
		EfficiencyGain:   req.EfficiencyGain,
		Source:           "web_form",
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("projects").Inc()
	s.notify.publish(ctx, eventbus.ChannelProject, "project_created", eventbus.ProjectEvent{
		ProjectID: project.ID,
		Status:    string(project.Status),
	})
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, filter store.ProjectFilter) ([]model.Project, error) {
	return s.repo.List(ctx, filter)
}

// Update applies patch on behalf of actor. Any status may follow any other;
// the store records each change in the project's history.
func (s *ProjectService) Update(ctx context.Context, id string, patch model.ProjectPatch, actor string) (*model.Project, error) {
	if err := validateProjectPatch(patch); err != nil {
		return nil, err
	}

	project, err := s.repo.Update(ctx, id, patch, actor)
	if err != nil {
		return nil, err
	}

	if from, entry, ok := lastStatusChange(project); ok && patch.Status != nil {
		metrics.ProjectStatusTransitions.WithLabelValues(string(from), string(entry.Status)).Inc()
		s.notify.publish(ctx, eventbus.ChannelProject, "project_status_changed", eventbus.ProjectEvent{
			ProjectID:      project.ID,
			Status:         string(entry.Status),
			PreviousStatus: string(from),
			ChangedBy:      entry.ChangedBy,
		})
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.publish(ctx, eventbus.ChannelProject, "project_deleted", eventbus.ProjectEvent{ProjectID: id})
	return nil
}

func validateProjectPatch(patch model.ProjectPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return invalidField("status", "unknown status "+string(*patch.Status))
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return invalidField("priority", "unknown priority "+string(*patch.Priority))
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return invalidField("progress", "must be between 0 and 100")
	}
	return nil
}

// lastStatusChange reports whether the update that produced project appended a
// history entry: the store stamps the entry and lastUpdated with one instant.
func lastStatusChange(project *model.Project) (model.ProjectStatus, model.StatusHistoryEntry, bool) {
	n := len(project.StatusHistory)
	if n == 0 {
		return "", model.StatusHistoryEntry{}, false
	}
	last := project.StatusHistory[n-1]
	if !last.ChangedAt.Equal(project.LastUpdated) {
		return "", model.StatusHistoryEntry{}, false
	}
	from := model.ProjectPending
	if n > 1 {
		from = project.StatusHistory[n-2].Status
	}
	return from, last, true
}
