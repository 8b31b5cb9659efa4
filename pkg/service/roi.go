package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/eventbus"
	"github.com/countyai/cop-portal/pkg/metrics"
	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/roi"
	"github.com/countyai/cop-portal/pkg/store"
)

// linkActor is recorded as the author of back-reference writes.
const linkActor = "roi-link"

type ROIRepository interface {
	Create(ctx context.Context, calc *model.ROICalculation) error
	GetByID(ctx context.Context, id string) (*model.ROICalculation, error)
	List(ctx context.Context, filter store.ROIFilter) ([]model.ROICalculation, error)
	Update(ctx context.Context, id string, patch model.ROIPatch) (*model.ROICalculation, error)
	Delete(ctx context.Context, id string) error
}

type SaveROIRequest struct {
	ProjectName string     `json:"projectName"`
	Department  string     `json:"department"`
	ProjectID   *string    `json:"projectId"`
	Inputs      roi.Inputs `json:"inputs"`
}

type ROIService struct {
	calcs    ROIRepository
	projects ProjectRepository
	logger   *zap.Logger
	notify   notifier
}

func NewROIService(calcs ROIRepository, projects ProjectRepository, bus eventbus.Publisher, logger *zap.Logger) *ROIService {
	return &ROIService{
		calcs:    calcs,
		projects: projects,
		logger:   logger,
		notify:   notifier{bus: bus, logger: logger},
	}
}

func (s *ROIService) Calculate(in roi.Inputs) roi.Results {
	metrics.ROICalculationsTotal.Inc()
	return roi.Compute(in)
}

// Save persists a calculation and, when it came from a project, points the
// project back at it. The two writes are not a transaction: once the
// calculation is stored a failed back-reference is logged and swallowed. The
// calculation still carries projectId, so listing calculations by projectId
// is the authoritative way to find them.
func (s *ROIService) Save(ctx context.Context, req SaveROIRequest) (*model.ROICalculation, error) {
	results := roi.Compute(req.Inputs)

	var projectID *string
	if req.ProjectID != nil && strings.TrimSpace(*req.ProjectID) != "" {
		id := strings.TrimSpace(*req.ProjectID)
		projectID = &id
	}

	calc := &model.ROICalculation{
		ProjectName: req.ProjectName,
		Department:  req.Department,
		Inputs:      model.JSONB(req.Inputs.Map()),
		Results:     model.JSONB(results.Map()),
		ProjectID:   projectID,
	}
	if err := s.calcs.Create(ctx, calc); err != nil {
		return nil, err
	}

	linked := projectID != nil
	metrics.ROISavedTotal.WithLabelValues(strconv.FormatBool(linked)).Inc()

	if linked {
		s.link(ctx, *projectID, calc.ID, req.Inputs, results)
	}

	s.notify.publish(ctx, eventbus.ChannelROI, "roi_saved", eventbus.ROIEvent{
		CalculationID: calc.ID,
		ProjectID:     stringValue(projectID),
		Linked:        linked,
		ROI:           results.ROI,
	})
	return calc, nil
}

func (s *ROIService) link(ctx context.Context, projectID, calcID string, in roi.Inputs, results roi.Results) {
	implementationCost := in.ImplementationCost
	patch := model.ProjectPatch{
		ROICalculationID:   &calcID,
		EstimatedROI:       &results.ROI,
		AnnualSavings:      &results.TotalAnnualSavings,
		ImplementationCost: &implementationCost,
	}
	if _, err := s.projects.Update(ctx, projectID, patch, linkActor); err != nil {
		reason := "store_error"
		if errors.Is(err, store.ErrNotFound) {
			reason = "project_not_found"
		}
		metrics.ROILinkFailuresTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("failed to link roi calculation to project",
			zap.String("calculation_id", calcID),
			zap.String("project_id", projectID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return
	}

	s.notify.publish(ctx, eventbus.ChannelProject, "project_roi_linked", eventbus.ProjectEvent{
		ProjectID:        projectID,
		ROICalculationID: calcID,
	})
}

func (s *ROIService) Get(ctx context.Context, id string) (*model.ROICalculation, error) {
	return s.calcs.GetByID(ctx, id)
}

func (s *ROIService) List(ctx context.Context, filter store.ROIFilter) ([]model.ROICalculation, error) {
	return s.calcs.List(ctx, filter)
}

// Update merges patch. Results are only ever recomputed from new inputs.
func (s *ROIService) Update(ctx context.Context, id string, patch model.ROIPatch) (*model.ROICalculation, error) {
	patch.Results = nil
	if patch.Inputs != nil {
		in := roi.InputsFromMap(*patch.Inputs)
		inputs := in.Map()
		results := roi.Compute(in).Map()
		patch.Inputs = &inputs
		patch.Results = &results
	}
	return s.calcs.Update(ctx, id, patch)
}

func (s *ROIService) Delete(ctx context.Context, id string) error {
	return s.calcs.Delete(ctx, id)
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
