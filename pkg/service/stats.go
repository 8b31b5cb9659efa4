package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/roi"
	"github.com/countyai/cop-portal/pkg/store"
)

const (
	statsCacheKey = "cop:stats:report"
	statsMonths   = 12
)

// StatsCache is the slice of the redis client the report cache needs.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type MonthBucket struct {
	Month    string `json:"month"`
	Label    string `json:"label"`
	Projects int    `json:"projects"`
	Prompts  int    `json:"prompts"`
}

type StatsReport struct {
	TotalProjects        int                `json:"totalProjects"`
	ActiveProjects       int                `json:"activeProjects"`
	CompletedProjects    int                `json:"completedProjects"`
	PendingReview        int                `json:"pendingReview"`
	TotalAnnualSavings   float64            `json:"totalAnnualSavings"`
	AverageROI           float64            `json:"averageROI"`
	TotalHoursSaved      float64            `json:"totalHoursSaved"`
	TotalFTESaved        float64            `json:"totalFTESaved"`
	ProjectsByStatus     map[string]int     `json:"projectsByStatus"`
	ProjectsByDepartment map[string]int     `json:"projectsByDepartment"`
	ROIByDepartment      map[string]float64 `json:"roiByDepartment"`
	SubmissionsByMonth   []MonthBucket      `json:"submissionsByMonth"`
	PendingPrompts       int                `json:"pendingPrompts"`
	ApprovedPrompts      int                `json:"approvedPrompts"`
	TotalPrompts         int                `json:"totalPrompts"`
	NewContacts          int                `json:"newContacts"`
	TotalContacts        int                `json:"totalContacts"`
	TotalROICalculations int                `json:"totalROICalculations"`
	GeneratedAt          time.Time          `json:"generatedAt"`
}

type StatsService struct {
	projects ProjectRepository
	calcs    ROIRepository
	prompts  PromptRepository
	contacts ContactRepository
	cache    StatsCache
	ttl      time.Duration
	logger   *zap.Logger
}

func NewStatsService(projects ProjectRepository, calcs ROIRepository, prompts PromptRepository, contacts ContactRepository, logger *zap.Logger) *StatsService {
	return &StatsService{
		projects: projects,
		calcs:    calcs,
		prompts:  prompts,
		contacts: contacts,
		logger:   logger,
	}
}

// WithCache enables report caching for ttl. A zero ttl disables it.
func (s *StatsService) WithCache(cache StatsCache, ttl time.Duration) *StatsService {
	if ttl > 0 {
		s.cache = cache
		s.ttl = ttl
	}
	return s
}

// Invalidate drops the cached report so the next Report reflects recent writes.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate stats report", zap.Error(err))
	}
}

// Report aggregates the four collections as of now.
func (s *StatsService) Report(ctx context.Context, now time.Time) (*StatsReport, error) {
	if s.cache != nil {
		var cached StatsReport
		if err := s.cache.GetJSON(ctx, statsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var (
		projects []model.Project
		calcs    []model.ROICalculation
		prompts  []model.PromptSubmission
		contacts []model.ContactSubmission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = s.projects.List(gctx, store.ProjectFilter{})
		return err
	})
	g.Go(func() (err error) {
		calcs, err = s.calcs.List(gctx, store.ROIFilter{})
		return err
	})
	g.Go(func() (err error) {
		prompts, err = s.prompts.List(gctx, store.PromptFilter{})
		return err
	})
	g.Go(func() (err error) {
		contacts, err = s.contacts.List(gctx, store.ContactFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := buildReport(projects, calcs, prompts, contacts, now)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey, report, s.ttl); err != nil {
			s.logger.Warn("failed to cache stats report", zap.Error(err))
		}
	}
	return report, nil
}

func buildReport(projects []model.Project, calcs []model.ROICalculation, prompts []model.PromptSubmission, contacts []model.ContactSubmission, now time.Time) *StatsReport {
	now = now.UTC()
	r := &StatsReport{
		ProjectsByStatus:     map[string]int{},
		ProjectsByDepartment: map[string]int{},
		ROIByDepartment:      map[string]float64{},
		GeneratedAt:          now,
	}

	// A linked calculation's savings were copied onto its project.
	linked := make(map[string]struct{})
	for _, p := range projects {
		status := string(p.Status)
		if status == "" {
			status = string(model.ProjectPending)
		}
		r.ProjectsByStatus[status]++
		r.ProjectsByDepartment[orUnknown(p.Department)]++
		r.TotalAnnualSavings += p.AnnualSavings
		if p.ROICalculationID != nil && *p.ROICalculationID != "" {
			linked[*p.ROICalculationID] = struct{}{}
		}
	}
	r.TotalProjects = len(projects)
	r.ActiveProjects = r.ProjectsByStatus[string(model.ProjectInProgress)]
	r.CompletedProjects = r.ProjectsByStatus[string(model.ProjectCompleted)]
	r.PendingReview = r.ProjectsByStatus[string(model.ProjectPending)]

	var totalROI, totalHours float64
	for _, c := range calcs {
		results := roi.ResultsFromMap(c.Results)
		r.ROIByDepartment[orUnknown(c.Department)] += results.TotalAnnualSavings
		if _, ok := linked[c.ID]; !ok && results.TotalAnnualSavings > 0 {
			r.TotalAnnualSavings += results.TotalAnnualSavings
		}
		totalROI += results.ROI
		totalHours += results.AnnualHoursSaved
	}
	r.TotalROICalculations = len(calcs)
	if len(calcs) > 0 {
		r.AverageROI = roi.Round(totalROI/float64(len(calcs)), 0)
	}
	r.TotalHoursSaved = roi.Round(totalHours, 0)
	r.TotalFTESaved = roi.Round(totalHours/roi.HoursPerFTE, 2)

	for _, p := range prompts {
		switch p.Status {
		case model.PromptPending:
			r.PendingPrompts++
		case model.PromptApproved:
			r.ApprovedPrompts++
		}
	}
	r.TotalPrompts = len(prompts)

	for _, c := range contacts {
		if c.Status == "" || c.Status == model.ContactNew {
			r.NewContacts++
		}
	}
	r.TotalContacts = len(contacts)

	r.SubmissionsByMonth = monthBuckets(now)
	index := make(map[string]int, len(r.SubmissionsByMonth))
	for i, b := range r.SubmissionsByMonth {
		index[b.Month] = i
	}
	for _, p := range projects {
		if i, ok := index[p.SubmittedDate.UTC().Format("2006-01")]; ok {
			r.SubmissionsByMonth[i].Projects++
		}
	}
	for _, p := range prompts {
		if i, ok := index[p.SubmittedDate.UTC().Format("2006-01")]; ok {
			r.SubmissionsByMonth[i].Prompts++
		}
	}
	return r
}

// monthBuckets returns the statsMonths calendar months ending with the month
// of now, oldest first.
func monthBuckets(now time.Time) []MonthBucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]MonthBucket, 0, statsMonths)
	for i := statsMonths - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		buckets = append(buckets, MonthBucket{
			Month: m.Format("2006-01"),
			Label: m.Format("Jan 06"),
		})
	}
	return buckets
}

func orUnknown(department string) string {
	if department == "" {
		return "Unknown"
	}
	return department
}
