package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/eventbus"
	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store"
	"github.com/countyai/cop-portal/pkg/store/gormdb"
)

type repos struct {
	projects *gormdb.ProjectRepository
	calcs    *gormdb.ROIRepository
	prompts  *gormdb.PromptRepository
	contacts *gormdb.ContactRepository
}

func newRepos(t *testing.T) repos {
	t.Helper()
	s, err := gormdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return repos{
		projects: gormdb.NewProjectRepository(s.DB()),
		calcs:    gormdb.NewROIRepository(s.DB()),
		prompts:  gormdb.NewPromptRepository(s.DB()),
		contacts: gormdb.NewContactRepository(s.DB()),
	}
}

type recordingBus struct {
	mu     sync.Mutex
	events map[string][]eventbus.Event
	err    error
}

func (b *recordingBus) Publish(_ context.Context, channel string, event eventbus.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.events == nil {
		b.events = map[string][]eventbus.Event{}
	}
	b.events[channel] = append(b.events[channel], event)
	return b.err
}

func (b *recordingBus) types(channel string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, e := range b.events[channel] {
		out = append(out, e.Type)
	}
	return out
}

// failingProjects accepts reads from the wrapped repository and fails updates.
type failingProjects struct {
	ProjectRepository
	err error
}

func (f failingProjects) Update(context.Context, string, model.ProjectPatch, string) (*model.Project, error) {
	return nil, f.err
}

var errStoreDown = errors.New("connection refused")

func validProjectRequest() CreateProjectRequest {
	return CreateProjectRequest{
		ProjectName:  "Permit triage",
		Department:   "Planning",
		ProjectLead:  "Sam Lee",
		ContactEmail: "sam@county.gov",
		AITypes:      []string{"nlp"},
	}
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, field, verr.Field)
}

func ptr[T any](v T) *T { return &v }

func nopLogger() *zap.Logger { return zap.NewNop() }

func countProjects(t *testing.T, r repos) int {
	t.Helper()
	list, err := r.projects.List(context.Background(), store.ProjectFilter{})
	require.NoError(t, err)
	return len(list)
}
