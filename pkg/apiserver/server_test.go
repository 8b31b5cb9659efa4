package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/auth"
	"github.com/countyai/cop-portal/pkg/config"
	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store/gormdb"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, email, password string) (auth.Identity, error) {
	if email == "admin@county.gov" && password == "hunter2" {
		return auth.Identity{ID: "uid-1", Email: email, Name: "admin"}, nil
	}
	return auth.Identity{}, auth.ErrInvalidCredentials
}

type testServer struct {
	t      *testing.T
	server *Server
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gormdb.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{Auth: config.AuthConfig{SessionSecret: "test-secret", SessionTTL: time.Hour}}
	services := NewServices(db, nil, cfg, zap.NewNop())
	services.Verifier = fakeVerifier{}
	return &testServer{t: t, server: NewServer(services, zap.NewNop())}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	recorder := httptest.NewRecorder()
	s.server.Router().ServeHTTP(recorder, req)
	return recorder
}

func (s *testServer) login() {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/login", map[string]string{"email": "admin@county.gov", "password": "hunter2"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var session auth.Session
	decode(s.t, rec, &session)
	require.NotEmpty(s.t, session.Token)
	s.token = session.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func (s *testServer) createProject() model.Project {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/projects", map[string]interface{}{
		"projectName":  "Permit triage",
		"department":   "Planning",
		"projectLead":  "Sam Lee",
		"contactEmail": "sam@county.gov",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var project model.Project
	decode(s.t, rec, &project)
	return project
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var response struct {
		Status string `json:"status"`
	}
	decode(t, rec, &response)
	require.Equal(t, "ok", response.Status)
}

func TestAuthenticatedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)
	project := s.createProject()

	routes := []struct{ method, path string }{
		{http.MethodPut, "/projects/" + project.ID},
		{http.MethodDelete, "/projects/" + project.ID},
		{http.MethodPut, "/roi/x"},
		{http.MethodDelete, "/roi/x"},
		{http.MethodPut, "/prompts/x"},
		{http.MethodDelete, "/prompts/x"},
		{http.MethodGet, "/contact"},
		{http.MethodPut, "/contact/x"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodGet, "/favorites"},
	}
	for _, route := range routes {
		rec := s.do(route.method, route.path, "{}")
		require.Equal(t, http.StatusUnauthorized, rec.Code, route.method+" "+route.path)
	}

	s.token = "not-a-token"
	rec := s.do(http.MethodGet, "/admin/stats", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/auth/login", map[string]string{"email": "admin@county.gov", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/auth/login", map[string]string{"email": "admin@county.gov"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		User auth.Identity `json:"user"`
	}
	decode(t, rec, &body)
	require.Equal(t, "admin@county.gov", body.User.Email)
}

func TestCreateProjectMissingField(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/projects", map[string]string{
		"projectName": "Permit triage",
		"department":  "Planning",
		"projectLead": "Sam Lee",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	require.Equal(t, "Missing required field: contactEmail", body.Error)

	rec = s.do(http.MethodGet, "/projects", nil)
	var projects []model.Project
	decode(t, rec, &projects)
	require.Empty(t, projects)
}

func TestProjectUpdateFlow(t *testing.T) {
	s := newTestServer(t)
	project := s.createProject()
	s.login()

	rec := s.do(http.MethodPut, "/projects/"+project.ID, map[string]interface{}{
		"id":            "hijack",
		"projectName":   "Renamed",
		"submittedDate": "2001-01-01T00:00:00Z",
		"statusHistory": []map[string]string{{"status": "completed", "changedBy": "mallory"}},
		"status":        "approved",
		"priority":      "high",
		"adminNotes":    "fast track",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Project
	decode(t, rec, &updated)
	require.Equal(t, project.ID, updated.ID)
	require.Equal(t, "Permit triage", updated.ProjectName)
	require.True(t, updated.SubmittedDate.Equal(project.SubmittedDate))
	require.Equal(t, model.ProjectApproved, updated.Status)
	require.Equal(t, model.PriorityHigh, updated.Priority)
	require.Len(t, updated.StatusHistory, 1)
	require.Equal(t, "admin@county.gov", updated.StatusHistory[0].ChangedBy)

	rec = s.do(http.MethodPut, "/projects/"+project.ID, map[string]interface{}{"status": "approved", "owner": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/projects/"+project.ID, map[string]interface{}{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/projects/missing", map[string]interface{}{"status": "approved"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/projects/"+project.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/projects/"+project.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestROISaveLinksProject(t *testing.T) {
	s := newTestServer(t)
	project := s.createProject()

	rec := s.do(http.MethodPost, "/roi", map[string]interface{}{
		"projectName": project.ProjectName,
		"department":  project.Department,
		"projectId":   project.ID,
		"inputs": map[string]float64{
			"hoursPerWeek":       10,
			"affectedStaff":      5,
			"avgHourlyRate":      35,
			"implementationCost": 5000,
			"annualLicenseCost":  1200,
			"efficiencyGain":     30,
			"errorReduction":     20,
		},
		"results": map[string]float64{"roi": 1e9},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var calc model.ROICalculation
	decode(t, rec, &calc)
	require.Equal(t, 354.0, calc.Results["roi"])
	require.NotNil(t, calc.LinkedAt)

	rec = s.do(http.MethodGet, "/projects/"+project.ID, nil)
	var linked model.Project
	decode(t, rec, &linked)
	require.Equal(t, calc.ID, *linked.ROICalculationID)
	require.Equal(t, 28119.0, linked.AnnualSavings)

	rec = s.do(http.MethodGet, "/roi?projectId="+project.ID, nil)
	var calcs []model.ROICalculation
	decode(t, rec, &calcs)
	require.Len(t, calcs, 1)

	s.login()
	rec = s.do(http.MethodPut, "/roi/"+calc.ID, map[string]interface{}{"id": "x", "submittedDate": "2001-01-01T00:00:00Z", "projectName": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated model.ROICalculation
	decode(t, rec, &updated)
	require.Equal(t, calc.ID, updated.ID)
	require.Equal(t, "Renamed", updated.ProjectName)
	require.True(t, updated.SubmittedDate.Equal(calc.SubmittedDate))

	rec = s.do(http.MethodPut, "/roi/"+calc.ID, map[string]interface{}{"results": map[string]float64{"roi": 9999}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &updated)
	require.Equal(t, calc.Results, updated.Results)
}

func TestROICalculate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/roi/calculate", map[string]float64{"implementationCost": 100})
	require.Equal(t, http.StatusOK, rec.Code)
	var results map[string]float64
	decode(t, rec, &results)
	require.Equal(t, -100.0, results["roi"])
	require.Equal(t, 0.0, results["paybackMonths"])
}

func TestPromptModeration(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/prompts", map[string]interface{}{
		"title":       "Summarize minutes",
		"category":    "writing",
		"description": "Board meeting summaries",
		"template":    "Summarize: {{minutes}}",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var prompt model.PromptSubmission
	decode(t, rec, &prompt)

	s.login()
	rec = s.do(http.MethodPut, "/prompts/"+prompt.ID, map[string]interface{}{"status": "approved", "reviewedBy": "mallory"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &prompt)
	require.Equal(t, "admin@county.gov", *prompt.ReviewedBy)

	rec = s.do(http.MethodPut, "/favorites/"+prompt.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPut, "/favorites/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/favorites", nil)
	var favs struct {
		PromptIDs []string `json:"promptIds"`
	}
	decode(t, rec, &favs)
	require.Equal(t, []string{prompt.ID}, favs.PromptIDs)

	rec = s.do(http.MethodGet, "/prompts?status=approved", nil)
	var prompts []model.PromptSubmission
	decode(t, rec, &prompts)
	require.Len(t, prompts, 1)
}

func TestContactAndStats(t *testing.T) {
	s := newTestServer(t)
	s.createProject()

	rec := s.do(http.MethodPost, "/contact", map[string]string{
		"name":    "Jo Park",
		"email":   "jo@county.gov",
		"subject": "Training",
		"message": "When is the next session?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var contact model.ContactSubmission
	decode(t, rec, &contact)

	s.login()
	rec = s.do(http.MethodPut, "/contact/"+contact.ID, map[string]string{"status": "read", "message": "edited"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &contact)
	require.Equal(t, model.ContactRead, contact.Status)
	require.Equal(t, "When is the next session?", contact.Message)

	rec = s.do(http.MethodGet, "/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stats struct {
		TotalProjects      int `json:"totalProjects"`
		PendingReview      int `json:"pendingReview"`
		TotalContacts      int `json:"totalContacts"`
		NewContacts        int `json:"newContacts"`
		SubmissionsByMonth []struct {
			Month    string `json:"month"`
			Projects int    `json:"projects"`
		} `json:"submissionsByMonth"`
	}
	decode(t, rec, &stats)
	require.Equal(t, 1, stats.TotalProjects)
	require.Equal(t, 1, stats.PendingReview)
	require.Equal(t, 1, stats.TotalContacts)
	require.Zero(t, stats.NewContacts)
	require.Len(t, stats.SubmissionsByMonth, 12)
	require.Equal(t, 1, stats.SubmissionsByMonth[11].Projects)
}

func TestEventsRouteRequiresRedis(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodGet, "/admin/events", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
