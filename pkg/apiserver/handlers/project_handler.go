package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/apiserver/middleware"
	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/service"
	"github.com/countyai/cop-portal/pkg/store"
)

type ProjectHandler struct {
	projects *service.ProjectService
	logger   *zap.Logger
}

func NewProjectHandler(projects *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// projectUpdateRequest accepts a full project document. Server-owned and
// identity fields are read and dropped.
type projectUpdateRequest struct {
	model.ProjectPatch
	ID            json.RawMessage `json:"id"`
	ProjectName   json.RawMessage `json:"projectName"`
	Department    json.RawMessage `json:"department"`
	ProjectLead   json.RawMessage `json:"projectLead"`
	ContactEmail  json.RawMessage `json:"contactEmail"`
	Source        json.RawMessage `json:"source"`
	SubmittedDate json.RawMessage `json:"submittedDate"`
	LastUpdated   json.RawMessage `json:"lastUpdated"`
	StatusHistory json.RawMessage `json:"statusHistory"`
}

func (h *ProjectHandler) List(c *gin.Context) {
	filter := store.ProjectFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		Department: strings.TrimSpace(c.Query("department")),
		Page:       pageFromQuery(c),
	}
	projects, err := h.projects.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Project", "fetch projects", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	project, err := h.projects.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Project", "create project", err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Project", "fetch project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectUpdateRequest
	if err := decodeStrict(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), req.ProjectPatch, middleware.Actor(c))
	if err != nil {
		respondError(c, h.logger, "Project", "update project", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "Project", "delete project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
