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

type PromptHandler struct {
	prompts *service.PromptService
	logger  *zap.Logger
}

func NewPromptHandler(prompts *service.PromptService, logger *zap.Logger) *PromptHandler {
	return &PromptHandler{prompts: prompts, logger: logger}
}

type promptUpdateRequest struct {
	model.PromptPatch
	ID             json.RawMessage `json:"id"`
	SubmittedDate  json.RawMessage `json:"submittedDate"`
	SubmitterName  json.RawMessage `json:"submitterName"`
	SubmitterEmail json.RawMessage `json:"submitterEmail"`
	ReviewedBy     json.RawMessage `json:"reviewedBy"`
	ReviewedAt     json.RawMessage `json:"reviewedAt"`
}

func (h *PromptHandler) Create(c *gin.Context) {
	var req service.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	prompt, err := h.prompts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Prompt", "submit prompt", err)
		return
	}
	c.JSON(http.StatusCreated, prompt)
}

func (h *PromptHandler) List(c *gin.Context) {
	filter := store.PromptFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Page:   pageFromQuery(c),
	}
	prompts, err := h.prompts.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Prompt", "fetch prompts", err)
		return
	}
	c.JSON(http.StatusOK, prompts)
}

func (h *PromptHandler) Get(c *gin.Context) {
	prompt, err := h.prompts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Prompt", "fetch prompt", err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *PromptHandler) Update(c *gin.Context) {
	var req promptUpdateRequest
	if err := decodeStrict(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	prompt, err := h.prompts.Update(c.Request.Context(), c.Param("id"), req.PromptPatch, middleware.Actor(c))
	if err != nil {
		respondError(c, h.logger, "Prompt", "update prompt", err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *PromptHandler) Delete(c *gin.Context) {
	if err := h.prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "Prompt", "delete prompt", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prompt deleted"})
}
