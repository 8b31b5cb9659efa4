package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/roi"
	"github.com/countyai/cop-portal/pkg/service"
	"github.com/countyai/cop-portal/pkg/store"
)

type ROIHandler struct {
	calcs  *service.ROIService
	logger *zap.Logger
}

func NewROIHandler(calcs *service.ROIService, logger *zap.Logger) *ROIHandler {
	return &ROIHandler{calcs: calcs, logger: logger}
}

type roiUpdateRequest struct {
	model.ROIPatch
	ID            json.RawMessage `json:"id"`
	SubmittedDate json.RawMessage `json:"submittedDate"`
	LinkedAt      json.RawMessage `json:"linkedAt"`
	Results       json.RawMessage `json:"results"`
}

// Calculate computes results without persisting anything.
func (h *ROIHandler) Calculate(c *gin.Context) {
	var in roi.Inputs
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.calcs.Calculate(in))
}

// Create saves a calculation. Client supplied results are ignored and
// recomputed from the inputs.
func (h *ROIHandler) Create(c *gin.Context) {
	var req service.SaveROIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	calc, err := h.calcs.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "ROI calculation", "save ROI calculation", err)
		return
	}
	c.JSON(http.StatusCreated, calc)
}

func (h *ROIHandler) List(c *gin.Context) {
	filter := store.ROIFilter{
		ProjectID: strings.TrimSpace(c.Query("projectId")),
		Page:      pageFromQuery(c),
	}
	calcs, err := h.calcs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "ROI calculation", "fetch ROI calculations", err)
		return
	}
	c.JSON(http.StatusOK, calcs)
}

func (h *ROIHandler) Get(c *gin.Context) {
	calc, err := h.calcs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "ROI calculation", "fetch ROI calculation", err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *ROIHandler) Update(c *gin.Context) {
	var req roiUpdateRequest
	if err := decodeStrict(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	calc, err := h.calcs.Update(c.Request.Context(), c.Param("id"), req.ROIPatch)
	if err != nil {
		respondError(c, h.logger, "ROI calculation", "update ROI calculation", err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *ROIHandler) Delete(c *gin.Context) {
	if err := h.calcs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "ROI calculation", "delete ROI calculation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ROI calculation deleted"})
}
