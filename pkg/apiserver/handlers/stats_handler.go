package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/service"
)

type StatsHandler struct {
	stats  *service.StatsService
	logger *zap.Logger
}

func NewStatsHandler(stats *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

func (h *StatsHandler) Get(c *gin.Context) {
	report, err := h.stats.Report(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, "Stats", "fetch admin stats", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
