package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/apiserver/middleware"
	"github.com/countyai/cop-portal/pkg/favorites"
	"github.com/countyai/cop-portal/pkg/service"
)

type FavoritesHandler struct {
	favorites favorites.Store
	prompts   *service.PromptService
	logger    *zap.Logger
}

func NewFavoritesHandler(store favorites.Store, prompts *service.PromptService, logger *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{favorites: store, prompts: prompts, logger: logger}
}

func (h *FavoritesHandler) List(c *gin.Context) {
	h.respond(c, middleware.Actor(c))
}

func (h *FavoritesHandler) Add(c *gin.Context) {
	promptID := c.Param("promptId")
	if _, err := h.prompts.Get(c.Request.Context(), promptID); err != nil {
		respondError(c, h.logger, "Prompt", "fetch prompt", err)
		return
	}
	owner := middleware.Actor(c)
	if err := h.favorites.Add(c.Request.Context(), owner, promptID); err != nil {
		respondError(c, h.logger, "Favorite", "add favorite", err)
		return
	}
	h.respond(c, owner)
}

func (h *FavoritesHandler) Remove(c *gin.Context) {
	owner := middleware.Actor(c)
	if err := h.favorites.Remove(c.Request.Context(), owner, c.Param("promptId")); err != nil {
		respondError(c, h.logger, "Favorite", "remove favorite", err)
		return
	}
	h.respond(c, owner)
}

func (h *FavoritesHandler) respond(c *gin.Context, owner string) {
	ids, err := h.favorites.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, h.logger, "Favorite", "fetch favorites", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promptIds": ids})
}
