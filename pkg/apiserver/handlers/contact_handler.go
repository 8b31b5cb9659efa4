package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/service"
	"github.com/countyai/cop-portal/pkg/store"
)

type ContactHandler struct {
	contacts *service.ContactService
	logger   *zap.Logger
}

func NewContactHandler(contacts *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// contactUpdateRequest only moderates: the message itself is read and dropped.
type contactUpdateRequest struct {
	model.ContactPatch
	ID            json.RawMessage `json:"id"`
	SubmittedDate json.RawMessage `json:"submittedDate"`
	Name          json.RawMessage `json:"name"`
	Email         json.RawMessage `json:"email"`
	Department    json.RawMessage `json:"department"`
	Subject       json.RawMessage `json:"subject"`
	Message       json.RawMessage `json:"message"`
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contact, err := h.contacts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "Contact", "submit contact form", err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) List(c *gin.Context) {
	filter := store.ContactFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Page:   pageFromQuery(c),
	}
	contacts, err := h.contacts.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Contact", "fetch contacts", err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contacts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Contact", "fetch contact", err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var req contactUpdateRequest
	if err := decodeStrict(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	contact, err := h.contacts.Update(c.Request.Context(), c.Param("id"), req.ContactPatch)
	if err != nil {
		respondError(c, h.logger, "Contact", "update contact", err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "Contact", "delete contact", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
