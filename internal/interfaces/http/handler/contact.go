package handler

import (
	"github.com/d8nd8/python-final-diplom/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// ContactHandler manages the delivery contacts of the current user
type ContactHandler struct {
	BaseHandler
	contactService *identity.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *identity.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List godoc
// @ID           listContacts
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Success      200 {object} APIResponse[[]identity.ContactResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)
	contacts, err := h.contactService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// Create godoc
// @ID           createContact
// @Summary      Create contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body identity.ContactRequest true "Contact data"
// @Success      201 {object} APIResponse[identity.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req identity.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	contact, err := h.contactService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// Update godoc
// @ID           updateContact
// @Summary      Update contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id      path int                     true "Contact ID"
// @Param        request body identity.ContactRequest true "Contact data"
// @Success      200 {object} APIResponse[identity.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req identity.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	contact, err := h.contactService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// Delete godoc
// @ID           deleteContact
// @Summary      Delete contact
// @Tags         contacts
// @Param        id path int true "Contact ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	if err := h.contactService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
