package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/substitute-api/internal/service"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
	"github.com/schoolops/substitute-api/pkg/response"
)

// SubstituteHandler handles substitute assignment endpoints.
type SubstituteHandler struct {
	service *service.SubstituteService
}

// NewSubstituteHandler constructs a substitute handler.
func NewSubstituteHandler(svc *service.SubstituteService) *SubstituteHandler {
	return &SubstituteHandler{service: svc}
}

// Assign godoc
// @Summary Assign a substitute to a period
// @Tags Substitutes
// @Accept json
// @Produce json
// @Param payload body service.AssignSubstituteRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /subs [post]
func (h *SubstituteHandler) Assign(c *gin.Context) {
	var req service.AssignSubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sub, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// Reassign godoc
// @Summary Reassign a period to a different substitute
// @Tags Substitutes
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.AssignSubstituteRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /subs/{id} [put]
func (h *SubstituteHandler) Reassign(c *gin.Context) {
	var req service.AssignSubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sub, err := h.service.Reassign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// Delete godoc
// @Summary Withdraw a substitute assignment
// @Tags Substitutes
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /subs/{id} [delete]
func (h *SubstituteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Respond godoc
// @Summary Record the substitute's acceptance or rejection
// @Tags Substitutes
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.RespondRequest true "Response payload"
// @Success 204
// @Router /subs/{id}/respond [post]
func (h *SubstituteHandler) Respond(c *gin.Context) {
	var req service.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Respond(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
