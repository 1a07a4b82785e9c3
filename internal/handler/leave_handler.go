package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/substitute-api/internal/service"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
	"github.com/schoolops/substitute-api/pkg/response"
)

// LeaveHandler handles leave request endpoints.
type LeaveHandler struct {
	service *service.LeaveService
}

// NewLeaveHandler constructs a leave handler.
func NewLeaveHandler(svc *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// Create godoc
// @Summary File a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param payload body service.CreateLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	var req service.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	leave, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// Update godoc
// @Summary Update a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body service.UpdateLeaveRequest true "Leave payload"
// @Success 200 {object} response.Envelope
// @Router /leaves/{id} [put]
func (h *LeaveHandler) Update(c *gin.Context) {
	var req service.UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	leave, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// Delete godoc
// @Summary Delete a leave request and its substitute assignments
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 204
// @Router /leaves/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Approve godoc
// @Summary Approve a leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 204
// @Router /leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	if err := h.service.Approve(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reject godoc
// @Summary Reject a leave request
// @Tags Leaves
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 204
// @Router /leaves/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	if err := h.service.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
