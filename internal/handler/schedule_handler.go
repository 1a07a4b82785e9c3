package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/substitute-api/internal/service"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
	"github.com/schoolops/substitute-api/pkg/response"
)

// ScheduleHandler handles timetable endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Upsert godoc
// @Summary Create or overwrite a timetable entry
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.UpsertScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	var req service.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Delete godoc
// @Summary Delete a timetable entry
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
