package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/substitute-api/internal/service"
	appErrors "github.com/schoolops/substitute-api/pkg/errors"
	"github.com/schoolops/substitute-api/pkg/response"
)

// AvailabilityHandler handles substitute availability lookups.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs an availability handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Find godoc
// @Summary Find available substitute teachers
// @Tags Availability
// @Produce json
// @Param date query string true "Target date (any common date format)"
// @Param period query int true "Period number"
// @Param subject query string false "Required subject id"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Find(c *gin.Context) {
	var query service.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	candidates, err := h.service.Find(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}
