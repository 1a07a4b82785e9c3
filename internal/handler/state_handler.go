package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/substitute-api/internal/service"
	"github.com/schoolops/substitute-api/pkg/response"
)

// StateHandler exposes the bulk state payload and its reload path.
type StateHandler struct {
	service *service.StateService
}

// NewStateHandler constructs a state handler.
func NewStateHandler(svc *service.StateService) *StateHandler {
	return &StateHandler{service: svc}
}

// Get godoc
// @Summary Get the full application state
// @Tags State
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /state [get]
func (h *StateHandler) Get(c *gin.Context) {
	state, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Reload godoc
// @Summary Re-fetch state from the remote store
// @Tags State
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /state/reload [post]
func (h *StateHandler) Reload(c *gin.Context) {
	state, err := h.service.Reload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}
