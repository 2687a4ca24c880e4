package offer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guesthouse/internal/pkg/response"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/offer", h.GetOffer)
	rg.POST("/offer/dismiss", h.DismissOffer)
	rg.POST("/offer/accept", h.AcceptOffer)
}

func (h *Handler) GetOffer(c *gin.Context) {
	response.Success(c, http.StatusOK, h.engine.View())
}

func (h *Handler) DismissOffer(c *gin.Context) {
	if err := h.engine.Dismiss(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to dismiss offer")
		return
	}
	response.Success(c, http.StatusOK, h.engine.View())
}

func (h *Handler) AcceptOffer(c *gin.Context) {
	h.engine.Accept()
	response.Success(c, http.StatusOK, h.engine.View())
}
