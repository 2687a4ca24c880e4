package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guesthouse/internal/modules/reservation"
	"guesthouse/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the login gate.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/login", h.Login)
}

// RegisterProtectedRoutes mounts the operator panel endpoints; the caller
// wraps them in the operator auth middleware.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/reservations", h.ListReservations)
	rg.PATCH("/admin/reservations/:id/status", h.UpdateStatus)
	rg.PATCH("/admin/reservations/:id/payment", h.UpdatePayment)
	rg.GET("/admin/blocked-dates", h.ListBlockedDates)
	rg.POST("/admin/blocked-dates", h.BlockDate)
	rg.DELETE("/admin/blocked-dates/:date", h.UnblockDate)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

func (h *Handler) ListReservations(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"reservations": h.service.ListReservations()})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch err {
		case reservation.ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown reservation status")
		case reservation.ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		case reservation.ErrOverlapConflict:
			response.Error(c, http.StatusConflict, "OVERLAP_CONFLICT", "Stay overlaps an approved reservation or blocked date")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update status")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.UpdatePayment(c.Request.Context(), c.Param("id"), req.PaidAmount)
	if err != nil {
		switch err {
		case reservation.ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		case reservation.ErrInvalidAmount:
			response.Error(c, http.StatusBadRequest, "INVALID_AMOUNT", "Paid amount must be between zero and the total price")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) ListBlockedDates(c *gin.Context) {
	days := h.service.ListBlockedDates()
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(reservation.DateFormat))
	}
	response.Success(c, http.StatusOK, gin.H{"blocked_dates": out})
}

func (h *Handler) BlockDate(c *gin.Context) {
	var req BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	day, err := time.Parse(reservation.DateFormat, req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		return
	}

	if err := h.service.BlockDate(c.Request.Context(), day); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to block date")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"date": day.Format(reservation.DateFormat), "blocked": true})
}

func (h *Handler) UnblockDate(c *gin.Context) {
	day, err := time.Parse(reservation.DateFormat, c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		return
	}

	if err := h.service.UnblockDate(c.Request.Context(), day); err != nil {
		switch err {
		case reservation.ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Date is not blocked")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to unblock date")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"date": day.Format(reservation.DateFormat), "blocked": false})
}
