package reservation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guesthouse/internal/modules/pricing"
	"guesthouse/internal/pkg/response"
	"guesthouse/internal/pkg/validator"
)

// Handler is the public booking surface consumed by the visitor-facing
// widget: submit a stay, probe availability, fetch a price quote.
type Handler struct {
	store  *Store
	quoter *pricing.Quoter
}

func NewHandler(store *Store, quoter *pricing.Quoter) *Handler {
	return &Handler{store: store, quoter: quoter}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reservations", h.CreateReservation)
	rg.GET("/availability/:date", h.GetAvailability)
	rg.GET("/quote", h.GetQuote)
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation fields", fields)
		return
	}

	start, err := time.Parse(DateFormat, req.StartDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid start_date")
		return
	}
	end, err := time.Parse(DateFormat, req.EndDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid end_date")
		return
	}

	days := pricing.TotalDays(start, end)
	base := pricing.BasePrice(days, pricing.DailyRate)

	r, err := h.store.AddReservation(c.Request.Context(), NewReservation{
		StartDate:     start,
		EndDate:       end,
		GuestCount:    req.GuestCount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		BasePrice:     base,
	})
	if err != nil {
		switch err {
		case ErrInvalidRange, ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid stay dates or contact details")
		case ErrDateUnavailable:
			response.Error(c, http.StatusConflict, "DATE_UNAVAILABLE", "Selected dates are not available")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create reservation")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reservation": r})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	day, err := time.Parse(DateFormat, c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"date":      day.Format(DateFormat),
		"available": h.store.IsDateAvailable(day),
	})
}

func (h *Handler) GetQuote(c *gin.Context) {
	var start, end time.Time
	var err error

	if v := c.Query("start"); v != "" {
		if start, err = time.Parse(DateFormat, v); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid start date")
			return
		}
	}
	if v := c.Query("end"); v != "" {
		if end, err = time.Parse(DateFormat, v); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid end date")
			return
		}
	}

	// Missing endpoints quote as zero days / zero price by design.
	response.Success(c, http.StatusOK, h.quoter.Quote(start, end))
}
