package reservation

// DateFormat is the wire format for day-granular dates.
const DateFormat = "2006-01-02"

type CreateReservationRequest struct {
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	GuestCount    int    `json:"guest_count" validate:"required,gt=0"`
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"required"`
}
