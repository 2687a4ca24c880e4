package admin

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentRequest struct {
	PaidAmount float64 `json:"paid_amount"`
}

type BlockDateRequest struct {
	Date string `json:"date" binding:"required"`
}
