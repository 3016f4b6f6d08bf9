package dto

type CreateCheckoutRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Type      string `json:"type"       validate:"required,oneof=deposit balance"`
}

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type VerifySessionResponse struct {
	BookingID     string `json:"booking_id"`
	Type          string `json:"type"`
	Paid          bool   `json:"paid"`
	BookingStatus string `json:"booking_status"`
}

type RefundRequest struct {
	Type string `json:"type" validate:"required,oneof=deposit balance"`
}
