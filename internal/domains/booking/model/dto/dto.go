package dto

import (
	"time"

	"github.com/google/uuid"

	"beautybar/internal/domains/booking/model"
	"beautybar/shared"
	"beautybar/shared/constant"
	gModel "beautybar/shared/model"
	"beautybar/shared/timezone"
)

type CreateBookingRequest struct {
	ServiceID     string  `json:"service_id"      validate:"required"`
	CustomerName  string  `json:"customer_name"   validate:"required,max=200"`
	CustomerEmail string  `json:"customer_email"  validate:"omitempty,email,max=254"`
	CustomerPhone string  `json:"customer_phone"  validate:"omitempty,max=30"`
	BookingDate   string  `json:"booking_date"    validate:"required,date"`
	StartTime     string  `json:"start_time"      validate:"required,timeofday"`
	EndTime       string  `json:"end_time"        validate:"required,timeofday"`
	DepositAmount float64 `json:"deposit_amount"  validate:"omitempty,gte=0"`
	NotifyByEmail bool    `json:"notify_by_email"`
	NotifyBySMS   bool    `json:"notify_by_sms"`
	Notes         string  `json:"notes"           validate:"omitempty,max=2000"`
}

// ToModel builds the pending booking with the service snapshot taken at
// admission time. The deposit passed in already carries any SMS surcharge.
func (c *CreateBookingRequest) ToModel(serviceName string, servicePrice, deposit float64) (model.Booking, error) {
	bookingDate, err := timezone.Parse(constant.DateFormat, c.BookingDate)
	if err != nil {
		return model.Booking{}, err
	}

	startTime, err := timezone.Parse(constant.TimeFormat, c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	endTime, err := timezone.Parse(constant.TimeFormat, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:            uuid.NewString(),
		ServiceID:     c.ServiceID,
		ServiceName:   serviceName,
		ServicePrice:  servicePrice,
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,
		BookingDate:   bookingDate,
		StartTime:     startTime,
		EndTime:       endTime,
		DepositAmount: deposit,
		Status:        constant.BookingStatusPendingDeposit,
		NotifyByEmail: c.NotifyByEmail,
		NotifyBySMS:   c.NotifyBySMS,
		Notes:         c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type BookingResponse struct {
	ID                string  `json:"id"`
	ServiceID         string  `json:"service_id"`
	ServiceName       string  `json:"service_name"`
	ServicePrice      float64 `json:"service_price"`
	CustomerName      string  `json:"customer_name"`
	CustomerEmail     string  `json:"customer_email"`
	CustomerPhone     string  `json:"customer_phone"`
	BookingDate       string  `json:"booking_date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	DepositAmount     float64 `json:"deposit_amount"`
	Status            string  `json:"status"`
	NotifyByEmail     bool    `json:"notify_by_email"`
	NotifyBySMS       bool    `json:"notify_by_sms"`
	Notes             string  `json:"notes"`
	BalancePaidOnline bool    `json:"balance_paid_online"`
	DepositRefundedAt *string `json:"deposit_refunded_at"`
	BalanceRefundedAt *string `json:"balance_refunded_at"`
	ReminderSentAt    *string `json:"reminder_sent_at"`
	CreatedAt         string  `json:"created_at"`
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.ServiceID = mod.ServiceID
	r.ServiceName = mod.ServiceName
	r.ServicePrice = mod.ServicePrice
	r.CustomerName = mod.CustomerName
	r.CustomerEmail = mod.CustomerEmail
	r.CustomerPhone = mod.CustomerPhone
	r.BookingDate = mod.BookingDate.Format(constant.DateFormat)
	r.StartTime = mod.StartTime.Format(constant.TimeFormat)
	r.EndTime = mod.EndTime.Format(constant.TimeFormat)
	r.DepositAmount = mod.DepositAmount
	r.Status = mod.Status
	r.NotifyByEmail = mod.NotifyByEmail
	r.NotifyBySMS = mod.NotifyBySMS
	r.Notes = mod.Notes
	r.BalancePaidOnline = mod.BalancePaidOnline
	r.DepositRefundedAt = formatTimestamp(mod.DepositRefundedAt)
	r.BalanceRefundedAt = formatTimestamp(mod.BalanceRefundedAt)
	r.ReminderSentAt = formatTimestamp(mod.ReminderSentAt)
	r.CreatedAt = mod.CreatedAt.Format(constant.TimestampFormat)
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := t.Format(constant.TimestampFormat)

	return &formatted
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
