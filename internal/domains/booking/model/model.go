package model

import (
	"time"

	"beautybar/shared/constant"
	"beautybar/shared/model"
	"beautybar/shared/timerange"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                     = "id"
	FieldServiceID              = "service_id"
	FieldServiceName            = "service_name"
	FieldServicePrice           = "service_price"
	FieldCustomerName           = "customer_name"
	FieldCustomerEmail          = "customer_email"
	FieldCustomerPhone          = "customer_phone"
	FieldBookingDate            = "booking_date"
	FieldStartTime              = "start_time"
	FieldEndTime                = "end_time"
	FieldDepositAmount          = "deposit_amount"
	FieldStatus                 = "status"
	FieldNotifyByEmail          = "notify_by_email"
	FieldNotifyBySMS            = "notify_by_sms"
	FieldNotes                  = "notes"
	FieldBalancePaidOnline      = "balance_paid_online"
	FieldStripeDepositPaymentID = "stripe_deposit_payment_id"
	FieldStripeBalancePaymentID = "stripe_balance_payment_id"
	FieldDepositRefundedAt      = "deposit_refunded_at"
	FieldBalanceRefundedAt      = "balance_refunded_at"
	FieldReminderSentAt         = "reminder_sent_at"
)

type Booking struct {
	ID                     string     `db:"id"`
	ServiceID              string     `db:"service_id"`
	ServiceName            string     `db:"service_name"`
	ServicePrice           float64    `db:"service_price"`
	CustomerName           string     `db:"customer_name"`
	CustomerEmail          string     `db:"customer_email"`
	CustomerPhone          string     `db:"customer_phone"`
	BookingDate            time.Time  `db:"booking_date"`
	StartTime              time.Time  `db:"start_time"`
	EndTime                time.Time  `db:"end_time"`
	DepositAmount          float64    `db:"deposit_amount"`
	Status                 string     `db:"status"`
	NotifyByEmail          bool       `db:"notify_by_email"`
	NotifyBySMS            bool       `db:"notify_by_sms"`
	Notes                  string     `db:"notes"`
	BalancePaidOnline      bool       `db:"balance_paid_online"`
	StripeDepositPaymentID *string    `db:"stripe_deposit_payment_id"`
	StripeBalancePaymentID *string    `db:"stripe_balance_payment_id"`
	DepositRefundedAt      *time.Time `db:"deposit_refunded_at"`
	BalanceRefundedAt      *time.Time `db:"balance_refunded_at"`
	ReminderSentAt         *time.Time `db:"reminder_sent_at"`
	model.Metadata
}

// Interval resolves the booking to an absolute half-open range in the
// business timezone.
func (b Booking) Interval() (timerange.Range, error) {
	return timerange.New(
		b.BookingDate.Format(constant.DateFormat),
		b.StartTime.Format(constant.TimeFormat),
		b.EndTime.Format(constant.TimeFormat),
	)
}

// StartsAt resolves the appointment start instant, used by the reminder
// sweep.
func (b Booking) StartsAt() (time.Time, error) {
	return timerange.At(
		b.BookingDate.Format(constant.DateFormat),
		b.StartTime.Format(constant.TimeFormat),
	)
}
