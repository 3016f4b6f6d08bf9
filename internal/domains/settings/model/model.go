package model

import (
	"beautybar/shared/model"
)

const (
	TableName  = "business_settings"
	EntityName = "settings"

	FieldID                  = "id"
	FieldBusinessName        = "business_name"
	FieldOpenTime            = "open_time"
	FieldCloseTime           = "close_time"
	FieldSlotIntervalMin     = "slot_interval_min"
	FieldDefaultPrice        = "default_price"
	FieldDefaultDeposit      = "default_deposit"
	FieldSMSNotificationFee  = "sms_notification_fee"
	FieldStripeSecretKey     = "stripe_secret_key"
	FieldStripeWebhookSecret = "stripe_webhook_secret"
	FieldAdminEmail          = "admin_email"
	FieldAdminPasswordHash   = "admin_password_hash"
)

// Fallbacks applied when the singleton row leaves a field empty.
const (
	DefaultOpenTime           = "09:00"
	DefaultCloseTime          = "17:00"
	DefaultSlotIntervalMin    = 30
	DefaultSMSNotificationFee = 0.05
)

type Settings struct {
	ID                  string  `db:"id"`
	BusinessName        string  `db:"business_name"`
	OpenTime            string  `db:"open_time"`
	CloseTime           string  `db:"close_time"`
	SlotIntervalMin     int     `db:"slot_interval_min"`
	DefaultPrice        float64 `db:"default_price"`
	DefaultDeposit      float64 `db:"default_deposit"`
	SMSNotificationFee  float64 `db:"sms_notification_fee"`
	StripeSecretKey     *string `db:"stripe_secret_key"`
	StripeWebhookSecret *string `db:"stripe_webhook_secret"`
	AdminEmail          string  `db:"admin_email"`
	AdminPasswordHash   string  `db:"admin_password_hash"`
	model.Metadata
}
