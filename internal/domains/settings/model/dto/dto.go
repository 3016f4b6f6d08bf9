package dto

import (
	"beautybar/internal/domains/settings/model"
)

// BookingConfig is the typed slice of settings the slot generator and the
// admission protocol consume, defaults already resolved.
type BookingConfig struct {
	OpenTime           string
	CloseTime          string
	SlotIntervalMin    int
	DefaultPrice       float64
	DefaultDeposit     float64
	SMSNotificationFee float64
}

func (c *BookingConfig) FromModel(mod model.Settings) {
	c.OpenTime = mod.OpenTime
	c.CloseTime = mod.CloseTime
	c.SlotIntervalMin = mod.SlotIntervalMin
	c.DefaultPrice = mod.DefaultPrice
	c.DefaultDeposit = mod.DefaultDeposit
	c.SMSNotificationFee = mod.SMSNotificationFee

	if c.OpenTime == "" {
		c.OpenTime = model.DefaultOpenTime
	}

	if c.CloseTime == "" {
		c.CloseTime = model.DefaultCloseTime
	}

	if c.SlotIntervalMin <= 0 {
		c.SlotIntervalMin = model.DefaultSlotIntervalMin
	}

	if c.SMSNotificationFee <= 0 {
		c.SMSNotificationFee = model.DefaultSMSNotificationFee
	}
}

// PublicSettingsResponse is the subset safe to show the booking page.
type PublicSettingsResponse struct {
	BusinessName       string  `json:"business_name"`
	OpenTime           string  `json:"open_time"`
	CloseTime          string  `json:"close_time"`
	SlotIntervalMin    int     `json:"slot_interval_min"`
	SMSNotificationFee float64 `json:"sms_notification_fee"`
	PaymentsEnabled    bool    `json:"payments_enabled"`
}

func (r *PublicSettingsResponse) FromModel(mod model.Settings, paymentsEnabled bool) {
	cfg := BookingConfig{}
	cfg.FromModel(mod)

	r.BusinessName = mod.BusinessName
	r.OpenTime = cfg.OpenTime
	r.CloseTime = cfg.CloseTime
	r.SlotIntervalMin = cfg.SlotIntervalMin
	r.SMSNotificationFee = cfg.SMSNotificationFee
	r.PaymentsEnabled = paymentsEnabled
}

// SettingsResponse is the admin view. Stored Stripe secrets are reported as
// present or absent, never echoed back.
type SettingsResponse struct {
	BusinessName        string  `json:"business_name"`
	OpenTime            string  `json:"open_time"`
	CloseTime           string  `json:"close_time"`
	SlotIntervalMin     int     `json:"slot_interval_min"`
	DefaultPrice        float64 `json:"default_price"`
	DefaultDeposit      float64 `json:"default_deposit"`
	SMSNotificationFee  float64 `json:"sms_notification_fee"`
	StripeKeyStored     bool    `json:"stripe_key_stored"`
	StripeWebhookStored bool    `json:"stripe_webhook_stored"`
	AdminEmail          string  `json:"admin_email"`
}

func (r *SettingsResponse) FromModel(mod model.Settings) {
	cfg := BookingConfig{}
	cfg.FromModel(mod)

	r.BusinessName = mod.BusinessName
	r.OpenTime = cfg.OpenTime
	r.CloseTime = cfg.CloseTime
	r.SlotIntervalMin = cfg.SlotIntervalMin
	r.DefaultPrice = mod.DefaultPrice
	r.DefaultDeposit = mod.DefaultDeposit
	r.SMSNotificationFee = cfg.SMSNotificationFee
	r.StripeKeyStored = mod.StripeSecretKey != nil && *mod.StripeSecretKey != ""
	r.StripeWebhookStored = mod.StripeWebhookSecret != nil && *mod.StripeWebhookSecret != ""
	r.AdminEmail = mod.AdminEmail
}

type UpdateSettingsRequest struct {
	BusinessName        *string  `db:"business_name"         json:"business_name"         validate:"omitempty,max=200"`
	OpenTime            string   `db:"open_time"             json:"open_time"             validate:"omitempty,timeofday"`
	CloseTime           string   `db:"close_time"            json:"close_time"            validate:"omitempty,timeofday"`
	SlotIntervalMin     *int     `db:"slot_interval_min"     json:"slot_interval_min"     validate:"omitempty,gte=5,lte=240"`
	DefaultPrice        *float64 `db:"default_price"         json:"default_price"         validate:"omitempty,gte=0"`
	DefaultDeposit      *float64 `db:"default_deposit"       json:"default_deposit"       validate:"omitempty,gte=0"`
	SMSNotificationFee  *float64 `db:"sms_notification_fee"  json:"sms_notification_fee"  validate:"omitempty,gte=0"`
	StripeSecretKey     *string  `db:"stripe_secret_key"     json:"stripe_secret_key"     validate:"omitempty"`
	StripeWebhookSecret *string  `db:"stripe_webhook_secret" json:"stripe_webhook_secret" validate:"omitempty"`
	AdminEmail          *string  `db:"admin_email"           json:"admin_email"           validate:"omitempty,email,max=254"`
}
