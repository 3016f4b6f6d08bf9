package dto

import "beautybar/internal/slots"

type GetSlotsResponse struct {
	Date      string       `json:"date"`
	ServiceID string       `json:"service_id"`
	Slots     []slots.Slot `json:"slots"`
}

type DayAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

type GetAvailabilityResponse struct {
	ServiceID string            `json:"service_id"`
	Days      []DayAvailability `json:"days"`
}
