package model

import (
	"beautybar/shared/model"
)

const (
	TableName  = "services"
	EntityName = "service"

	FieldID            = "id"
	FieldName          = "name"
	FieldCategory      = "category"
	FieldDescription   = "description"
	FieldDurationMin   = "duration_min"
	FieldPrice         = "price"
	FieldDepositAmount = "deposit_amount"
	FieldActive        = "active"
	FieldPosition      = "display_order"
)

const (
	AddOnTableName  = "service_add_ons"
	AddOnEntityName = "service_add_on"

	AddOnFieldID        = "id"
	AddOnFieldServiceID = "service_id"
	AddOnFieldName      = "name"
	AddOnFieldPrice     = "price"
)

type Service struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Category      string  `db:"category"`
	Description   string  `db:"description"`
	DurationMin   int     `db:"duration_min"`
	Price         float64 `db:"price"`
	DepositAmount float64 `db:"deposit_amount"`
	Active        bool    `db:"active"`
	Position      int     `db:"display_order"`
	model.Metadata
}

type AddOn struct {
	ID        string  `db:"id"`
	ServiceID string  `db:"service_id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	model.Metadata
}
