package dto

import (
	"github.com/google/uuid"

	"beautybar/internal/domains/service/model"
	"beautybar/shared"
	gModel "beautybar/shared/model"
	"beautybar/shared/timezone"
)

type CreateServiceRequest struct {
	Name          string  `json:"name"           validate:"required,max=200"`
	Category      string  `json:"category"       validate:"omitempty,max=100"`
	Description   string  `json:"description"    validate:"omitempty,max=2000"`
	DurationMin   int     `json:"duration_min"   validate:"required,gte=1"`
	Price         float64 `json:"price"          validate:"gte=0"`
	DepositAmount float64 `json:"deposit_amount" validate:"gte=0"`
	Active        *bool   `json:"active"         validate:"omitempty"`
	Position      int     `json:"position"       validate:"omitempty,gte=0"`
}

func (c *CreateServiceRequest) ToModel() model.Service {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Service{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Category:      c.Category,
		Description:   c.Description,
		DurationMin:   c.DurationMin,
		Price:         c.Price,
		DepositAmount: c.DepositAmount,
		Active:        active,
		Position:      c.Position,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

type UpdateServiceRequest struct {
	Name          string   `db:"name"           json:"name"           validate:"omitempty,max=200"`
	Category      *string  `db:"category"       json:"category"       validate:"omitempty,max=100"`
	Description   *string  `db:"description"    json:"description"    validate:"omitempty,max=2000"`
	DurationMin   int      `db:"duration_min"   json:"duration_min"   validate:"omitempty,gte=1"`
	Price         *float64 `db:"price"          json:"price"          validate:"omitempty,gte=0"`
	DepositAmount *float64 `db:"deposit_amount" json:"deposit_amount" validate:"omitempty,gte=0"`
	Active        *bool    `db:"active"         json:"active"         validate:"omitempty"`
	Position      *int     `db:"display_order"  json:"position"       validate:"omitempty,gte=0"`
}

type AddOnResponse struct {
	ID        string  `json:"id"`
	ServiceID string  `json:"service_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

func (r *AddOnResponse) FromModel(mod model.AddOn) {
	r.ID = mod.ID
	r.ServiceID = mod.ServiceID
	r.Name = mod.Name
	r.Price = mod.Price
}

type ServiceResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	DurationMin   int             `json:"duration_min"`
	Price         float64         `json:"price"`
	DepositAmount float64         `json:"deposit_amount"`
	Active        bool            `json:"active"`
	Position      int             `json:"position"`
	AddOns        []AddOnResponse `json:"add_ons"`
}

func (r *ServiceResponse) FromModel(mod model.Service, addOns []model.AddOn) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Category = mod.Category
	r.Description = mod.Description
	r.DurationMin = mod.DurationMin
	r.Price = mod.Price
	r.DepositAmount = mod.DepositAmount
	r.Active = mod.Active
	r.Position = mod.Position

	r.AddOns = make([]AddOnResponse, len(addOns))
	for i, addOn := range addOns {
		r.AddOns[i].FromModel(addOn)
	}
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, addOns map[string][]model.AddOn, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod, addOns[mod.ID])
	}
}

type CreateAddOnRequest struct {
	Name  string  `json:"name"  validate:"required,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
}

func (c *CreateAddOnRequest) ToModel(serviceID string) model.AddOn {
	return model.AddOn{
		ID:        uuid.NewString(),
		ServiceID: serviceID,
		Name:      c.Name,
		Price:     c.Price,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

type UpdateAddOnRequest struct {
	Name  string   `db:"name"  json:"name"  validate:"omitempty,max=200"`
	Price *float64 `db:"price" json:"price" validate:"omitempty,gte=0"`
}
