package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beautybar/infras/otel"
	"beautybar/internal/domains/service/model"
	"beautybar/internal/domains/service/model/dto"
	"beautybar/internal/domains/service/service"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/validator"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/response"
)

type Handler struct {
	service service.Service
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Service, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/services", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPublicServices)
	})

	router.Route("/admin/services", func(routerGroup chi.Router) {
		routerGroup.Use(handler.auth.AdminOnly)
		routerGroup.Post("/", handler.CreateService)
		routerGroup.Get("/", handler.GetServices)
		routerGroup.Get("/{id}", handler.GetServiceByID)
		routerGroup.Patch("/{id}", handler.UpdateService)
		routerGroup.Delete("/{id}", handler.DeleteService)
		routerGroup.Post("/{id}/add-ons", handler.CreateAddOn)
		routerGroup.Patch("/add-ons/{id}", handler.UpdateAddOn)
		routerGroup.Delete("/add-ons/{id}", handler.DeleteAddOn)
	})
}

// GetPublicServices lists the bookable catalog.
// @Summary List bookable services
// @Description Retrieve active services in display order, with their add-ons.
// @Tags Service
// @Produce json
// @Success 200 {object} response.Data[dto.GetServicesResponse] "List of services"
// @Failure 500 {object} response.Error
// @Router /v1/services [get]
func (handler *Handler) GetPublicServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublicServices")
	defer scope.End()

	services, err := handler.service.GetAllPublic(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// CreateService adds a service to the catalog.
// @Summary Create a service
// @Description Create a new service with price, duration and deposit.
// @Tags Service
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Create Service Request"
// @Success 201 {object} response.Data[dto.ServiceResponse] "Created service"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/services [post]
// @Security BearerAuth
func (handler *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateService")
	defer scope.End()

	req := dto.CreateServiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetServices lists the catalog for administration.
// @Summary Get all services
// @Description Retrieve all services, active or not, with optional filtering and pagination.
// @Tags Service
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param active query string false "Filter by active flag (true/false)"
// @Success 200 {object} response.Data[dto.GetServicesResponse] "List of services"
// @Failure 500 {object} response.Error
// @Router /v1/admin/services [get]
// @Security BearerAuth
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	category := r.URL.Query().Get(model.FieldCategory)
	active := r.URL.Query().Get(model.FieldActive)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
			Table:    model.TableName,
		})
	}

	if active != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    active == "true",
			Table:    model.TableName,
		})
	}

	services, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// GetServiceByID retrieves one service.
// @Summary Get a service by ID
// @Description Retrieve a service and its add-ons by its unique identifier.
// @Tags Service
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Data[dto.ServiceResponse] "Service details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/services/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	svc, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, svc)
}

// UpdateService patches a service.
// @Summary Update a service by ID
// @Description Update service fields; the deposit must stay within the price.
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Update Service Request"
// @Success 200 {object} response.Message "Service updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/services/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateServiceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service updated successfully")

	response.WithMessage(w, http.StatusOK, "Service updated successfully")
}

// DeleteService removes a service without active bookings.
// @Summary Delete a service by ID
// @Description Delete a service; refused while non-cancelled bookings reference it.
// @Tags Service
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Message "Service deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/services/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service deleted successfully")

	response.WithMessage(w, http.StatusOK, "Service deleted successfully")
}

// CreateAddOn attaches an add-on to a service.
// @Summary Create a service add-on
// @Description Create an optional extra under an existing service.
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.CreateAddOnRequest true "Create Add-On Request"
// @Success 201 {object} response.Data[dto.AddOnResponse] "Created add-on"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/services/{id}/add-ons [post]
// @Security BearerAuth
func (handler *Handler) CreateAddOn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAddOn")
	defer scope.End()

	serviceID := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateAddOnRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateAddOn(ctx, req, serviceID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create add-on")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Add-on created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// UpdateAddOn patches an add-on.
// @Summary Update a service add-on
// @Description Update an add-on's name or price.
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Add-On ID"
// @Param request body dto.UpdateAddOnRequest true "Update Add-On Request"
// @Success 200 {object} response.Message "Add-on updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/services/add-ons/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAddOn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAddOn")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateAddOnRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateAddOn(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update add-on")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Add-on updated successfully")
}

// DeleteAddOn removes an add-on.
// @Summary Delete a service add-on
// @Description Delete an add-on by its unique identifier.
// @Tags Service
// @Produce json
// @Param id path string true "Add-On ID"
// @Success 200 {object} response.Message "Add-on deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/services/add-ons/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAddOn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAddOn")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.DeleteAddOn(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete add-on")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Add-on deleted successfully")
}
