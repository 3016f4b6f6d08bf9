package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beautybar/infras/jwt"
	"beautybar/infras/otel"
	"beautybar/internal/domains/auth/model/dto"
	"beautybar/internal/domains/auth/service"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/validator"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/response"
)

type Handler struct {
	service service.Auth
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Auth, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/auth", func(routerGroup chi.Router) {
		routerGroup.Post("/login", handler.Login)
		routerGroup.Post("/refresh", handler.Refresh)
		routerGroup.Get("/session", handler.Session)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(handler.auth.AdminOnly)
			protected.Post("/change-password", handler.ChangePassword)
		})
	})
}

// Login authenticates the admin account.
// @Summary Admin login
// @Description Exchange the admin email and password for a token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse] "Token pair"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to login")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Admin logged in successfully")

	response.WithJSON(writer, http.StatusOK, res)
}

// Refresh exchanges a refresh token for a fresh pair.
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse] "Token pair"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/refresh [post]
func (handler *Handler) Refresh(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Refresh")
	defer scope.End()

	req := dto.RefreshTokenRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refresh token")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Session resolves the bearer token to the identity it carries.
// @Summary Current session
// @Description Return the identity behind the presented access token.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Data[dto.SessionResponse] "Session identity"
// @Failure 401 {object} response.Error
// @Router /v1/auth/session [get]
// @Security BearerAuth
func (handler *Handler) Session(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Session")
	defer scope.End()

	authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
	if authHeader == "" {
		err := failure.Unauthorized("Missing authorization header")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
	if err != nil {
		err = failure.Unauthorized("Invalid authorization header format")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Session(ctx, tokenString)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ChangePassword rotates the admin password.
// @Summary Change admin password
// @Description Verify the current password and store a new one.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message "Password changed successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	req := dto.ChangePasswordRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.ChangePassword(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change password")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Admin password changed successfully")

	response.WithMessage(writer, http.StatusOK, "Password changed successfully")
}
