package constant

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleAdmin = "admin"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID        = "id"
	RequestParamDate      = "date"
	RequestParamFrom      = "from"
	RequestParamTo        = "to"
	RequestParamServiceID = "service_id"
	RequestParamSecret    = "secret"
	RequestParamSessionID = "session_id"
	RequestParamBookingID = "booking_id"
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	MaxValueLimit       = 100
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	FieldCreatedAt  = "created_at"
	FieldModifiedAt = "modified_at"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

// Wire formats for calendar dates and times of day. All times are
// interpreted in the single business timezone, never converted.
const (
	DateFormat      = "2006-01-02"
	TimeFormat      = "15:04"
	DateTimeFormat  = "2006-01-02T15:04"
	TimestampFormat = "2006-01-02T15:04:05Z07:00"
)

const (
	BookingStatusPendingDeposit = "pending_deposit"
	BookingStatusConfirmed      = "confirmed"
	BookingStatusCancelled      = "cancelled"
)

const (
	PaymentLegDeposit = "deposit"
	PaymentLegBalance = "balance"
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelExternalScopeName   = "external"
	OtelNotifierScopeName   = "notifier"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderStripeSignature    = "Stripe-Signature"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	SettingsSingletonID = "default"
)

const (
	Asterix = "*"
	Empty   = ""
)
