package config

const (
	EnvPrefix = "EFADMIN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "EFADMIN_APP_ENV"
	EnvPort     = "EFADMIN_APP_PORT"
	EnvLogLevel = "EFADMIN_LOG_LEVEL"

	EnvBackendURL = "EFADMIN_BACKEND_URL"
	// EnvBackendURLPublic is the variable the admin SPA build reads; honoured as a fallback.
	EnvBackendURLPublic = "NEXT_PUBLIC_API_URL"
	DefaultBackendURL   = "http://localhost:4000/api"

	EnvDBDSN  = "EFADMIN_DB_DSN"
	EnvDBHost = "EFADMIN_DB_HOST"
	EnvDBUser = "EFADMIN_DB_USER"
	EnvDBName = "EFADMIN_DB_NAME"

	EnvRedisURL = "EFADMIN_REDIS_URL"

	EnvJWTSecret               = "EFADMIN_JWT_SECRET"
	EnvJWTIssuer               = "EFADMIN_JWT_ISSUER"
	EnvJWTExpMins              = "EFADMIN_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "EFADMIN_REFRESH_TOKEN_TTL_MINUTES"
	EnvServiceAccountEmail     = "EFADMIN_SERVICE_ACCOUNT_EMAIL"
	EnvServiceAccountPassword  = "EFADMIN_SERVICE_ACCOUNT_PASSWORD"
	EnvCronInterval            = "EFADMIN_CRON_INTERVAL"
	EnvAuditRetentionDays      = "EFADMIN_AUDIT_RETENTION_DAYS"
	EnvListViewDebounce        = "EFADMIN_LISTVIEW_DEBOUNCE"
	EnvCORSAllowedOrigins      = "EFADMIN_CORS_ALLOWED_ORIGINS"
	EnvBackendFetchLimit       = "EFADMIN_BACKEND_FETCH_LIMIT"
	EnvUseSQLite               = "EFADMIN_USE_SQLITE"
	EnvDashboardSnapshotMaxAge = "EFADMIN_DASHBOARD_SNAPSHOT_MAX_AGE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
