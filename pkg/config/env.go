package config

// EnvPrefix is the envconfig prefix applied to all variables.
const EnvPrefix = "ATELIER"

// App environment values accepted by AppConfig.Env.
const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv    = "ATELIER_APP_ENV"
	EnvPort      = "ATELIER_APP_PORT"
	EnvDBDSN     = "ATELIER_DB_DSN"
	EnvDBHost    = "ATELIER_DB_HOST"
	EnvDBUser    = "ATELIER_DB_USER"
	EnvDBName    = "ATELIER_DB_NAME"
	EnvRedisURL  = "ATELIER_REDIS_URL"
	EnvJWTSecret = "ATELIER_JWT_SECRET"
	EnvJWTIssuer = "ATELIER_JWT_ISSUER"
	EnvJWTExpMin = "ATELIER_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
