package config

const (
	EnvPrefix = "ORMEE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageBackendMemory   = "memory"
	StorageBackendRedis    = "redis"
	StorageBackendPostgres = "postgres"
	StorageBackendSQLite   = "sqlite"

	EnvAppEnv         = "ORMEE_APP_ENV"
	EnvPort           = "ORMEE_APP_PORT"
	EnvStorageBackend = "ORMEE_STORAGE_BACKEND"
	EnvDBDSN          = "ORMEE_DB_DSN"
	EnvDBHost         = "ORMEE_DB_HOST"
	EnvDBUser         = "ORMEE_DB_USER"
	EnvDBName         = "ORMEE_DB_NAME"
	EnvRedisURL       = "ORMEE_REDIS_URL"
	EnvRedisAddr      = "ORMEE_REDIS_ADDR"
	EnvTaxRatePercent = "ORMEE_TAX_RATE_PERCENT"
	EnvOrdersEndpoint = "ORMEE_ORDERS_ENDPOINT"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
