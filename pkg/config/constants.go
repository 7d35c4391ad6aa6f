package config

const EnvPrefix = "VAULT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageDriverGCS = "gcs"
	StorageDriverCOS = "cos"
)

const (
	EnvAppEnv        = "VAULT_APP_ENV"
	EnvPort          = "VAULT_APP_PORT"
	EnvDBDSN         = "VAULT_DB_DSN"
	EnvDBDriver      = "VAULT_DB_DRIVER"
	EnvDBHost        = "VAULT_DB_HOST"
	EnvDBUser        = "VAULT_DB_USER"
	EnvDBName        = "VAULT_DB_NAME"
	EnvRedisURL      = "VAULT_REDIS_URL"
	EnvStorageDriver = "VAULT_STORAGE_DRIVER"
	EnvStorageBucket = "VAULT_STORAGE_BUCKET"
	EnvAuthJWTSecret = "VAULT_AUTH_JWT_SECRET"
	EnvAuthDisabled  = "VAULT_AUTH_DISABLED"
	EnvUploadTimeout = "VAULT_MEDIA_UPLOAD_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
