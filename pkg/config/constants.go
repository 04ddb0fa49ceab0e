package config

const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "TAXREPORTER_APP_ENV"
	EnvDBDSN  = "TAXREPORTER_DB_DSN"
	EnvDBHost = "TAXREPORTER_DB_HOST"
	EnvDBUser = "TAXREPORTER_DB_USER"
	EnvDBName = "TAXREPORTER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
