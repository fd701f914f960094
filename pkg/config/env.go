package config

const EnvPrefix = "BLEUPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "BLEUPOS_APP_ENV"
	EnvPort     = "BLEUPOS_APP_PORT"
	EnvLogLevel = "BLEUPOS_LOG_LEVEL"

	EnvDBDSN    = "BLEUPOS_DB_DSN"
	EnvDBDriver = "BLEUPOS_DB_DRIVER"
	EnvDBHost   = "BLEUPOS_DB_HOST"
	EnvDBUser   = "BLEUPOS_DB_USER"
	EnvDBName   = "BLEUPOS_DB_NAME"

	EnvRedisURL = "BLEUPOS_REDIS_URL"

	EnvIdentityBaseURL = "BLEUPOS_IDENTITY_BASE_URL"
	EnvIdentityTimeout = "BLEUPOS_IDENTITY_TIMEOUT"

	EnvInventoryIngredientsURL = "BLEUPOS_INVENTORY_INGREDIENTS_URL"
	EnvInventoryMaterialsURL   = "BLEUPOS_INVENTORY_MATERIALS_URL"
	EnvInventoryTimeout        = "BLEUPOS_INVENTORY_TIMEOUT"

	EnvSalesAddonPrices       = "BLEUPOS_SALES_ADDON_PRICES"
	EnvSalesDisplayCodePrefix = "BLEUPOS_SALES_DISPLAY_CODE_PREFIX"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
