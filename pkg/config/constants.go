package config

const (
	EnvPrefix = "RUPIYA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "RUPIYA_APP_ENV"
	EnvLogLevel = "RUPIYA_LOG_LEVEL"

	EnvDBDSN  = "RUPIYA_DB_DSN"
	EnvDBHost = "RUPIYA_DB_HOST"
	EnvDBUser = "RUPIYA_DB_USER"
	EnvDBName = "RUPIYA_DB_NAME"

	EnvRedisURL = "RUPIYA_REDIS_URL"

	EnvGCPProjectID = "RUPIYA_GCP_PROJECT_ID"

	EnvPubSubPaymentsSub = "RUPIYA_PUBSUB_PAYMENTS_SUBSCRIPTION"

	EnvBigQueryDataset         = "RUPIYA_BIGQUERY_DATASET"
	EnvBigQueryCommissionTable = "RUPIYA_BIGQUERY_COMMISSION_TABLE"

	EnvRankingHomepageSize = "RUPIYA_RANKING_HOMEPAGE_SIZE"
	EnvRankingCacheTTL     = "RUPIYA_RANKING_CACHE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
