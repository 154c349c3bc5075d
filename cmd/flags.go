package cmd

import (
	"time"

	"github.com/foomo/sitegen/pkg/billing"
	"github.com/foomo/sitegen/pkg/genai"
	"github.com/foomo/sitegen/pkg/vercel"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "SITEGEN_ADDRESS")
}

func publicURLFlag(v *viper.Viper) string {
	return v.GetString("public_url")
}

func addPublicURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("public-url", "", "Public url of the editor, used as payment redirect origin when a request carries none")
	_ = v.BindPFlag("public_url", flags.Lookup("public-url"))
	_ = v.BindEnv("public_url", "SITEGEN_PUBLIC_URL")
}

func allowedOriginsFlag(v *viper.Viper) []string {
	return v.GetStringSlice("allowed_origins")
}

func addAllowedOriginsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringSlice("allowed-origins", nil, "Origins allowed to open the generation socket, same origin only if empty")
	_ = v.BindPFlag("allowed_origins", flags.Lookup("allowed-origins"))
	_ = v.BindEnv("allowed_origins", "SITEGEN_ALLOWED_ORIGINS")
}

func uploadMaxSizeFlag(v *viper.Viper) int64 {
	return v.GetInt64("upload.max_size")
}

func addUploadMaxSizeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int64("upload-max-size", 10<<20, "Maximum image upload size in bytes")
	_ = v.BindPFlag("upload.max_size", flags.Lookup("upload-max-size"))
	_ = v.BindEnv("upload.max_size", "SITEGEN_UPLOAD_MAX_SIZE")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", "fs", "Site storage backend: fs or blob")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "SITEGEN_STORAGE_TYPE")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-bucket", "", "Bucket url for blob storage, e.g. gs://bucket-name")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("storage-blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "SITEGEN_STORAGE_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-prefix", "", "Key prefix for blob storage")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("storage-blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "SITEGEN_STORAGE_BLOB_PREFIX")
}

func historyDirFlag(v *viper.Viper) string {
	return v.GetString("history.dir")
}

func addHistoryDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("history-dir", "/var/lib/sitegen", "Where to put my data")
	_ = v.BindPFlag("history.dir", flags.Lookup("history-dir"))
	_ = v.BindEnv("history.dir", "SITEGEN_HISTORY_DIR")
}

func historyLimitFlag(v *viper.Viper) int {
	return v.GetInt("history.limit")
}

func addHistoryLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("history-limit", 10, "Number of revisions to keep per site")
	_ = v.BindPFlag("history.limit", flags.Lookup("history-limit"))
	_ = v.BindEnv("history.limit", "SITEGEN_HISTORY_LIMIT")
}

func databaseFlag(v *viper.Viper) string {
	return v.GetString("database")
}

func addDatabaseFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("database", "", "Path of the sqlite lead database, leads are not stored if empty")
	_ = v.BindPFlag("database", flags.Lookup("database"))
	_ = v.BindEnv("database", "SITEGEN_DATABASE")
}

func leadWebhookURLFlag(v *viper.Viper) string {
	return v.GetString("lead.webhook_url")
}

func addLeadWebhookURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("lead-webhook-url", "", "Webhook receiving captured leads")
	_ = v.BindPFlag("lead.webhook_url", flags.Lookup("lead-webhook-url"))
	_ = v.BindEnv("lead.webhook_url", "LEAD_WEBHOOK_URL")
}

func geminiAPIKeyFlag(v *viper.Viper) string {
	return v.GetString("gemini.api_key")
}

func addGeminiAPIKeyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("gemini-api-key", "", "Generative AI api key")
	_ = v.BindPFlag("gemini.api_key", flags.Lookup("gemini-api-key"))
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
}

func geminiBaseURLFlag(v *viper.Viper) string {
	return v.GetString("gemini.base_url")
}

func addGeminiBaseURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("gemini-base-url", genai.DefaultBaseURL, "Generative AI api url")
	_ = v.BindPFlag("gemini.base_url", flags.Lookup("gemini-base-url"))
	_ = v.BindEnv("gemini.base_url", "GEMINI_BASE_URL")
}

func textModelFlag(v *viper.Viper) string {
	return v.GetString("gemini.text_model")
}

func addTextModelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("text-model", genai.DefaultTextModel, "Model generating the site copy")
	_ = v.BindPFlag("gemini.text_model", flags.Lookup("text-model"))
	_ = v.BindEnv("gemini.text_model", "SITEGEN_TEXT_MODEL")
}

func imageModelFlag(v *viper.Viper) string {
	return v.GetString("gemini.image_model")
}

func addImageModelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("image-model", genai.DefaultImageModel, "Model generating the site images")
	_ = v.BindPFlag("gemini.image_model", flags.Lookup("image-model"))
	_ = v.BindEnv("gemini.image_model", "SITEGEN_IMAGE_MODEL")
}

func statusIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("generator.status_interval")
}

func addStatusIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("status-interval", 2500*time.Millisecond, "Interval between generation progress messages")
	_ = v.BindPFlag("generator.status_interval", flags.Lookup("status-interval"))
	_ = v.BindEnv("generator.status_interval", "SITEGEN_STATUS_INTERVAL")
}

func stripeSecretKeyFlag(v *viper.Viper) string {
	return v.GetString("stripe.secret_key")
}

func addStripeSecretKeyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("stripe-secret-key", "", "Payment processor secret key")
	_ = v.BindPFlag("stripe.secret_key", flags.Lookup("stripe-secret-key"))
	_ = v.BindEnv("stripe.secret_key", "STRIPE_SECRET_KEY")
}

func stripeBaseURLFlag(v *viper.Viper) string {
	return v.GetString("stripe.base_url")
}

func addStripeBaseURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("stripe-base-url", billing.DefaultBaseURL, "Payment processor api url")
	_ = v.BindPFlag("stripe.base_url", flags.Lookup("stripe-base-url"))
	_ = v.BindEnv("stripe.base_url", "STRIPE_BASE_URL")
}

func vercelTokenFlag(v *viper.Viper) string {
	return v.GetString("vercel.token")
}

func addVercelTokenFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("vercel-token", "", "Hosting and registrar api token")
	_ = v.BindPFlag("vercel.token", flags.Lookup("vercel-token"))
	_ = v.BindEnv("vercel.token", "VERCEL_TOKEN")
}

func vercelTeamIDFlag(v *viper.Viper) string {
	return v.GetString("vercel.team_id")
}

func addVercelTeamIDFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("vercel-team-id", "", "Hosting team id")
	_ = v.BindPFlag("vercel.team_id", flags.Lookup("vercel-team-id"))
	_ = v.BindEnv("vercel.team_id", "VERCEL_TEAM_ID")
}

func vercelBaseURLFlag(v *viper.Viper) string {
	return v.GetString("vercel.base_url")
}

func addVercelBaseURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("vercel-base-url", vercel.DefaultBaseURL, "Hosting and registrar api url")
	_ = v.BindPFlag("vercel.base_url", flags.Lookup("vercel-base-url"))
	_ = v.BindEnv("vercel.base_url", "VERCEL_BASE_URL")
}

func vendorTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("vendor.timeout")
}

func addVendorTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("vendor-timeout", 2*time.Minute, "Timeout for vendor api requests")
	_ = v.BindPFlag("vendor.timeout", flags.Lookup("vendor-timeout"))
	_ = v.BindEnv("vendor.timeout", "SITEGEN_VENDOR_TIMEOUT")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 5*time.Second, "Graceful shutdown period")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "SITEGEN_GRACEFUL_PERIOD")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", -1, "Gzip compression level of http responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "SITEGEN_GZIP_LEVEL")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}
