package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fieldreports/internal/flagx"
	"github.com/dmitrijs2005/fieldreports/internal/timex"
)

// JsonConfig is the JSON file shape. Duration fields accept strings such as
// "30s" or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                string         `json:"http_addr"`
	GRPCAddr                string         `json:"grpc_addr"`
	DatabaseDSN             string         `json:"database_dsn"`
	DeviceTokenSecret       string         `json:"device_token_secret"`
	DeviceTokenTTL          timex.Duration `json:"device_token_ttl"`
	PoliceIdentifiers       []string       `json:"police_identifiers"`
	PoliceIdentifierPattern string         `json:"police_identifier_pattern"`
	CORSOrigins             []string       `json:"cors_origins"`
	TrustedProxies          []string       `json:"trusted_proxies"`
	S3AccessKey             string         `json:"s3_access_key"`
	S3SecretKey             string         `json:"s3_secret_key"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	ResendAPIKey            string         `json:"resend_api_key"`
	EmailFrom               string         `json:"email_from"`
	OpenAIAPIKey            string         `json:"openai_api_key"`
	TranscriptionModel      string         `json:"transcription_model"`
	TranscriptionLanguage   string         `json:"transcription_language"`
	TranscriptionTimeout    timex.Duration `json:"transcription_timeout"`
	AnthropicAPIKey         string         `json:"anthropic_api_key"`
	AutofillModel           string         `json:"autofill_model"`
	Timezone                string         `json:"timezone"`
	OTelEndpoint            string         `json:"otel_endpoint"`
	LogLevel                string         `json:"log_level"`
	LogFile                 string         `json:"log_file"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson loads the file named by -c/-config, if any, and copies every
// non-empty value into config. Unreadable or invalid files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DeviceTokenSecret, c.DeviceTokenSecret)
	if c.DeviceTokenTTL.Duration > 0 {
		config.DeviceTokenTTL = c.DeviceTokenTTL.Duration
	}
	if len(c.PoliceIdentifiers) > 0 {
		config.PoliceIdentifiers = c.PoliceIdentifiers
	}
	setString(&config.PoliceIdentifierPattern, c.PoliceIdentifierPattern)
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	if len(c.TrustedProxies) > 0 {
		config.TrustedProxies = c.TrustedProxies
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.ResendAPIKey, c.ResendAPIKey)
	setString(&config.EmailFrom, c.EmailFrom)
	setString(&config.OpenAIAPIKey, c.OpenAIAPIKey)
	setString(&config.TranscriptionModel, c.TranscriptionModel)
	setString(&config.TranscriptionLanguage, c.TranscriptionLanguage)
	if c.TranscriptionTimeout.Duration > 0 {
		config.TranscriptionTimeout = c.TranscriptionTimeout.Duration
	}
	setString(&config.AnthropicAPIKey, c.AnthropicAPIKey)
	setString(&config.AutofillModel, c.AutofillModel)
	setString(&config.Timezone, c.Timezone)
	setString(&config.OTelEndpoint, c.OTelEndpoint)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFile, c.LogFile)
}
