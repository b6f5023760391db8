package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mixmini/internal/flagx"
	"github.com/dmitrijs2005/mixmini/internal/timex"
)

// fileConfig is the JSON shape of a config file. Pointer fields distinguish
// "absent" from zero values so a partial file only overrides what it names.
type fileConfig struct {
	HTTPAddr           *string         `json:"http_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	TokenLifetime      *timex.Duration `json:"token_lifetime"`
	ResetTokenLifetime *timex.Duration `json:"reset_token_lifetime"`
	CookieSecure       *bool           `json:"cookie_secure"`
	LogLevel           *string         `json:"log_level"`
	MetricsEnabled     *bool           `json:"metrics_enabled"`
	S3AccessKey        *string         `json:"s3_access_key"`
	S3SecretKey        *string         `json:"s3_secret_key"`
	S3Region           *string         `json:"s3_region"`
	S3BaseEndpoint     *string         `json:"s3_base_endpoint"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	if fc.TokenLifetime != nil {
		cfg.TokenLifetime = fc.TokenLifetime.Duration
	}
	if fc.ResetTokenLifetime != nil {
		cfg.ResetTokenLifetime = fc.ResetTokenLifetime.Duration
	}
	if fc.CookieSecure != nil {
		cfg.CookieSecure = *fc.CookieSecure
	}
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.MetricsEnabled != nil {
		cfg.MetricsEnabled = *fc.MetricsEnabled
	}
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
