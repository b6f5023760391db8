package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/flagx"
)

// serverFlags are the flags owned by this package; everything else in args
// is ignored so commands can define their own.
var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-l", "-m", "-cookie-secure", "-u", "-p", "-g", "-e"}

// parseFlags overlays command-line flags onto config.
//
//	-a string   HTTP bind address (e.g. ":8000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session lifetime, hours
//	-r int      password reset token lifetime, minutes
//	-l string   log level
//	-m bool     enable metrics
//	-cookie-secure bool  mark the session cookie Secure
//	-u / -p     S3 access key / secret key
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g. "http://127.0.0.1:9000/")
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("mixmini", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenHours := fs.Int("t", int(config.TokenLifetime.Hours()), "session lifetime (in hours)")
	resetMinutes := fs.Int("r", int(config.ResetTokenLifetime.Minutes()), "reset token lifetime (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.MetricsEnabled, "m", config.MetricsEnabled, "expose prometheus metrics")
	fs.BoolVar(&config.CookieSecure, "cookie-secure", config.CookieSecure, "set Secure on the session cookie")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	// Durations are only overridden when given, so sub-unit values from the
	// file or environment survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenLifetime = time.Duration(*tokenHours) * time.Hour
		case "r":
			config.ResetTokenLifetime = time.Duration(*resetMinutes) * time.Minute
		}
	})
	return nil
}
