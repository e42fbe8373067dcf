// Package config resolves the runtime settings that come from outside the
// AWS credential chain: the profile flag and the environment.
package config

import (
	"os"
)

// Config holds the application configuration.
type Config struct {
	Profile string
	Region  string
}

// Load builds the configuration from the profile flag and environment.
// Region stays empty when the environment does not set one; the SDK then
// resolves it from the profile's shared config.
func Load(profile string) *Config {
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	return &Config{
		Profile: profile,
		Region:  regionFromEnv(),
	}
}

func regionFromEnv() string {
	if region, ok := os.LookupEnv("AWS_REGION"); ok {
		return region
	}
	if region, ok := os.LookupEnv("AWS_DEFAULT_REGION"); ok {
		return region
	}
	return ""
}
