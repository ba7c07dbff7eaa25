// Package config loads runtime settings from the environment.
// File: config/config.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go-patient-caller/logger"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port           string
	Env            string
	PublicDir      string
	LogDir         string
	ApplicationURL string
	DisplayPath    string
	AllowedOrigins []string
	SessionSecret  string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	AWSRegion           string

	XRayEnabled     bool
	XRayServiceName string
}

// LoadEnv reads a .env file when one is present. A missing file is not an error;
// the process environment is used as-is.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Warn.Printf("[config.LoadEnv] .env not loaded, using system environment: %v", err)
	}
}

// Load builds a Config from the environment, applying defaults.
func Load() Config {
	port := GetEnv("PORT", "3000")
	return Config{
		Port:           port,
		Env:            GetEnv("APP_ENV", "development"),
		PublicDir:      GetEnv("PUBLIC_DIR", "./public"),
		LogDir:         GetEnv("LOG_DIR", ""),
		ApplicationURL: strings.TrimRight(GetEnv("APPLICATION_URL", "http://localhost:"+port), "/"),
		DisplayPath:    GetEnv("DISPLAY_PATH", "/painel.html"),
		AllowedOrigins: splitList(GetEnv("ALLOWED_ORIGINS", "*")),
		SessionSecret:  GetEnv("SESSION_SECRET", "patient-caller-dev-secret"),

		CloudWatchEnabled:   GetBool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: GetEnv("CLOUDWATCH_NAMESPACE", "PatientCaller"),
		AWSRegion:           GetEnv("AWS_REGION", "us-east-1"),

		XRayEnabled:     GetBool("XRAY_ENABLED", false),
		XRayServiceName: GetEnv("XRAY_SERVICE_NAME", "patient-caller"),
	}
}

// GetEnv returns the value of key, or defaultVal when it is unset or empty.
func GetEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// GetBool parses key as a boolean, falling back to defaultVal on absence or garbage.
func GetBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		logger.Warn.Printf("[config.GetBool] invalid boolean %s=%q, using %v", key, val, defaultVal)
		return defaultVal
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DisplayURL is the absolute URL of the waiting-room display page.
func (c Config) DisplayURL() string {
	return c.ApplicationURL + c.DisplayPath
}
