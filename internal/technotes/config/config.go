// Package config loads the service configuration from an optional YAML file
// with environment variables taking precedence over file values.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `json:"app" yaml:"app"`
	API      APIConfig      `json:"api" yaml:"api"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Security SecurityConfig `json:"security" yaml:"security"`
}

// AppConfig represents application configuration.
type AppConfig struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	Environment string `json:"environment" yaml:"environment"`
}

// APIConfig represents HTTP server configuration.
type APIConfig struct {
	Host           string   `json:"host" yaml:"host"`
	Port           int      `json:"port" yaml:"port"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins"`
	MaxRequestSize int64    `json:"max_request_size" yaml:"max_request_size"`
	StaticDir      string   `json:"static_dir" yaml:"static_dir"`
	ViewsDir       string   `json:"views_dir" yaml:"views_dir"`
}

// DatabaseConfig represents SurrealDB connection configuration.
type DatabaseConfig struct {
	URL       string `json:"url" yaml:"url"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Database  string `json:"database" yaml:"database"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
}

// SecurityConfig represents rate limiting configuration.
type SecurityConfig struct {
	EnableRateLimit    bool   `json:"enable_rate_limit" yaml:"enable_rate_limit"`
	RateLimitPerMinute int    `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	RedisAddr          string `json:"redis_addr" yaml:"redis_addr"`
	RedisDB            int    `json:"redis_db" yaml:"redis_db"`
}

// Load loads configuration from the YAML file named by CONFIG_FILE (default
// config/config.yaml) and environment variables. Environment variables win.
func Load() *Config {
	config := &Config{}

	yamlConfig := loadYAMLConfig(getEnv("CONFIG_FILE", "config/config.yaml"))

	config.App = AppConfig{
		Name:        getEnvWithYAML("APP_NAME", yamlConfig, "app.name", "technotes"),
		Version:     getEnvWithYAML("APP_VERSION", yamlConfig, "app.version", "1.0.0"),
		LogLevel:    getEnvWithYAML("LOG_LEVEL", yamlConfig, "app.log_level", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	config.API = APIConfig{
		Host:           getEnvWithYAML("API_HOST", yamlConfig, "api.host", "0.0.0.0"),
		Port:           getEnvIntWithYAML("API_PORT", yamlConfig, "api.port", 3500),
		CORSOrigins:    getEnvSliceWithYAML("API_CORS_ORIGINS", yamlConfig, "api.cors_origins", []string{"*"}),
		MaxRequestSize: getEnvInt64WithYAML("MAX_REQUEST_SIZE", yamlConfig, "api.max_request_size", 1048576),
		StaticDir:      getEnvWithYAML("STATIC_DIR", yamlConfig, "api.static_dir", "public"),
		ViewsDir:       getEnvWithYAML("VIEWS_DIR", yamlConfig, "api.views_dir", "views"),
	}

	config.Database = DatabaseConfig{
		URL:       getEnvWithYAML("SURREAL_URL", yamlConfig, "database.url", "ws://localhost:8000/rpc"),
		Namespace: getEnvWithYAML("SURREAL_NAMESPACE", yamlConfig, "database.namespace", "technotes"),
		Database:  getEnvWithYAML("SURREAL_DATABASE", yamlConfig, "database.database", "technotes"),
		Username:  getEnvWithYAML("SURREAL_USER", yamlConfig, "database.username", "root"),
		Password:  getEnvWithYAML("SURREAL_PASS", yamlConfig, "database.password", "root"),
	}

	config.Security = SecurityConfig{
		EnableRateLimit:    getEnvBoolWithYAML("ENABLE_RATE_LIMIT", yamlConfig, "security.enable_rate_limit", false),
		RateLimitPerMinute: getEnvIntWithYAML("RATE_LIMIT_PER_MINUTE", yamlConfig, "security.rate_limit_per_minute", 120),
		RedisAddr:          getEnvWithYAML("REDIS_ADDR", yamlConfig, "security.redis_addr", ""),
		RedisDB:            getEnvIntWithYAML("REDIS_DB", yamlConfig, "security.redis_db", 0),
	}

	return config
}

// loadYAMLConfig reads the YAML file into a generic map; a missing or
// unreadable file yields an empty map so env vars and defaults still apply.
func loadYAMLConfig(path string) map[string]interface{} {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]interface{}{}
	}

	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return map[string]interface{}{}
	}
	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvWithYAML gets a string environment variable with YAML fallback.
func getEnvWithYAML(envKey string, yamlConfig map[string]interface{}, yamlPath, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if yamlValue := getYAMLValue(yamlConfig, yamlPath); yamlValue != "" {
		return yamlValue
	}
	return defaultValue
}

// getEnvIntWithYAML gets an int environment variable with YAML fallback.
func getEnvIntWithYAML(envKey string, yamlConfig map[string]interface{}, yamlPath string, defaultValue int) int {
	if value := os.Getenv(envKey); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	if yamlValue := getYAMLValue(yamlConfig, yamlPath); yamlValue != "" {
		if intValue, err := strconv.Atoi(yamlValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64WithYAML gets an int64 environment variable with YAML fallback.
func getEnvInt64WithYAML(envKey string, yamlConfig map[string]interface{}, yamlPath string, defaultValue int64) int64 {
	if value := os.Getenv(envKey); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	if yamlValue := getYAMLValue(yamlConfig, yamlPath); yamlValue != "" {
		if intValue, err := strconv.ParseInt(yamlValue, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolWithYAML gets a boolean environment variable with YAML fallback.
func getEnvBoolWithYAML(envKey string, yamlConfig map[string]interface{}, yamlPath string, defaultValue bool) bool {
	if value := os.Getenv(envKey); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	if yamlValue := getYAMLValue(yamlConfig, yamlPath); yamlValue != "" {
		if boolValue, err := strconv.ParseBool(yamlValue); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceWithYAML gets a string slice environment variable (comma
// separated) with YAML fallback.
func getEnvSliceWithYAML(envKey string, yamlConfig map[string]interface{}, yamlPath string, defaultValue []string) []string {
	if value := os.Getenv(envKey); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, len(parts))
		for i, part := range parts {
			result[i] = strings.TrimSpace(part)
		}
		return result
	}
	if yamlValue := getYAMLSlice(yamlConfig, yamlPath); yamlValue != nil {
		return yamlValue
	}
	return defaultValue
}

// getYAMLValue gets a scalar from the YAML config using dot notation path.
func getYAMLValue(config map[string]interface{}, path string) string {
	parts := strings.Split(path, ".")
	current := config

	for i, part := range parts {
		if i == len(parts)-1 {
			if value, ok := current[part]; ok {
				switch v := value.(type) {
				case string:
					return v
				case int:
					return strconv.Itoa(v)
				case bool:
					return strconv.FormatBool(v)
				}
			}
			break
		}
		if next, ok := current[part].(map[string]interface{}); ok {
			current = next
		} else {
			break
		}
	}
	return ""
}

// getYAMLSlice gets a string slice from the YAML config using dot notation path.
func getYAMLSlice(config map[string]interface{}, path string) []string {
	parts := strings.Split(path, ".")
	current := config

	for i, part := range parts {
		if i == len(parts)-1 {
			if value, ok := current[part]; ok {
				if slice, ok := value.([]interface{}); ok {
					result := make([]string, 0, len(slice))
					for _, item := range slice {
						if str, ok := item.(string); ok {
							result = append(result, str)
						}
					}
					return result
				}
			}
			break
		}
		if next, ok := current[part].(map[string]interface{}); ok {
			current = next
		} else {
			break
		}
	}
	return nil
}
