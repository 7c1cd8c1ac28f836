package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr     string   `json:"listenAddr" mapstructure:"listenAddr"`
	AllowedOrigins []string `json:"allowedOrigins" mapstructure:"allowedOrigins"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type       string `json:"type" mapstructure:"type"`
	SQLitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// GeocodingConfig holds reverse-geocoding client settings.
type GeocodingConfig struct {
	BaseURL  string        `json:"baseUrl" mapstructure:"baseUrl"`
	APIKey   string        `json:"apiKey" mapstructure:"apiKey"`
	Language string        `json:"language" mapstructure:"language"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("server.listenAddr", ":8080")
	viper.SetDefault("server.allowedOrigins", []string{"http://localhost:3000"})

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "wayfarer")

	viper.SetDefault("storage.type", "postgres")
	viper.SetDefault("storage.sqlitePath", "./wayfarer.db")

	viper.SetDefault("geocoding.baseUrl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoding.apiKey", "")
	viper.SetDefault("geocoding.language", "en")
	viper.SetDefault("geocoding.timeout", "10s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "wayfarer-metrics")
	viper.SetDefault("influx.bucket", "trip_activity")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("wayfarerd.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetServerConfig returns the HTTP server configuration.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:     viper.GetString("server.listenAddr"),
		AllowedOrigins: viper.GetStringSlice("server.allowedOrigins"),
	}
}

// GetStorageConfig returns the storage backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:       viper.GetString("storage.type"),
		SQLitePath: viper.GetString("storage.sqlitePath"),
	}
}

// GetGeocodingConfig returns the reverse-geocoding client configuration.
func GetGeocodingConfig() GeocodingConfig {
	return GeocodingConfig{
		BaseURL:  viper.GetString("geocoding.baseUrl"),
		APIKey:   viper.GetString("geocoding.apiKey"),
		Language: viper.GetString("geocoding.language"),
		Timeout:  viper.GetDuration("geocoding.timeout"),
	}
}
