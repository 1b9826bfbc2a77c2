// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver                 string        `mapstructure:"DB_DRIVER"`
	DBSource                 string        `mapstructure:"DB_SOURCE"`
	MigrationURL             string        `mapstructure:"MIGRATION_URL"`
	ServerAddress            string        `mapstructure:"SERVER_ADDRESS"`
	Environment              string        `mapstructure:"GO_ENV"`
	ClientServiceURL         string        `mapstructure:"CLIENT_SERVICE_URL"`
	ClientIDPath             string        `mapstructure:"CLIENT_ID_PATH"`
	ClientIdentificationPath string        `mapstructure:"CLIENT_IDENTIFICATION_PATH"`
	ClientServiceTimeout     time.Duration `mapstructure:"CLIENT_SERVICE_TIMEOUT"`
}

// MemoryDriver selects the in-memory stores instead of a database.
const MemoryDriver = "memory"

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("CLIENT_ID_PATH", "/clientes/")
	v.SetDefault("CLIENT_IDENTIFICATION_PATH", "/clientes/identificacion/")
	v.SetDefault("CLIENT_SERVICE_TIMEOUT", 5*time.Second)

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
