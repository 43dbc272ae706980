// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver        string        `mapstructure:"DB_DRIVER"`
	DBSource        string        `mapstructure:"DB_SOURCE"`
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	RedisAddress    string        `mapstructure:"REDIS_ADDRESS"`
	BalanceCacheTTL time.Duration `mapstructure:"BALANCE_CACHE_TTL"`
	KafkaBrokers    string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic      string        `mapstructure:"KAFKA_TOPIC"`
	TimeLocation    string        `mapstructure:"TIME_LOCATION"`
	Environment     string        `mapstructure:"GO_ENV"`
}

// BrokerList splits the comma-separated KAFKA_BROKERS value.
func (c Config) BrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}

	brokers := strings.Split(c.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	return brokers
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
