package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Fulfillment FulfillmentConfig
	Trends      TrendsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type FulfillmentConfig struct {
	LowStockThreshold int
	PaymentTimeout    time.Duration
}

type TrendsConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("LOW_STOCK_THRESHOLD", 10)
	viper.SetDefault("PAYMENT_TIMEOUT", "5s")
	viper.SetDefault("TRENDS_BASE_URL", "https://jsonplaceholder.typicode.com")
	viper.SetDefault("TRENDS_TIMEOUT", "30s")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Fulfillment: FulfillmentConfig{
			LowStockThreshold: viper.GetInt("LOW_STOCK_THRESHOLD"),
			PaymentTimeout:    viper.GetDuration("PAYMENT_TIMEOUT"),
		},
		Trends: TrendsConfig{
			BaseURL: viper.GetString("TRENDS_BASE_URL"),
			Timeout: viper.GetDuration("TRENDS_TIMEOUT"),
		},
	}
}
