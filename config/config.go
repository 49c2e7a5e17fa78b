package config

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT" validate:"required"`
	DatabaseURL       string `mapstructure:"DATABASE_URL" validate:"required"`
	Env               string `mapstructure:"ENV" validate:"oneof=development staging production"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN" validate:"gt=0"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR" validate:"required"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB" validate:"gte=0"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB" validate:"gte=0"`

	// Scheduling policy.
	SlotGranularityMinutes int  `mapstructure:"SLOT_GRANULARITY_MINUTES" validate:"gt=0"`
	BookingMaxAttempts     int  `mapstructure:"BOOKING_MAX_ATTEMPTS" validate:"gt=0"`
	SearchHorizonDays      int  `mapstructure:"SEARCH_HORIZON_DAYS" validate:"gt=0"`
	AutoConfirm            bool `mapstructure:"AUTO_CONFIRM"`

	// Reminder policy. The grace window is how long a fired reminder
	// waits for a patient response before it is skipped.
	ReminderGraceMinutes        int `mapstructure:"REMINDER_GRACE_MINUTES" validate:"gt=0"`
	ReminderMaxDeliveryAttempts int `mapstructure:"REMINDER_MAX_DELIVERY_ATTEMPTS" validate:"gt=0"`
	ReminderTickSeconds         int `mapstructure:"REMINDER_TICK_SECONDS" validate:"gt=0"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 15)
	viper.SetDefault("BOOKING_MAX_ATTEMPTS", 5)
	viper.SetDefault("SEARCH_HORIZON_DAYS", 7)
	viper.SetDefault("AUTO_CONFIRM", true)
	viper.SetDefault("REMINDER_GRACE_MINUTES", 30)
	viper.SetDefault("REMINDER_MAX_DELIVERY_ATTEMPTS", 3)
	viper.SetDefault("REMINDER_TICK_SECONDS", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := validator.New().Struct(AppConfig); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
