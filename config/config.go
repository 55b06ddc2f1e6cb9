package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Upstream credentials.
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	CalendarID               string `mapstructure:"CALENDAR_ID"`

	// Scheduling window. Hours are local to Timezone.
	Timezone           string `mapstructure:"TIMEZONE"`
	BusinessOpenHour   int    `mapstructure:"BUSINESS_OPEN_HOUR"`
	BusinessCloseHour  int    `mapstructure:"BUSINESS_CLOSE_HOUR"`
	SlotDurationMin    int    `mapstructure:"SLOT_DURATION_MIN"`
	SearchHorizonHours int    `mapstructure:"SEARCH_HORIZON_HOURS"`
	MaxSlots           int    `mapstructure:"MAX_SLOTS"`

	// Locales: DisplayLocale renders slot labels, SpeechLocale drives
	// utterance parsing and transcription.
	DisplayLocale string `mapstructure:"DISPLAY_LOCALE"`
	SpeechLocale  string `mapstructure:"SPEECH_LOCALE"`

	SessionTTLMin int `mapstructure:"SESSION_TTL_MIN"`
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
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "service-account.json")
	viper.SetDefault("CALENDAR_ID", "")
	viper.SetDefault("TIMEZONE", "America/New_York")
	viper.SetDefault("BUSINESS_OPEN_HOUR", 9)
	viper.SetDefault("BUSINESS_CLOSE_HOUR", 18)
	viper.SetDefault("SLOT_DURATION_MIN", 30)
	viper.SetDefault("SEARCH_HORIZON_HOURS", 48)
	viper.SetDefault("MAX_SLOTS", 5)
	viper.SetDefault("DISPLAY_LOCALE", "es")
	viper.SetDefault("SPEECH_LOCALE", "en-US")
	viper.SetDefault("SESSION_TTL_MIN", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
