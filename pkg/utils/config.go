package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	Booking  BookingConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// PaymentConfig holds the card-network collaborator settings. WebhookSecret
// signs incoming settlement events; ToleranceSecs bounds the accepted
// signature timestamp skew.
type PaymentConfig struct {
	APIBaseURL    string
	SecretKey     string
	WebhookSecret string
	ToleranceSecs int
	SuccessURL    string
	CancelURL     string
}

type BookingConfig struct {
	MaxRentalDays  int
	MaxChauffeurKm int64
}

// AuthConfig: renter identity arrives from the gateway as trusted headers;
// operator endpoints are gated by an API key stored as a bcrypt hash.
type AuthConfig struct {
	OperatorKeyHash string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PAYMENT_API_BASE_URL", "https://api.stripe.com")
	viper.SetDefault("WEBHOOK_TOLERANCE_SECS", 300)
	viper.SetDefault("MAX_RENTAL_DAYS", 30)
	viper.SetDefault("MAX_CHAUFFEUR_KM", 10000)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Payment: PaymentConfig{
			APIBaseURL:    viper.GetString("PAYMENT_API_BASE_URL"),
			SecretKey:     viper.GetString("PAYMENT_SECRET_KEY"),
			WebhookSecret: viper.GetString("WEBHOOK_SECRET"),
			ToleranceSecs: viper.GetInt("WEBHOOK_TOLERANCE_SECS"),
			SuccessURL:    viper.GetString("PAYMENT_SUCCESS_URL"),
			CancelURL:     viper.GetString("PAYMENT_CANCEL_URL"),
		},
		Booking: BookingConfig{
			MaxRentalDays:  viper.GetInt("MAX_RENTAL_DAYS"),
			MaxChauffeurKm: viper.GetInt64("MAX_CHAUFFEUR_KM"),
		},
		Auth: AuthConfig{
			OperatorKeyHash: viper.GetString("OPERATOR_KEY_HASH"),
		},
	}

	return config, nil
}
