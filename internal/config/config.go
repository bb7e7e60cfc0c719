package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config — конфигурация приложения. Загружается из файла app.env
// и переменных окружения.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	DBTimeZone string `mapstructure:"DB_TIMEZONE"`

	MaxOpenConns    int `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifeTime int `mapstructure:"DB_CONN_MAX_LIFETIME_MIN"` // минут

	// Внешняя страница оплаты подписки. Сама оплата вне ядра.
	SubscriptionPayURL string `mapstructure:"SUBSCRIPTION_PAY_URL"`
}

// Load загружает конфигурацию из файла по указанному пути.
func Load(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("DB_HOST", "postgres")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "marketplace")
	viper.SetDefault("DB_NAME", "marketplace_db")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 30)
	viper.SetDefault("SUBSCRIPTION_PAY_URL", "https://pay.example.com/subscription")

	if err := viper.ReadInConfig(); err != nil {
		// Файл опционален: окружение и дефолты достаточны.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return Config{}, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}

	return cfg, nil
}
