package common

import (
	"errors"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/viper"
	"io/fs"
	"strings"
	"time"
)

type Config struct {
	Viper *viper.Viper
}

// NewViper reads .env when present and lets the environment override it.
func NewViper() *Config {
	config := viper.New()
	config.SetConfigFile(".env")
	config.SetConfigType("env")
	config.AddConfigPath("../")
	config.AutomaticEnv()
	setDefaults(config)

	log.Trace("Checking file .env ....")
	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			panic("failed read config: " + err.Error())
		}
		log.Info("No .env file found, using environment only")
	}
	return &Config{Viper: config}
}

// NewConfig wraps an existing viper instance, filling in defaults.
func NewConfig(v *viper.Viper) *Config {
	setDefaults(v)
	return &Config{Viper: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "real-time-dm-api")
	v.SetDefault("APP_PORT", "7720")
	v.SetDefault("CORS_ORIGINS", "http://localhost:8080")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("WS_HEARTBEAT", "30s")
	v.SetDefault("WS_WRITE_TIMEOUT", "10s")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_USERS", "")
}

func (c *Config) GetAppConfig() (appName string) {
	return c.Viper.GetString("APP_NAME")
}

func (c *Config) GetListenAddress() string {
	return ":" + c.Viper.GetString("APP_PORT")
}

func (c *Config) GetCorsOrigins() string {
	return c.Viper.GetString("CORS_ORIGINS")
}

func (c *Config) GetDatabaseConfig() (dbHost, dbUser, dbPassword, dbName, dbPort string) {
	dbHost = c.Viper.GetString("DB_HOSTNAME")
	dbUser = c.Viper.GetString("DB_USER")
	dbPassword = c.Viper.GetString("DB_PASSWORD")
	dbName = c.Viper.GetString("DB_NAME")
	dbPort = c.Viper.GetString("DB_PORT")

	return dbHost, dbUser, dbPassword, dbName, dbPort
}

func (c *Config) GetDatabaseTimezone() string {
	return c.Viper.GetString("DB_TIMEZONE")
}

func (c *Config) GetJwtConfig() []byte {
	jwtSecret := c.Viper.GetString("JWT_SECRET")
	return []byte(jwtSecret)
}

// GetStoreDriver is "postgres" or "memory".
func (c *Config) GetStoreDriver() string {
	return strings.ToLower(c.Viper.GetString("STORE_DRIVER"))
}

func (c *Config) GetStoreTimeout() time.Duration {
	return c.Viper.GetDuration("STORE_TIMEOUT")
}

func (c *Config) GetWebSocketConfig() (heartbeat, writeTimeout time.Duration) {
	return c.Viper.GetDuration("WS_HEARTBEAT"), c.Viper.GetDuration("WS_WRITE_TIMEOUT")
}

func (c *Config) GetLogConfig() (dir, level string) {
	return c.Viper.GetString("LOG_DIR"), c.Viper.GetString("LOG_LEVEL")
}

// GetSeedUsers lists the user ids preloaded into the in-memory store.
func (c *Config) GetSeedUsers() []string {
	var users []string
	for _, id := range strings.Split(c.Viper.GetString("SEED_USERS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			users = append(users, id)
		}
	}
	return users
}
