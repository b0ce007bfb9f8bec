package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Server     ServerConfig
		Log        LogConfig
		Database   DatabaseConfig
		Redis      RedisConfig
		Auth       AuthConfig
		GoogleAPI  GoogleAPIConfig
		Scheduling SchedulingConfig
	}

	ServerConfig struct {
		Port int
	}

	LogConfig struct {
		Level string
	}

	DatabaseConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	AuthConfig struct {
		JWTSecret string
	}

	GoogleAPIConfig struct {
		ClientID     string
		ClientSecret string
	}

	// SchedulingConfig holds the engine defaults applied when a request
	// does not override them.
	SchedulingConfig struct {
		GridStepMinutes int
		MaxResults      int
		SearchDays      int
		DayWindowStart  int
		DayWindowEnd    int
		SlotCacheTTLSec int
	}
)

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 7070)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "meetquorum")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("scheduling.grid_step_minutes", 30)
	v.SetDefault("scheduling.max_results", 10)
	v.SetDefault("scheduling.search_days", 7)
	v.SetDefault("scheduling.day_window_start", 8)
	v.SetDefault("scheduling.day_window_end", 18)
	v.SetDefault("scheduling.slot_cache_ttl_sec", 120)

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("server.port"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("jwt.secret"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("google.client_id"),
			ClientSecret: v.GetString("google.client_secret"),
		},
		Scheduling: SchedulingConfig{
			GridStepMinutes: v.GetInt("scheduling.grid_step_minutes"),
			MaxResults:      v.GetInt("scheduling.max_results"),
			SearchDays:      v.GetInt("scheduling.search_days"),
			DayWindowStart:  v.GetInt("scheduling.day_window_start"),
			DayWindowEnd:    v.GetInt("scheduling.day_window_end"),
			SlotCacheTTLSec: v.GetInt("scheduling.slot_cache_ttl_sec"),
		},
	}

	return cfg, nil
}
