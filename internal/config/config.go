package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv         string
	Port           string
	DBPath         string
	AllowedOrigins string
	Economy        Economy
}

// Economy gathers the simulation tuning knobs. Defaults match the shipped
// game balance; an optional YAML file pointed at by ECONOMY_CONFIG can
// override individual values.
type Economy struct {
	TickIntervalMinutes int     `yaml:"tick_interval_minutes"`
	HistoryLimit        int     `yaml:"history_limit"`
	MaxVolatility       float64 `yaml:"max_volatility"`
	PumpMin             float64 `yaml:"pump_min"`
	PumpMax             float64 `yaml:"pump_max"`
	DumpThresholdDays   int64   `yaml:"dump_threshold_days"`
	DumpDailyRate       float64 `yaml:"dump_daily_rate"`
	PriceFloor          int64   `yaml:"price_floor"`

	ShopSlotCount     int   `yaml:"shop_slot_count"`
	ShopPickAttempts  int   `yaml:"shop_pick_attempts"`
	ShopRotationHours int64 `yaml:"shop_rotation_hours"`

	InactivityThresholdDays int64 `yaml:"inactivity_threshold_days"`
	InactivityPenaltyPerDay int64 `yaml:"inactivity_penalty_per_day"` // whole $WOL
	HolidayModeCost         int64 `yaml:"holiday_mode_cost"`          // whole $WOL

	PassiveRatePerHour   int64   `yaml:"passive_rate_per_hour"` // whole $WOL
	PassiveCapHours      float64 `yaml:"passive_cap_hours"`
	PassiveMinHours      float64 `yaml:"passive_min_hours"`
	HeartbeatIntervalSec int     `yaml:"heartbeat_interval_sec"`

	PersonalRecordBonus int64 `yaml:"personal_record_bonus"` // whole $WOL
	PerfectSetBonus     int64 `yaml:"perfect_set_bonus"`     // whole $WOL
}

func DefaultEconomy() Economy {
	return Economy{
		TickIntervalMinutes:     5,
		HistoryLimit:            50,
		MaxVolatility:           0.02,
		PumpMin:                 0.15,
		PumpMax:                 0.25,
		DumpThresholdDays:       3,
		DumpDailyRate:           0.10,
		PriceFloor:              1,
		ShopSlotCount:           4,
		ShopPickAttempts:        50,
		ShopRotationHours:       24,
		InactivityThresholdDays: 3,
		InactivityPenaltyPerDay: 50,
		HolidayModeCost:         500,
		PassiveRatePerHour:      100,
		PassiveCapHours:         24,
		PassiveMinHours:         0.1,
		HeartbeatIntervalSec:    60,
		PersonalRecordBonus:     500,
		PerfectSetBonus:         10,
	}
}

func Load() Config {
	cfg := Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "irontycoon.db"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		Economy:        DefaultEconomy(),
	}
	if path := os.Getenv("ECONOMY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[WARN] economy config %s unreadable, using defaults: %v", path, err)
		} else if err := yaml.Unmarshal(data, &cfg.Economy); err != nil {
			log.Printf("[WARN] economy config %s invalid, using defaults: %v", path, err)
			cfg.Economy = DefaultEconomy()
		}
	}
	if v := os.Getenv("TICK_INTERVAL_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.Economy.TickIntervalMinutes = parsed
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
