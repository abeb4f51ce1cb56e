// Package config loads settings from config.yaml, .env and the process
// environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"bookbot/internal/schedule"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Business rules.
	Timezone        string `mapstructure:"TIMEZONE"`
	OpenTime        string `mapstructure:"OPEN_TIME"`
	CloseTime       string `mapstructure:"CLOSE_TIME"`
	Workdays        string `mapstructure:"WORKDAYS"`
	SlotMinutes     int    `mapstructure:"SLOT_MINUTES"`
	MaxAlternatives int    `mapstructure:"MAX_ALTERNATIVES"`
	HorizonDays     int    `mapstructure:"HORIZON_DAYS"`

	// Intent model.
	LLMProvider string `mapstructure:"LLM_PROVIDER"`
	LLMModel    string `mapstructure:"LLM_MODEL"`
	LLMBaseURL  string `mapstructure:"LLM_BASE_URL"`

	// Calendar backend.
	CalendarID            string `mapstructure:"CALENDAR_ID"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	GoogleCredentialsJSON string `mapstructure:"GOOGLE_CREDENTIALS_JSON"`

	// Front ends.
	HTTPPort      string `mapstructure:"HTTP_PORT"`
	TelegramToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads config.yaml (if present), .env (if present) and the
// environment. Environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("OPEN_TIME", "10:00")
	viper.SetDefault("CLOSE_TIME", "18:00")
	viper.SetDefault("WORKDAYS", "Mon,Tue,Wed,Thu,Fri")
	viper.SetDefault("SLOT_MINUTES", 60)
	viper.SetDefault("MAX_ALTERNATIVES", 3)
	viper.SetDefault("HORIZON_DAYS", 14)
	viper.SetDefault("LLM_PROVIDER", "ollama")
	viper.SetDefault("LLM_MODEL", "llama3")
	viper.SetDefault("LLM_BASE_URL", "")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_JSON", "")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	return c, nil
}

// Rules builds the schedule rules the config describes.
func (c Config) Rules() (schedule.Rules, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return schedule.Rules{}, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	open, err := schedule.ParseClock(c.OpenTime)
	if err != nil {
		return schedule.Rules{}, fmt.Errorf("open time: %w", err)
	}
	clos, err := schedule.ParseClock(c.CloseTime)
	if err != nil {
		return schedule.Rules{}, fmt.Errorf("close time: %w", err)
	}
	if clos <= open {
		return schedule.Rules{}, fmt.Errorf("close time %s is not after open time %s", c.CloseTime, c.OpenTime)
	}
	days, err := parseWorkdays(c.Workdays)
	if err != nil {
		return schedule.Rules{}, err
	}

	r := schedule.DefaultRules(loc)
	r.Open = open
	r.Close = clos
	r.Weekdays = days
	if c.SlotMinutes > 0 {
		r.SlotDuration = time.Duration(c.SlotMinutes) * time.Minute
	}
	if c.MaxAlternatives > 0 {
		r.MaxAlternatives = c.MaxAlternatives
	}
	if c.HorizonDays > 0 {
		r.HorizonDays = c.HorizonDays
	}
	return r, nil
}

var dayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWorkdays(s string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if len(part) > 3 {
			part = part[:3]
		}
		d, ok := dayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown workday %q", part)
		}
		days[d] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no workdays configured")
	}
	return days, nil
}
