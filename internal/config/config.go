package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/NgocChung1998/BabyCare/internal/core/domain"
)

type Config struct {
	DatabaseURL   string
	RedisAddress  string
	RedisPassword string
	Port          string
	InviteKey     []byte

	Location        *time.Location
	QuietWindow     domain.ClockWindow
	OvernightWindow domain.ClockWindow
}

func Load() *Config {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	inviteKey := os.Getenv("INVITE_TOKEN_KEY")
	if inviteKey == "" {
		panic("INVITE_TOKEN_KEY environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	tz := os.Getenv("ENGINE_TZ")
	if tz == "" {
		tz = "Asia/Ho_Chi_Minh"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		panic("invalid ENGINE_TZ: " + err.Error())
	}

	quiet, err := parseWindow(os.Getenv("QUIET_HOURS"), domain.ClockWindow{StartHour: 23, EndHour: 6})
	if err != nil {
		panic("invalid QUIET_HOURS: " + err.Error())
	}
	overnight, err := parseWindow(os.Getenv("OVERNIGHT_WINDOW"), domain.ClockWindow{StartHour: 19, EndHour: 6})
	if err != nil {
		panic("invalid OVERNIGHT_WINDOW: " + err.Error())
	}

	return &Config{
		DatabaseURL:     dbURL,
		RedisAddress:    redisAddr,
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		Port:            port,
		InviteKey:       []byte(inviteKey),
		Location:        loc,
		QuietWindow:     quiet,
		OvernightWindow: overnight,
	}
}

// parseWindow parses "23-6" style hour windows; an empty value falls
// back to the default.
func parseWindow(raw string, def domain.ClockWindow) (domain.ClockWindow, error) {
	if raw == "" {
		return def, nil
	}
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return def, fmt.Errorf("expected START-END, got %q", raw)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return def, err
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return def, err
	}
	if start < 0 || start > 23 || end < 0 || end > 23 {
		return def, fmt.Errorf("hours must be 0-23, got %q", raw)
	}
	return domain.ClockWindow{StartHour: start, EndHour: end}, nil
}
