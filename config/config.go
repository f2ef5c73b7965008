package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	// BotToken authenticates the gateway session and all REST calls
	BotToken string
	// GuildID is the moderation workspace all tickets belong to
	GuildID string
	// TicketChannelID is the parent channel ticket threads are created under
	TicketChannelID string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" &&
		c.GuildID != "" &&
		c.TicketChannelID != ""
}

type RelayConfig struct {
	// OpenMessage is sent to the user when their ticket is opened
	OpenMessage string
	// CloseMessage is sent to the user when their ticket is closed
	CloseMessage string
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL    string
	DatabaseSchema string
	Port           string // Optional with default "8080"
	Environment    string
	// AlertWebhookURL receives error alerts; empty disables alerting
	AlertWebhookURL string
	ServerLogsURL   string

	DiscordConfig DiscordConfig
	RelayConfig   RelayConfig
}

const (
	defaultOpenMessage  = "Thanks for reaching out! The moderation team has opened a ticket for you and will reply here."
	defaultCloseMessage = "This ticket has been closed by the moderation team. Sending a new message will open a fresh one."
)

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseURL:     databaseURL,
		DatabaseSchema:  databaseSchema,
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "dev"),
		AlertWebhookURL: getEnvWithDefault("ALERT_WEBHOOK_URL", ""),
		ServerLogsURL:   getEnvWithDefault("SERVER_LOGS_URL", ""),

		DiscordConfig: DiscordConfig{
			BotToken:        os.Getenv("AGHAST_TOKEN"),
			GuildID:         os.Getenv("GUILD_ID"),
			TicketChannelID: os.Getenv("TICKET_CHANNEL_ID"),
		},

		RelayConfig: RelayConfig{
			OpenMessage:  getEnvWithDefault("TICKET_OPEN_MESSAGE", defaultOpenMessage),
			CloseMessage: getEnvWithDefault("TICKET_CLOSE_MESSAGE", defaultCloseMessage),
		},
	}

	if !config.DiscordConfig.IsConfigured() {
		return nil, fmt.Errorf("discord integration is not fully configured (AGHAST_TOKEN, GUILD_ID, TICKET_CHANNEL_ID)")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
