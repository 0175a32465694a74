package config

import (
	"strconv"
	"strings"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Version string
	Port    string
	Env     string
	Debug   bool
	LogJSON bool

	// Discord application
	Token         string
	ApplicationID string
	HomeGuildID   string
	PublicKey     string
	APIBaseURL    string

	// Extension folders
	CommandsDir string
	EventsDir   string

	EmbedColor         int
	RefreshSchedule    string
	SkipInitialRefresh bool
	WikiBaseURL        string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() *Config {
	once.Do(func() {
		AppConfig = Load()
	})
	return AppConfig
}

// Load reads a fresh Config from the environment.
func Load() *Config {
	return &Config{
		AppName: GetEnv("BOT_NAME", "Log Pose"),
		Version: GetEnv("BOT_VERSION", "1.0.0"),
		Port:    GetEnv("PORT", "8080"),
		Env:     GetEnv("APP_ENV", "development"),
		Debug:   GetEnvBool("DEBUG", false),
		LogJSON: GetEnvBool("LOG_JSON", false),

		Token:         GetEnv("CLIENT_LOGIN_TOKEN", ""),
		ApplicationID: GetEnv("APPLICATION_ID", ""),
		HomeGuildID:   GetEnv("HOME_GUILD_ID", ""),
		PublicKey:     GetEnv("DISCORD_PUBLIC_KEY", ""),
		APIBaseURL:    GetEnv("DISCORD_API_URL", "https://discord.com/api/v10"),

		CommandsDir: GetEnv("COMMANDS_DIR", "extensions/commands"),
		EventsDir:   GetEnv("EVENTS_DIR", "extensions/events"),

		EmbedColor:         ParseColor(GetEnv("EMBED_COLOR", "#f1c40f")),
		RefreshSchedule:    GetEnv("REFRESH_SCHEDULE", "@midnight"),
		SkipInitialRefresh: GetEnvBool("SKIP_INITIAL_REFRESH", false),
		WikiBaseURL:        GetEnv("WIKI_BASE_URL", "https://onepiece.fandom.com/wiki/"),
	}
}

// Footer is the default embed footer, e.g. "Log Pose v1.0.0".
func (c *Config) Footer() string {
	return c.AppName + " v" + c.Version
}

// ParseColor turns "#rrggbb" into its integer value. Invalid input yields 0.
func ParseColor(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
