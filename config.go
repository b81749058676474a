package main

import (
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	IntervalsAPIKey string `yaml:"intervals_api_key"`
	AthleteID       int    `yaml:"athlete_id"` // 0 = athlete bound to the API key
	BaseURL         string `yaml:"base_url"`

	Timezone string `yaml:"timezone"`
	Location *time.Location

	DBPath          string `yaml:"db_path"`
	ReportOutputDir string `yaml:"report_output_dir"`
	ZWOOutputDir    string `yaml:"zwo_output_dir"`

	// Comma-separated canonical activity types to include in summaries.
	AllowedTypes   []string `yaml:"allowed_types"`
	ZWOSkipPattern string   `yaml:"zwo_skip_pattern"`
	zwoSkipRe      *regexp.Regexp

	Advice AdviceThresholds `yaml:"advice"`

	// Cron expressions (5-field); empty disables the scheduler.
	DailySchedule  string `yaml:"daily_schedule"`
	WeeklySchedule string `yaml:"weekly_schedule"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`
	LLMWorkouts     bool   `yaml:"llm_workouts"`

	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.IntervalsAPIKey, "INTERVALS_API_KEY")
	envOverrideInt(&cfg.AthleteID, "ATHLETE_ID")
	envOverride(&cfg.BaseURL, "INTERVALS_BASE_URL")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.ZWOOutputDir, "ZWO_OUTPUT_DIR")
	envOverride(&cfg.ZWOSkipPattern, "ZWO_SKIP_PATTERN")
	envOverride(&cfg.DailySchedule, "DAILY_SCHEDULE")
	envOverride(&cfg.WeeklySchedule, "WEEKLY_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.HTTPTimeoutSeconds, "HTTP_TIMEOUT_SECONDS")

	if types := os.Getenv("ALLOWED_TYPES"); types != "" {
		cfg.AllowedTypes = nil
		for _, t := range strings.Split(types, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				cfg.AllowedTypes = append(cfg.AllowedTypes, t)
			}
		}
	}

	// Defaults
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://intervals.icu"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./coachbot.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.ZWOOutputDir == "" {
		cfg.ZWOOutputDir = "./zwift"
	}
	if cfg.ZWOSkipPattern == "" {
		cfg.ZWOSkipPattern = "endurance.*z2"
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = []string{"Ride", "Gravel Ride", "Virtual Ride"}
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultAnthropicModel
	}
	if cfg.HTTPTimeoutSeconds == 0 {
		cfg.HTTPTimeoutSeconds = 30
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	defaults := DefaultAdviceThresholds()
	if cfg.Advice == (AdviceThresholds{}) {
		cfg.Advice = defaults
	} else {
		fillZeroThresholds(&cfg.Advice, defaults)
	}

	// Validate required fields
	if cfg.IntervalsAPIKey == "" {
		log.Fatalf("Required config 'intervals_api_key' is not set (via config.yaml or INTERVALS_API_KEY)")
	}
	if cfg.LLMWorkouts && cfg.AnthropicAPIKey == "" {
		log.Fatalf("anthropic_api_key is required when llm_workouts is enabled")
	}
	if cfg.SlackChannelID != "" && cfg.SlackBotToken == "" {
		log.Fatalf("slack_bot_token is required when slack_channel_id is set")
	}

	re, err := regexp.Compile("(?i)" + cfg.ZWOSkipPattern)
	if err != nil {
		log.Fatalf("invalid zwo_skip_pattern '%s': %v", cfg.ZWOSkipPattern, err)
	}
	cfg.zwoSkipRe = re

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if cfg.HTTPTimeoutSeconds < 1 {
		log.Fatalf("invalid http_timeout_seconds '%d': must be >= 1", cfg.HTTPTimeoutSeconds)
	}

	return cfg
}

// fillZeroThresholds keeps partially-specified advice blocks usable: any
// zero cutoff falls back to the shipped default. A deliberate zero threshold
// is not distinguishable, acceptable for these cutoffs since zero disables
// none of the branches sensibly.
func fillZeroThresholds(th *AdviceThresholds, d AdviceThresholds) {
	if th.HighFatigueTSB == 0 {
		th.HighFatigueTSB = d.HighFatigueTSB
	}
	if th.ModerateFatigueTSB == 0 {
		th.ModerateFatigueTSB = d.ModerateFatigueTSB
	}
	if th.FreshTSB == 0 {
		th.FreshTSB = d.FreshTSB
	}
	if th.OvershootRatio == 0 {
		th.OvershootRatio = d.OvershootRatio
	}
	if th.UndershootRatio == 0 {
		th.UndershootRatio = d.UndershootRatio
	}
	if th.HighFatigueAdjust == 0 {
		th.HighFatigueAdjust = d.HighFatigueAdjust
	}
	if th.OvershootAdjust == 0 {
		th.OvershootAdjust = d.OvershootAdjust
	}
	if th.UndershootAdjust == 0 {
		th.UndershootAdjust = d.UndershootAdjust
	}
}

// AllowedTypeSet returns the configured include list as canonical-type keys.
func (c Config) AllowedTypeSet() map[string]bool {
	allowed := make(map[string]bool, len(c.AllowedTypes))
	for _, t := range c.AllowedTypes {
		allowed[CanonicalType(t)] = true
	}
	return allowed
}

// SkipZWOName reports whether a planned workout name matches the configured
// skip pattern (free-ride style sessions that should not become ERG files).
func (c Config) SkipZWOName(name string) bool {
	if c.zwoSkipRe == nil {
		return false
	}
	return c.zwoSkipRe.MatchString(name)
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
