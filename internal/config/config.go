package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	HTTPAddr string

	// DB
	Env         string // "dev" | "prod"
	DBPath      string // e.g. "./data/kiosk.db"
	TripLogPath string // human-readable trip log; empty disables

	// Card payload key (AES-128/192/256). The dev default matches the bench
	// card stock; production rigs must override it.
	CardKey string

	// Supervisor PIN gate. When SupervisorPINHash (bcrypt) is set it takes
	// precedence over the plain PIN.
	SupervisorPIN     string
	SupervisorPINHash string

	// Engine timing
	TickPeriod      time.Duration // boarding poll cadence
	CardReadTimeout time.Duration // bound for one card read

	FingerPromptDelay time.Duration // card accepted -> fingerprint prompt
	FingerTimeout     time.Duration // bound for one fingerprint capture

	AdmitDisplay        time.Duration // success scene duration
	CardRejectDisplay   time.Duration // card-failed scene duration
	FingerRejectDisplay time.Duration // finger-failed scene duration

	// Headcount
	HeadcountWarmup        time.Duration // processing scene before sampling
	HeadcountSamples       int
	HeadcountSampleDelay   time.Duration
	HeadcountResultDisplay time.Duration // result scene before trip start
}

func FromEnv() Config {
	env := strings.ToLower(getenvDefault("KIOSK_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	cfg := Config{
		HTTPAddr: getenvDefault("KIOSK_HTTP_ADDR", ":8080"),

		Env:         env,
		DBPath:      getenvDefault("KIOSK_DB_PATH", "./data/kiosk.db"),
		TripLogPath: getenvDefault("KIOSK_TRIP_LOG", "./data/trip_log.txt"),

		CardKey: getenvDefault("KIOSK_CARD_KEY", "1234567890ABCDEF"),

		SupervisorPIN:     getenvDefault("KIOSK_SUPERVISOR_PIN", "1234"),
		SupervisorPINHash: os.Getenv("KIOSK_SUPERVISOR_PIN_HASH"),

		TickPeriod:      getenvMillis("KIOSK_TICK_MS", 1000),
		CardReadTimeout: getenvMillis("KIOSK_CARD_READ_TIMEOUT_MS", 100),

		FingerPromptDelay: getenvMillis("KIOSK_FINGER_PROMPT_DELAY_MS", 2000),
		FingerTimeout:     getenvMillis("KIOSK_FINGER_TIMEOUT_MS", 30000),

		AdmitDisplay:        getenvMillis("KIOSK_ADMIT_DISPLAY_MS", 3000),
		CardRejectDisplay:   getenvMillis("KIOSK_CARD_REJECT_DISPLAY_MS", 5000),
		FingerRejectDisplay: getenvMillis("KIOSK_FINGER_REJECT_DISPLAY_MS", 3000),

		HeadcountWarmup:        getenvMillis("KIOSK_HEADCOUNT_WARMUP_MS", 1500),
		HeadcountSamples:       getenvInt("KIOSK_HEADCOUNT_SAMPLES", 3),
		HeadcountSampleDelay:   getenvMillis("KIOSK_HEADCOUNT_SAMPLE_DELAY_MS", 500),
		HeadcountResultDisplay: getenvMillis("KIOSK_HEADCOUNT_RESULT_DISPLAY_MS", 5000),
	}

	return cfg
}

// Load builds the config from the environment, then overlays the TOML file
// named by KIOSK_CONFIG (or path, when non-empty). A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := FromEnv()

	if path == "" {
		path = os.Getenv("KIOSK_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var f fileConfig
	if err := toml.Unmarshal(b, &f); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	f.apply(&cfg)
	return cfg, nil
}

// fileConfig is the TOML overlay. Zero values leave the env-derived setting
// untouched; durations are milliseconds.
type fileConfig struct {
	HTTPAddr    string `toml:"http_addr"`
	Env         string `toml:"env"`
	DBPath      string `toml:"db_path"`
	TripLogPath string `toml:"trip_log"`

	CardKey           string `toml:"card_key"`
	SupervisorPIN     string `toml:"supervisor_pin"`
	SupervisorPINHash string `toml:"supervisor_pin_hash"`

	TickMs            int `toml:"tick_ms"`
	CardReadTimeoutMs int `toml:"card_read_timeout_ms"`

	FingerPromptDelayMs int `toml:"finger_prompt_delay_ms"`
	FingerTimeoutMs     int `toml:"finger_timeout_ms"`

	AdmitDisplayMs        int `toml:"admit_display_ms"`
	CardRejectDisplayMs   int `toml:"card_reject_display_ms"`
	FingerRejectDisplayMs int `toml:"finger_reject_display_ms"`

	HeadcountWarmupMs        int `toml:"headcount_warmup_ms"`
	HeadcountSamples         int `toml:"headcount_samples"`
	HeadcountSampleDelayMs   int `toml:"headcount_sample_delay_ms"`
	HeadcountResultDisplayMs int `toml:"headcount_result_display_ms"`
}

func (f fileConfig) apply(cfg *Config) {
	setStr := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	setDur := func(dst *time.Duration, ms int) {
		if ms > 0 {
			*dst = time.Duration(ms) * time.Millisecond
		}
	}

	setStr(&cfg.HTTPAddr, f.HTTPAddr)
	setStr(&cfg.Env, strings.ToLower(f.Env))
	setStr(&cfg.DBPath, f.DBPath)
	setStr(&cfg.TripLogPath, f.TripLogPath)
	setStr(&cfg.CardKey, f.CardKey)
	setStr(&cfg.SupervisorPIN, f.SupervisorPIN)
	setStr(&cfg.SupervisorPINHash, f.SupervisorPINHash)

	setDur(&cfg.TickPeriod, f.TickMs)
	setDur(&cfg.CardReadTimeout, f.CardReadTimeoutMs)
	setDur(&cfg.FingerPromptDelay, f.FingerPromptDelayMs)
	setDur(&cfg.FingerTimeout, f.FingerTimeoutMs)
	setDur(&cfg.AdmitDisplay, f.AdmitDisplayMs)
	setDur(&cfg.CardRejectDisplay, f.CardRejectDisplayMs)
	setDur(&cfg.FingerRejectDisplay, f.FingerRejectDisplayMs)
	setDur(&cfg.HeadcountWarmup, f.HeadcountWarmupMs)
	setDur(&cfg.HeadcountSampleDelay, f.HeadcountSampleDelayMs)
	setDur(&cfg.HeadcountResultDisplay, f.HeadcountResultDisplayMs)

	if f.HeadcountSamples > 0 {
		cfg.HeadcountSamples = f.HeadcountSamples
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func getenvMillis(key string, defMs int) time.Duration {
	return time.Duration(getenvInt(key, defMs)) * time.Millisecond
}
