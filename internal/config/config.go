// Package config handles loading and validating the formantd configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/nadzzz/formantd/internal/speech"
)

// Config is the root configuration for the formantd daemon.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Transports TransportsConfig  `mapstructure:"transports"`
	Synth      SynthConfig       `mapstructure:"synth"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Targets    map[string]Target `mapstructure:"targets"`
	Logging    LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC    GRPCConfig    `mapstructure:"grpc"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
	Wyoming WyomingConfig `mapstructure:"wyoming"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled      bool  `mapstructure:"enabled"`
	Port         int   `mapstructure:"port"`
	RateLimitRPM int   `mapstructure:"rate_limit_rpm"` // per client IP, 0 disables
	RateBurst    int   `mapstructure:"rate_burst"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// MQTTConfig configures the MQTT transport.
type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"` // request subscription
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	QoS      byte   `mapstructure:"qos"`
}

// WyomingConfig configures the Wyoming protocol TTS server.
type WyomingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// SynthConfig holds the synthesis voice settings shared by every session.
type SynthConfig struct {
	SampleRate        int                    `mapstructure:"sample_rate"`
	FrameMs           int                    `mapstructure:"frame_ms"`
	F0                float64                `mapstructure:"f0"`
	Flutter           int                    `mapstructure:"flutter"`
	Cascade           int                    `mapstructure:"cascade"`
	Seed              uint32                 `mapstructure:"seed"`
	Smoothing         float64                `mapstructure:"smoothing"`
	Speed             float64                `mapstructure:"speed"`
	B1                float64                `mapstructure:"b1"`
	B2                float64                `mapstructure:"b2"`
	B3                float64                `mapstructure:"b3"`
	B4                float64                `mapstructure:"b4"`
	MaxInputBytes     int                    `mapstructure:"max_input_bytes"`
	MaxFrames         int                    `mapstructure:"max_frames"`
	MaxCardinalDigits int                    `mapstructure:"max_cardinal_digits"`
	Voices            map[string]VoiceConfig `mapstructure:"voices"`
}

// VoiceConfig overrides the base synthesis settings for a named voice.
// Zero fields keep the base value.
type VoiceConfig struct {
	F0      float64 `mapstructure:"f0"`
	Speed   float64 `mapstructure:"speed"`
	Flutter int     `mapstructure:"flutter"`
}

// CacheConfig sizes the synthesized audio cache.
type CacheConfig struct {
	Size int `mapstructure:"size"` // entries, 0 disables
}

// Target defines a downstream service in the config file.
type Target struct {
	Endpoint string `mapstructure:"endpoint"`
	Protocol string `mapstructure:"protocol"`
	Token    string `mapstructure:"token"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// SessionConfig converts the base settings to a speech.Config.
func (s SynthConfig) SessionConfig() speech.Config {
	return speech.Config{
		SampleRate:        s.SampleRate,
		FrameMs:           s.FrameMs,
		F0Hz:              s.F0,
		Flutter:           s.Flutter,
		Cascade:           s.Cascade,
		Seed:              s.Seed,
		Smoothing:         s.Smoothing,
		Speed:             s.Speed,
		B1Hz:              s.B1,
		B2Hz:              s.B2,
		B3Hz:              s.B3,
		B4Hz:              s.B4,
		MaxInputBytes:     s.MaxInputBytes,
		MaxFrames:         s.MaxFrames,
		MaxCardinalDigits: s.MaxCardinalDigits,
	}
}

// VoiceSessionConfigs returns the speech.Config of every voice, including
// "default" for the base settings.
func (s SynthConfig) VoiceSessionConfigs() map[string]speech.Config {
	out := make(map[string]speech.Config, len(s.Voices)+1)
	out[DefaultVoice] = s.SessionConfig()
	for name, v := range s.Voices {
		c := s.SessionConfig()
		if v.F0 > 0 {
			c.F0Hz = v.F0
		}
		if v.Speed > 0 {
			c.Speed = v.Speed
		}
		if v.Flutter > 0 {
			c.Flutter = v.Flutter
		}
		out[strings.ToLower(name)] = c
	}
	return out
}

// DefaultVoice names the voice built from the base synth settings.
const DefaultVoice = "default"

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./formantd.yaml, ./configs/formantd.yaml, /etc/formantd/formantd.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	def := speech.DefaultConfig()
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", true)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("transports.http.rate_limit_rpm", 120)
	v.SetDefault("transports.http.rate_burst", 10)
	v.SetDefault("transports.http.max_body_bytes", 1<<20)
	v.SetDefault("transports.mqtt.enabled", false)
	v.SetDefault("transports.mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("transports.mqtt.topic", "formantd/speak")
	v.SetDefault("transports.mqtt.client_id", "formantd")
	v.SetDefault("transports.mqtt.qos", 1)
	v.SetDefault("transports.wyoming.enabled", false)
	v.SetDefault("transports.wyoming.port", 10200)
	v.SetDefault("synth.sample_rate", def.SampleRate)
	v.SetDefault("synth.frame_ms", def.FrameMs)
	v.SetDefault("synth.f0", def.F0Hz)
	v.SetDefault("synth.flutter", def.Flutter)
	v.SetDefault("synth.cascade", def.Cascade)
	v.SetDefault("synth.seed", def.Seed)
	v.SetDefault("synth.smoothing", def.Smoothing)
	v.SetDefault("synth.speed", def.Speed)
	v.SetDefault("synth.b1", def.B1Hz)
	v.SetDefault("synth.b2", def.B2Hz)
	v.SetDefault("synth.b3", def.B3Hz)
	v.SetDefault("synth.b4", def.B4Hz)
	v.SetDefault("synth.max_input_bytes", 64<<10)
	v.SetDefault("synth.max_frames", 60*100) // one minute of 10 ms frames
	v.SetDefault("synth.max_cardinal_digits", def.MaxCardinalDigits)
	v.SetDefault("cache.size", 256)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("formantd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/formantd")
	}

	// Environment variables: FORMANTD_SERVER_HEALTH_PORT, FORMANTD_SYNTH_F0, etc.
	v.SetEnvPrefix("FORMANTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${MQTT_PASSWORD}")
	cfg.Transports.MQTT.Password = resolveEnvRef(cfg.Transports.MQTT.Password)
	for name, target := range cfg.Targets {
		target.Token = resolveEnvRef(target.Token)
		cfg.Targets[name] = target
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	for name, sc := range c.Synth.VoiceSessionConfigs() {
		if _, err := speech.NewSession(sc); err != nil {
			return fmt.Errorf("voice %q: %w", name, err)
		}
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative")
	}
	if c.Transports.MQTT.QoS > 2 {
		return fmt.Errorf("transports.mqtt.qos %d outside 0-2", c.Transports.MQTT.QoS)
	}
	for name, t := range c.Targets {
		if t.Endpoint == "" {
			return fmt.Errorf("target %q has no endpoint", name)
		}
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	slog.SetDefault(slog.New(NewHandler(cfg, os.Stdout)))
}

// NewHandler builds the slog handler SetupLogging installs.
func NewHandler(cfg LoggingConfig, w io.Writer) slog.Handler {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.ToLower(cfg.Format) == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
