package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tapedeck/api/internal/dsp"
	"github.com/tapedeck/api/internal/model"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Audio     AudioConfig
	R2        R2Config
	Styles    map[model.Style]dsp.StylePreset
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	ProcessPerHour int
	QueryPerMin    int
}

type AudioConfig struct {
	MaxUploadMB        int
	MaxDurationSeconds int
	RetentionSeconds   int
	MaxPollAttempts    int
	PollIntervalMS     int
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

// PresetFor resolves a style's preset. The style set is closed, so a
// miss only happens on a config regression.
func (c *Config) PresetFor(style model.Style) (dsp.StylePreset, error) {
	preset, ok := c.Styles[style]
	if !ok {
		return dsp.StylePreset{}, fmt.Errorf("no preset configured for style %q", style)
	}
	return preset, nil
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("server.port", "3000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.process_per_hour", 20)
	viper.SetDefault("ratelimit.query_per_min", 120)
	viper.SetDefault("audio.max_upload_mb", 25)
	viper.SetDefault("audio.max_duration_seconds", 600)
	viper.SetDefault("audio.retention_seconds", 86400)
	viper.SetDefault("audio.max_poll_attempts", 60)
	viper.SetDefault("audio.poll_interval_ms", 2000)

	// Style presets. swing_amount is reserved: parsed and validated but
	// not applied by the effect chain.
	viper.SetDefault("styles.dilla.time_stretch_factor", 0.98)
	viper.SetDefault("styles.dilla.lofi_amount", 0.4)
	viper.SetDefault("styles.dilla.swing_amount", 0.3)
	viper.SetDefault("styles.albini.time_stretch_factor", 1.0)
	viper.SetDefault("styles.albini.lofi_amount", 0.15)
	viper.SetDefault("styles.albini.swing_amount", 0.0)
	viper.SetDefault("styles.burns.time_stretch_factor", 1.05)
	viper.SetDefault("styles.burns.lofi_amount", 0.7)
	viper.SetDefault("styles.burns.swing_amount", 0.1)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	styles := make(map[model.Style]dsp.StylePreset, len(model.ValidStyles))
	for _, style := range model.ValidStyles {
		prefix := fmt.Sprintf("styles.%s.", style)
		preset := dsp.StylePreset{
			TimeStretchFactor: viper.GetFloat64(prefix + "time_stretch_factor"),
			LofiAmount:        viper.GetFloat64(prefix + "lofi_amount"),
			SwingAmount:       viper.GetFloat64(prefix + "swing_amount"),
		}
		if err := preset.Validate(); err != nil {
			return nil, fmt.Errorf("style %q: %w", style, err)
		}
		styles[style] = preset
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			ProcessPerHour: viper.GetInt("ratelimit.process_per_hour"),
			QueryPerMin:    viper.GetInt("ratelimit.query_per_min"),
		},
		Audio: AudioConfig{
			MaxUploadMB:        viper.GetInt("audio.max_upload_mb"),
			MaxDurationSeconds: viper.GetInt("audio.max_duration_seconds"),
			RetentionSeconds:   viper.GetInt("audio.retention_seconds"),
			MaxPollAttempts:    viper.GetInt("audio.max_poll_attempts"),
			PollIntervalMS:     viper.GetInt("audio.poll_interval_ms"),
		},
		R2: R2Config{
			AccountID:       viper.GetString("r2.account_id"),
			AccessKeyID:     viper.GetString("r2.access_key_id"),
			SecretAccessKey: viper.GetString("r2.secret_access_key"),
			BucketName:      viper.GetString("r2.bucket_name"),
			PublicURL:       viper.GetString("r2.public_url"),
		},
		Styles: styles,
	}

	return cfg, nil
}
