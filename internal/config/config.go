package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// TTLConf holds the two independent expiry windows. Engagement is the short
// window after which reactions/comments go quiet; Storage is the longer window
// for the video record itself (and for votes, which deliberately outlive the
// discussion). The two must not be conflated.
type TTLConf struct {
	EngagementSeconds int `mapstructure:"engagement_seconds"`
	StorageSeconds    int `mapstructure:"storage_seconds"`
}

type PulseConf struct {
	ImmediateSeconds int `mapstructure:"immediate_seconds"`
	RecentSeconds    int `mapstructure:"recent_seconds"`
}

// CommentConf is the gatekeeper tuning surface.
type CommentConf struct {
	ProximityRadiusM        float64 `mapstructure:"proximity_radius_m"`
	SessionFreshnessSeconds int     `mapstructure:"session_freshness_seconds"`
	MaxLength               int     `mapstructure:"max_length"`
	RateLimitSeconds        int     `mapstructure:"rate_limit_seconds"`
}

type ZoneConf struct {
	AssignMaxDistanceM float64    `mapstructure:"assign_max_distance_m"`
	Seeds              []ZoneSeed `mapstructure:"seeds"`
}

// ZoneSeed is one statically configured presence zone.
type ZoneSeed struct {
	ID        string  `mapstructure:"id"`
	Lat       float64 `mapstructure:"lat"`
	Lng       float64 `mapstructure:"lng"`
	RadiusM   float64 `mapstructure:"radius_m"`
	Intensity float64 `mapstructure:"intensity"`
	Label     string  `mapstructure:"label"`
}

type VisionConf struct {
	URL            string  `mapstructure:"url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries"`
	BackoffMs      int     `mapstructure:"backoff_ms"`
	RatePerSecond  float64 `mapstructure:"rate_per_second"`
}

type FramesConf struct {
	Count  int `mapstructure:"count"`
	MaxDim int `mapstructure:"max_dim"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type Config struct {
	App     AppConf     `mapstructure:"app"`
	TTL     TTLConf     `mapstructure:"ttl"`
	Pulse   PulseConf   `mapstructure:"pulse"`
	Comment CommentConf `mapstructure:"comment"`
	Zone    ZoneConf    `mapstructure:"zone"`
	Vision  VisionConf  `mapstructure:"vision"`
	Frames  FramesConf  `mapstructure:"frames"`
	AWS     AWSConf     `mapstructure:"aws"`

	TokenSecret string `mapstructure:"token_secret"`
	Storage     string `mapstructure:"storage"` // "s3" or "memory"
	Log         struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	EngagementTTL          time.Duration
	StorageTTL             time.Duration
	PulseImmediateWindow   time.Duration
	PulseRecentWindow      time.Duration
	SessionFreshnessWindow time.Duration
	CommentRateLimitWindow time.Duration
	VisionTimeout          time.Duration
	VisionBackoffBase      time.Duration
}

// Load reads configuration from the given file (optional) with environment
// variable overrides, applies defaults, and derives the duration fields.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("STREETPULSE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.EngagementTTL = time.Duration(cfg.TTL.EngagementSeconds) * time.Second
	cfg.StorageTTL = time.Duration(cfg.TTL.StorageSeconds) * time.Second
	cfg.PulseImmediateWindow = time.Duration(cfg.Pulse.ImmediateSeconds) * time.Second
	cfg.PulseRecentWindow = time.Duration(cfg.Pulse.RecentSeconds) * time.Second
	cfg.SessionFreshnessWindow = time.Duration(cfg.Comment.SessionFreshnessSeconds) * time.Second
	cfg.CommentRateLimitWindow = time.Duration(cfg.Comment.RateLimitSeconds) * time.Second
	cfg.VisionTimeout = time.Duration(cfg.Vision.TimeoutSeconds) * time.Second
	cfg.VisionBackoffBase = time.Duration(cfg.Vision.BackoffMs) * time.Millisecond

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", ":8080")

	v.SetDefault("ttl.engagement_seconds", 3600)  // 1h: reactions/comments window
	v.SetDefault("ttl.storage_seconds", 6*3600)   // 6h: video record + votes

	v.SetDefault("pulse.immediate_seconds", 60)
	v.SetDefault("pulse.recent_seconds", 300)

	v.SetDefault("comment.proximity_radius_m", 100.0)
	v.SetDefault("comment.session_freshness_seconds", 1800)
	v.SetDefault("comment.max_length", 200)
	v.SetDefault("comment.rate_limit_seconds", 30)

	v.SetDefault("zone.assign_max_distance_m", 300.0)

	v.SetDefault("vision.url", "")
	v.SetDefault("vision.model", "scene-describe-v2")
	v.SetDefault("vision.timeout_seconds", 30)
	v.SetDefault("vision.max_retries", 3)
	v.SetDefault("vision.backoff_ms", 1000)
	v.SetDefault("vision.rate_per_second", 2.0)

	v.SetDefault("frames.count", 3)
	v.SetDefault("frames.max_dim", 512)

	v.SetDefault("storage", "memory")
	v.SetDefault("token_secret", "dev-secret-change-in-production")
	v.SetDefault("log.level", "info")
}

// validate rejects malformed configuration outright; this is the one place a
// bad value should stop the process instead of surfacing later as odd TTL math.
func (c *Config) validate() error {
	if c.TTL.EngagementSeconds <= 0 || c.TTL.StorageSeconds <= 0 {
		return fmt.Errorf("config: TTLs must be positive")
	}
	if c.TTL.EngagementSeconds > c.TTL.StorageSeconds {
		return fmt.Errorf("config: engagement TTL must not exceed storage TTL")
	}
	if c.Zone.AssignMaxDistanceM <= 0 {
		return fmt.Errorf("config: zone.assign_max_distance_m must be positive")
	}
	if c.Frames.Count <= 0 {
		return fmt.Errorf("config: frames.count must be positive")
	}
	if c.Vision.MaxRetries < 0 {
		return fmt.Errorf("config: vision.max_retries must not be negative")
	}
	return nil
}
