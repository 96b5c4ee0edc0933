package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpggio/timestudy/internal/domain/scrub"
	"github.com/rpggio/timestudy/internal/domain/study"
	"github.com/rpggio/timestudy/internal/domain/viewport"
	"github.com/rpggio/timestudy/internal/media"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Media     MediaConfig     `yaml:"media"`
	Timeline  TimelineConfig  `yaml:"timeline"`
	Preview   PreviewConfig   `yaml:"preview"`
	Scrub     ScrubConfig     `yaml:"scrub"`
	Playback  PlaybackConfig  `yaml:"playback"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type MediaConfig struct {
	FrameRate        float64       `yaml:"frame_rate"`
	ThumbnailWidth   int           `yaml:"thumbnail_width"`
	ThumbnailHeight  int           `yaml:"thumbnail_height"`
	JPEGQuality      int           `yaml:"jpeg_quality"`
	CaptureTimeout   time.Duration `yaml:"capture_timeout"`
	ProbeConcurrency int           `yaml:"probe_concurrency"`
}

type TimelineConfig struct {
	PixelsPerSecond float64 `yaml:"pixels_per_second"`
	MinZoom         float64 `yaml:"min_zoom"`
	MaxZoom         float64 `yaml:"max_zoom"`
	WheelFactor     float64 `yaml:"wheel_factor"`
	EdgeMargin      float64 `yaml:"edge_margin"`
	ViewportWidth   float64 `yaml:"viewport_width"`
	ViewportHeight  float64 `yaml:"viewport_height"`
}

type PreviewConfig struct {
	MinZoom        float64 `yaml:"min_zoom"`
	MaxZoom        float64 `yaml:"max_zoom"`
	Step           float64 `yaml:"step"`
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	ContentWidth   float64 `yaml:"content_width"`
	ContentHeight  float64 `yaml:"content_height"`
}

type ScrubConfig struct {
	Threshold         float64       `yaml:"threshold"`
	DoubleClickWindow time.Duration `yaml:"double_click_window"`
	ThrottleInterval  time.Duration `yaml:"throttle_interval"`
}

type PlaybackConfig struct {
	ClockInterval    time.Duration `yaml:"clock_interval"`
	RenderInterval   time.Duration `yaml:"render_interval"`
	LowFidelitySpeed float64       `yaml:"low_fidelity_speed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "timestudy.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Media: MediaConfig{
			FrameRate:        study.DefaultFrameRate,
			ThumbnailWidth:   media.DefaultThumbnailWidth,
			ThumbnailHeight:  media.DefaultThumbnailHeight,
			JPEGQuality:      media.DefaultJPEGQuality,
			CaptureTimeout:   study.DefaultCaptureTimeout,
			ProbeConcurrency: study.DefaultProbeConcurrency,
		},
		Timeline: TimelineConfig{
			PixelsPerSecond: study.DefaultPixelsPerSecond,
			MinZoom:         viewport.TimelineLimits.MinZoom,
			MaxZoom:         viewport.TimelineLimits.MaxZoom,
			WheelFactor:     viewport.TimelineWheelFactor,
			EdgeMargin:      study.DefaultEdgeMargin,
			ViewportWidth:   800,
			ViewportHeight:  150,
		},
		Preview: PreviewConfig{
			MinZoom:        viewport.PreviewLimits.MinZoom,
			MaxZoom:        viewport.PreviewLimits.MaxZoom,
			Step:           viewport.PreviewZoomStep,
			ViewportWidth:  640,
			ViewportHeight: 360,
			ContentWidth:   1280,
			ContentHeight:  720,
		},
		Scrub: ScrubConfig{
			Threshold:         scrub.DefaultThreshold,
			DoubleClickWindow: scrub.DefaultDoubleClickWindow,
			ThrottleInterval:  scrub.DefaultThrottleInterval,
		},
		Playback: PlaybackConfig{
			ClockInterval:    study.DefaultPlaybackInterval,
			RenderInterval:   study.DefaultRenderInterval,
			LowFidelitySpeed: study.DefaultLowFidelitySpeed,
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables. TIMESTUDY_ENV_FILE names a dotenv file whose values fill in
// variables not already set in the environment.
func Load() (Config, error) {
	cfg := Default()

	if envFile := os.Getenv("TIMESTUDY_ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("read env file: %w", err)
		}
	}

	if path := os.Getenv("TIMESTUDY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TIMESTUDY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TIMESTUDY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESTUDY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if token := os.Getenv("TIMESTUDY_AUTH_TOKEN"); token != "" {
		cfg.Server.AuthToken = token
	}
	if mode := os.Getenv("TIMESTUDY_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("TIMESTUDY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TIMESTUDY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TIMESTUDY_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if pps := os.Getenv("TIMESTUDY_PIXELS_PER_SECOND"); pps != "" {
		v, err := strconv.ParseFloat(pps, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESTUDY_PIXELS_PER_SECOND: %w", err)
		}
		cfg.Timeline.PixelsPerSecond = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Transport.Mode == "http" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Timeline.MinZoom > c.Timeline.MaxZoom {
		return fmt.Errorf("timeline min_zoom %v exceeds max_zoom %v", c.Timeline.MinZoom, c.Timeline.MaxZoom)
	}
	if c.Preview.MinZoom > c.Preview.MaxZoom {
		return fmt.Errorf("preview min_zoom %v exceeds max_zoom %v", c.Preview.MinZoom, c.Preview.MaxZoom)
	}
	if c.Media.JPEGQuality < 0 || c.Media.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg_quality %d", c.Media.JPEGQuality)
	}
	return nil
}

// StudyOptions maps the media, view and playback sections onto session options.
func (c Config) StudyOptions() study.Options {
	return study.Options{
		PixelsPerSecond:  c.Timeline.PixelsPerSecond,
		EdgeMargin:       c.Timeline.EdgeMargin,
		TimelineViewport: viewport.Size{Width: c.Timeline.ViewportWidth, Height: c.Timeline.ViewportHeight},
		TimelineLimits:   viewport.Limits{MinZoom: c.Timeline.MinZoom, MaxZoom: c.Timeline.MaxZoom},
		WheelFactor:      c.Timeline.WheelFactor,
		PreviewViewport:  viewport.Size{Width: c.Preview.ViewportWidth, Height: c.Preview.ViewportHeight},
		PreviewContent:   viewport.Size{Width: c.Preview.ContentWidth, Height: c.Preview.ContentHeight},
		PreviewLimits:    viewport.Limits{MinZoom: c.Preview.MinZoom, MaxZoom: c.Preview.MaxZoom},
		PreviewStep:      c.Preview.Step,
		FrameRate:        c.Media.FrameRate,
		LowFidelitySpeed: c.Playback.LowFidelitySpeed,
		PlaybackInterval: c.Playback.ClockInterval,
		RenderInterval:   c.Playback.RenderInterval,
		CaptureTimeout:   c.Media.CaptureTimeout,
		ProbeConcurrency: c.Media.ProbeConcurrency,
		Scrub: scrub.Options{
			Threshold:         c.Scrub.Threshold,
			DoubleClickWindow: c.Scrub.DoubleClickWindow,
			ThrottleInterval:  c.Scrub.ThrottleInterval,
		},
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
