package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Download      DownloadConfig      `yaml:"download"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	FFmpeg        FFmpegConfig        `yaml:"ffmpeg"`
	Summarizer    SummarizerConfig    `yaml:"summarizer"`
	Watch         WatchConfig         `yaml:"watch"`
	Server        ServerConfig        `yaml:"server"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type PipelineConfig struct {
	ScratchDir        string `yaml:"scratch_dir"`
	ArchiveDir        string `yaml:"archive_dir"`
	DeliveryMaxMB     int    `yaml:"delivery_max_mb"`
	AudioChunkSeconds int    `yaml:"audio_chunk_seconds"`
}

type DownloadConfig struct {
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
	MaxTimeSeconds        int    `yaml:"max_time_seconds"`
	ExtractTimeoutSeconds int    `yaml:"extract_timeout_seconds"`
	MaxFilesize           string `yaml:"max_filesize"`
	CookiesFile           string `yaml:"cookies_file"`
	ProxyFile             string `yaml:"proxy_file"`
}

type TranscriptionConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	Language       string `yaml:"language"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxUploadMB    int    `yaml:"max_upload_mb"`
}

type FFmpegConfig struct {
	CRF              int    `yaml:"crf"`
	Preset           string `yaml:"preset"`
	MaxHeight        int    `yaml:"max_height"`
	AudioBitrateKbps int    `yaml:"audio_bitrate_kbps"`
}

type SummarizerConfig struct {
	Model string `yaml:"model"`
}

type WatchConfig struct {
	RequestsDir string `yaml:"requests_dir"`
	OutputDir   string `yaml:"output_dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates the yaml config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Pipeline.ScratchDir == "" {
		return fmt.Errorf("pipeline.scratch_dir is required")
	}
	if c.Pipeline.DeliveryMaxMB <= 0 {
		return fmt.Errorf("pipeline.delivery_max_mb must be positive")
	}
	if c.Transcription.Model == "" {
		return fmt.Errorf("transcription.model is required")
	}

	if c.Pipeline.AudioChunkSeconds == 0 {
		c.Pipeline.AudioChunkSeconds = 600
	}
	if c.Download.ConnectTimeoutSeconds == 0 {
		c.Download.ConnectTimeoutSeconds = 15
	}
	if c.Download.MaxTimeSeconds == 0 {
		c.Download.MaxTimeSeconds = 600
	}
	if c.Download.ExtractTimeoutSeconds == 0 {
		c.Download.ExtractTimeoutSeconds = 600
	}
	if c.Download.MaxFilesize == "" {
		c.Download.MaxFilesize = "2G"
	}
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.openai.com/v1"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "en"
	}
	if c.Transcription.TimeoutSeconds == 0 {
		c.Transcription.TimeoutSeconds = 300
	}
	if c.Transcription.MaxUploadMB == 0 {
		c.Transcription.MaxUploadMB = 25
	}
	if c.FFmpeg.CRF == 0 {
		c.FFmpeg.CRF = 28
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "veryfast"
	}
	if c.FFmpeg.MaxHeight == 0 {
		c.FFmpeg.MaxHeight = 720
	}
	if c.FFmpeg.AudioBitrateKbps == 0 {
		c.FFmpeg.AudioBitrateKbps = 128
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gemini-2.5-flash"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
