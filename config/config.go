package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"trilion/internal/appdirs"

	"github.com/BurntSushi/toml"
)

type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type App struct {
	Proxy       string   `toml:"proxy"`
	ParsedProxy *url.URL `toml:"-"`
}

// OpenaiCompatibleConfig covers any OpenAI-compatible endpoint.
type OpenaiCompatibleConfig struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type AnalyzerConfig struct {
	Command       string `toml:"command"`
	Script        string `toml:"script"`
	TimeoutSecond int    `toml:"timeout_second"`
}

type DownloaderConfig struct {
	YtdlpPath            string `toml:"ytdlp_path"`
	FfmpegPath           string `toml:"ffmpeg_path"`
	AttemptTimeoutSecond int    `toml:"attempt_timeout_second"`
}

type PipelineConfig struct {
	MediaDir         string `toml:"media_dir"`
	StrictTimestamps bool   `toml:"strict_timestamps"`
	DeadlineMinute   int    `toml:"deadline_minute"`
	MaxParallelClips int    `toml:"max_parallel_clips"`
	Platform         string `toml:"platform"`
}

type OssConfig struct {
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	Bucket          string `toml:"bucket"`
	AccessKeyId     string `toml:"access_key_id"`
	AccessKeySecret string `toml:"access_key_secret"`
	Prefix          string `toml:"prefix"`
}

type PublishConfig struct {
	Provider string    `toml:"provider"` // local | oss
	BaseUrl  string    `toml:"base_url"`
	Oss      OssConfig `toml:"oss"`
}

type QueueConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Concurrency   int    `toml:"concurrency"`
}

type Config struct {
	Server     Server                 `toml:"server"`
	App        App                    `toml:"app"`
	Llm        OpenaiCompatibleConfig `toml:"llm"`
	Transcribe OpenaiCompatibleConfig `toml:"transcribe"`
	Analyzer   AnalyzerConfig         `toml:"analyzer"`
	Downloader DownloaderConfig       `toml:"downloader"`
	Pipeline   PipelineConfig         `toml:"pipeline"`
	Publish    PublishConfig          `toml:"publish"`
	Queue      QueueConfig            `toml:"queue"`
}

var Conf Config

var resolveConfigPath = func() (string, error) {
	dirs, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return dirs.ConfigFile, nil
}

// ResolveConfigPath returns the config file location for the current layout.
func ResolveConfigPath() (string, error) {
	return resolveConfigPath()
}

func defaultConfig() Config {
	return Config{
		Server: Server{
			Host: "0.0.0.0",
			Port: 10000,
		},
		Llm: OpenaiCompatibleConfig{
			Model: "gpt-4o",
		},
		Transcribe: OpenaiCompatibleConfig{
			Model: "whisper-1",
		},
		Analyzer: AnalyzerConfig{
			Command:       "python3",
			Script:        "intelligent_clip_analyzer.py",
			TimeoutSecond: 300,
		},
		Downloader: DownloaderConfig{
			AttemptTimeoutSecond: 300,
		},
		Pipeline: PipelineConfig{
			StrictTimestamps: false,
			DeadlineMinute:   30,
			MaxParallelClips: 1,
			Platform:         "tiktok",
		},
		Publish: PublishConfig{
			Provider: "local",
		},
		Queue: QueueConfig{
			RedisAddr:   "localhost:6379",
			Concurrency: 3,
		},
	}
}

// LoadOrCreateConfig loads the config file, writing the default scaffold
// when it does not exist yet. Returns true when a new file was created.
func LoadOrCreateConfig() (bool, error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, err = os.Stat(configPath); os.IsNotExist(err) {
		Conf = defaultConfig()
		if err = SaveConfig(); err != nil {
			return false, err
		}
		return true, nil
	} else if err != nil {
		return false, err
	}

	Conf = defaultConfig()
	if _, err = toml.DecodeFile(configPath, &Conf); err != nil {
		return false, fmt.Errorf("failed to decode config %s: %w", configPath, err)
	}
	return false, nil
}

// SaveConfig writes the current Conf to the config file, creating parent
// directories as needed.
func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(Conf)
}

// CheckConfig applies environment overrides and validates required fields.
// API keys are deliberately env-overridable so secrets stay out of the file.
func CheckConfig() error {
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" && Conf.Transcribe.ApiKey == "" {
		Conf.Transcribe.ApiKey = key
	}
	if key := strings.TrimSpace(os.Getenv("LLM_API_KEY")); key != "" && Conf.Llm.ApiKey == "" {
		Conf.Llm.ApiKey = key
	}
	if base := strings.TrimSpace(os.Getenv("LLM_BASE_URL")); base != "" && Conf.Llm.BaseUrl == "" {
		Conf.Llm.BaseUrl = base
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &Conf.Server.Port); err != nil {
			return fmt.Errorf("invalid PORT env value %q", port)
		}
	}

	if Conf.Server.Port <= 0 || Conf.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", Conf.Server.Port)
	}

	if Conf.App.Proxy != "" {
		parsed, err := url.Parse(Conf.App.Proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy address %q: %w", Conf.App.Proxy, err)
		}
		Conf.App.ParsedProxy = parsed
	}

	if Conf.Publish.Provider == "oss" {
		if Conf.Publish.Oss.Bucket == "" || Conf.Publish.Oss.Region == "" {
			return fmt.Errorf("oss publisher requires bucket and region")
		}
	}

	return nil
}
