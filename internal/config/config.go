// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "simplemedia"

// Config структура для хранения конфигурации приложения
type Config struct {
	InitialVolume      *float64 `yaml:"initial_volume"`
	VolumeStep         float64  `yaml:"volume_step"`
	SeekStepSeconds    int      `yaml:"seek_step_seconds"`
	PositionIntervalMs int      `yaml:"position_interval_ms"`
	Extensions         []string `yaml:"extensions"`
	MusicDir           string   `yaml:"music_dir"`
	PlaceholderArt     string   `yaml:"placeholder_art"`
	LogFile            string   `yaml:"log_file"`
	Mpris              *bool    `yaml:"mpris"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
}

// DefaultPath возвращает путь к файлу конфигурации по умолчанию
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, возвращаются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	if filePath == "" {
		filePath = DefaultPath()
	}
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
		}
	}

	cfg.applyDefaults()

	// Раскрываем тильду в путях
	for _, p := range []*string{&cfg.MusicDir, &cfg.PlaceholderArt, &cfg.LogFile} {
		if *p == "" {
			continue
		}
		if *p, err = expandHome(*p); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.InitialVolume == nil {
		volume := 0.25
		c.InitialVolume = &volume
	}
	if c.VolumeStep == 0 {
		c.VolumeStep = 0.15
	}
	if c.SeekStepSeconds == 0 {
		c.SeekStepSeconds = 5
	}
	if c.PositionIntervalMs == 0 {
		c.PositionIntervalMs = 250
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".mp3"}
	}
	if c.MusicDir == "" {
		c.MusicDir = "~/Music"
	}
	if c.Mpris == nil {
		enabled := true
		c.Mpris = &enabled
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if v := c.Volume(); v < 0 || v > 1 {
		return fmt.Errorf("initial_volume должен быть в диапазоне [0, 1], получено %v", v)
	}
	if c.VolumeStep <= 0 || c.VolumeStep > 1 {
		return fmt.Errorf("volume_step должен быть в диапазоне (0, 1], получено %v", c.VolumeStep)
	}
	if c.SeekStepSeconds < 0 {
		return fmt.Errorf("seek_step_seconds не может быть отрицательным: %d", c.SeekStepSeconds)
	}
	if c.PositionIntervalMs < 0 {
		return fmt.Errorf("position_interval_ms не может быть отрицательным: %d", c.PositionIntervalMs)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("расширение должно начинаться с точки: %q", ext)
		}
	}
	return nil
}

// Volume возвращает начальную громкость. Явный 0 означает тишину.
func (c *Config) Volume() float64 {
	if c.InitialVolume == nil {
		return 0.25
	}
	return *c.InitialVolume
}

// SeekStep возвращает шаг перемотки
func (c *Config) SeekStep() time.Duration {
	return time.Duration(c.SeekStepSeconds) * time.Second
}

// PositionInterval возвращает период обновления позиции
func (c *Config) PositionInterval() time.Duration {
	return time.Duration(c.PositionIntervalMs) * time.Millisecond
}

// MprisEnabled возвращает true, если нужно регистрировать сервис MPRIS
func (c *Config) MprisEnabled() bool {
	return c.Mpris == nil || *c.Mpris
}

// HasS3 возвращает true, если задан источник S3
func (c *Config) HasS3() bool {
	return c.AwsBucketName != "" && c.AwsRegion != ""
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(path, "~", home, 1), nil
}
