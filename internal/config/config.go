package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Limits struct {
		MaxUploadMB int `yaml:"maxUploadMB"`
		MaxFiles    int `yaml:"maxFiles"`
	} `yaml:"limits"`

	Dirs struct {
		Uploads   string `yaml:"uploads"`
		Downloads string `yaml:"downloads"`
	} `yaml:"dirs"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | "" (in-memory)
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	FFmpeg struct {
		Binary         string `yaml:"binary"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"ffmpeg"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Limits.MaxUploadMB == 0 {
		c.Limits.MaxUploadMB = 500
	}
	if c.Limits.MaxFiles == 0 {
		c.Limits.MaxFiles = 10
	}
	if c.Dirs.Uploads == "" {
		c.Dirs.Uploads = "uploads"
	}
	if c.Dirs.Downloads == "" {
		c.Dirs.Downloads = "downloads"
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.TimeoutSeconds == 0 {
		c.FFmpeg.TimeoutSeconds = 300
	}
}

// MaxUploadBytes helper untuk multipart limit
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Limits.MaxUploadMB) * 1024 * 1024
}

// FFmpegTimeout as a duration.
func (c *Config) FFmpegTimeout() time.Duration {
	return time.Duration(c.FFmpeg.TimeoutSeconds) * time.Second
}

// DatabaseDSN resolves the connection string. DATABASE_URL or
// POSTGRES_URL take precedence over the yaml fields; either implies
// the postgres driver unless one is set explicitly.
func (c *Config) DatabaseDSN() (driver, dsn string) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return driverOr(c.Database.Driver, "postgres"), v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		return driverOr(c.Database.Driver, "postgres"), v
	}
	if c.Database.Host == "" || c.Database.Driver == "" {
		return "", ""
	}
	switch c.Database.Driver {
	case "mysql":
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
	case "postgres":
		return "postgres", fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
	}
	return "", ""
}

func driverOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
