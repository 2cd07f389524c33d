package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YKarmar/JobTracker/internal/input"
)

type Config struct {
	IMAP struct {
		Host              string   `yaml:"host"`
		Email             string   `yaml:"email"`
		Password          string   `yaml:"password"`
		UseTLS            bool     `yaml:"use_tls"`
		Provider          string   `yaml:"provider"`
		OAuthClientID     string   `yaml:"oauth_client_id"`
		OAuthClientSecret string   `yaml:"oauth_client_secret"`
		OAuthRefreshToken string   `yaml:"oauth_refresh_token"`
		Folders           []string `yaml:"folders"`
	} `yaml:"imap"`
	Server struct {
		Listen   string `yaml:"listen"`   // serve 监听地址
		Endpoint string `yaml:"endpoint"` // 客户端调用的地址，为空时本地解析
		APIKey   string `yaml:"api_key"`
	} `yaml:"server"`
	Fetch struct {
		Start     string `yaml:"start"` // YYYY-MM-DD or RFC3339
		End       string `yaml:"end"`   // YYYY-MM-DD or RFC3339
		MaxEmails int    `yaml:"max_emails"`
		Sender    string `yaml:"sender"`
	} `yaml:"fetch"`
	Input struct {
		File    string        `yaml:"file"`
		Columns input.Columns `yaml:"columns"`
	} `yaml:"input"`
	Parse struct {
		Workers      int  `yaml:"workers"`
		MaxBodyBytes int  `yaml:"max_body_bytes"`
		AllSenders   bool `yaml:"all_senders"`
	} `yaml:"parse"`
	Export struct {
		JSON       string `yaml:"json"`
		CSV        string `yaml:"csv"`
		XLSX       string `yaml:"xlsx"`
		Statistics string `yaml:"statistics"`
	} `yaml:"export"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load 加载配置文件并替换环境变量
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse 解析 YAML 配置并补全默认值。空输入得到全部默认值
func Parse(b []byte) (*Config, error) {
	// 替换环境变量 ${VAR_NAME} 格式
	content := expandEnvVars(string(b))

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.setDefaults()
	if _, err := cfg.LogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 不读文件时使用的配置
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (cfg *Config) setDefaults() {
	if cfg.IMAP.Provider == "" && cfg.IMAP.Email != "" {
		cfg.IMAP.Provider = inferEmailProvider(cfg.IMAP.Email)
	}
	if cfg.IMAP.Host == "" && cfg.IMAP.Email != "" {
		cfg.IMAP.Host = inferIMAPHost(cfg.IMAP.Email)
		if cfg.IMAP.Host != "" {
			cfg.IMAP.UseTLS = true
		}
	}
	if cfg.IMAP.Password == "" {
		cfg.IMAP.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if cfg.IMAP.Password == "" {
		cfg.IMAP.Password = os.Getenv("EMAIL_APP_PASSWORD")
	}
	// 默认文件夹配置根据邮箱提供商调整
	if len(cfg.IMAP.Folders) == 0 {
		cfg.IMAP.Folders = getDefaultFolders(cfg.IMAP.Provider)
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}

	if cfg.Fetch.MaxEmails <= 0 {
		cfg.Fetch.MaxEmails = 100
	}
	if cfg.Fetch.Sender == "" {
		cfg.Fetch.Sender = "linkedin.com"
	}

	cfg.Input.Columns = cfg.Input.Columns.WithDefaults()

	if cfg.Parse.Workers <= 0 {
		cfg.Parse.Workers = runtime.NumCPU()
	}
	if cfg.Parse.MaxBodyBytes <= 0 {
		cfg.Parse.MaxBodyBytes = 500 * 1024
	}

	if cfg.Export.CSV == "" {
		cfg.Export.CSV = "jobs.csv"
	}
	if cfg.Export.Statistics == "" {
		cfg.Export.Statistics = "job_statistics.csv"
	}

	if cfg.Log.File == "" {
		cfg.Log.File = "jobtracker.log"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// ValidateIMAP 抓取邮件前检查 IMAP 配置
func (cfg *Config) ValidateIMAP() error {
	if cfg.IMAP.Email == "" {
		return fmt.Errorf("imap.email is required")
	}
	if cfg.IMAP.Host == "" {
		return fmt.Errorf("imap.host is required for provider %q", cfg.IMAP.Provider)
	}
	return nil
}

// LogLevel 解析 log.level
func (cfg *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// FetchWindow 抓取时间范围，默认最近 7 天
func (cfg *Config) FetchWindow(now time.Time) (start, end time.Time) {
	start = ParseDateLoose(cfg.Fetch.Start, now.AddDate(0, 0, -7))
	end = ParseDateLoose(cfg.Fetch.End, now)
	return start, end
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars 替换 ${VAR_NAME} 格式的环境变量
func expandEnvVars(content string) string {
	return envVarRe.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // 去掉 ${ 和 }
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // 如果环境变量不存在，保持原样
	})
}

// inferEmailProvider 根据邮箱地址推断提供商
func inferEmailProvider(email string) string {
	email = strings.ToLower(email)

	if strings.HasSuffix(email, "@gmail.com") || strings.HasSuffix(email, "@googlemail.com") {
		return "gmail"
	}
	if strings.HasSuffix(email, "@outlook.com") || strings.HasSuffix(email, "@hotmail.com") || strings.HasSuffix(email, "@live.com") {
		return "outlook"
	}
	if strings.HasSuffix(email, "@yahoo.com") || strings.Contains(email, "@yahoo.co.") {
		return "yahoo"
	}
	return "custom"
}

// inferIMAPHost 根据邮箱地址推断IMAP主机
func inferIMAPHost(email string) string {
	switch inferEmailProvider(email) {
	case "gmail":
		return "imap.gmail.com:993"
	case "outlook":
		return "outlook.office365.com:993"
	case "yahoo":
		return "imap.mail.yahoo.com:993"
	default:
		return "" // 需要手动配置
	}
}

// getDefaultFolders 根据邮箱提供商返回默认文件夹
func getDefaultFolders(provider string) []string {
	switch provider {
	case "gmail":
		return []string{"INBOX", "[Gmail]/All Mail"}
	default:
		return []string{"INBOX"}
	}
}

func ParseDateLoose(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return def
}
