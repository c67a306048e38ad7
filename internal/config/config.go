// 包 config 负责加载与校验应用配置（settings.yaml），
// 对外提供结构体 Config 及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL      = "https://api.spacexdata.com/v4"
	DefaultPageSize     = 15
	DefaultFavoritesKey = "spacex-favorites"
	DefaultFavoritesDSN = "./favorites.db"
)

type Config struct {
	API       API       `yaml:"API"`
	PageSize  int       `yaml:"PAGE_SIZE"`
	Favorites Favorites `yaml:"FAVORITES"`
	Detail    Detail    `yaml:"DETAIL"`
	Proxy     Proxy     `yaml:"PROXY"`
	LogLevel  string    `yaml:"LOG_LEVEL"`
	LogFormat string    `yaml:"LOG_FORMAT"` // text|json|pretty
	LogLocale string    `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor  string    `yaml:"LOG_COLOR"`  // auto|always|never
}

type API struct {
	BaseURL string `yaml:"base_url"`
	// Timeout 交由传输层处理；零值表示使用默认值
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type Favorites struct {
	// DSN 为 SQLite 文件路径，默认 ./favorites.db；":memory:" 表示仅保存在内存（不持久化）
	DSN string `yaml:"dsn"`
	Key string `yaml:"key"`
}

type Detail struct {
	// MaxConcurrency 限制详情聚合的并发请求数，0 表示不限制
	MaxConcurrency int `yaml:"max_concurrency"`
}

type Proxy struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// Load 从文件读取 YAML 并反序列化为 Config，同时进行校验与默认值填充。
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Default 返回全部使用默认值的配置（配置文件缺失时使用）。
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

func (c *Config) Validate() error {
	if c.PageSize < 0 {
		return errors.New("PAGE_SIZE must be >= 0")
	}
	if c.Detail.MaxConcurrency < 0 {
		return errors.New("DETAIL.max_concurrency must be >= 0")
	}
	if c.API.Timeout < 0 {
		return errors.New("API.timeout must be >= 0")
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API.base_url: %q", c.API.BaseURL)
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 20 * time.Second
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Favorites.DSN == "" {
		c.Favorites.DSN = DefaultFavoritesDSN
	}
	if c.Favorites.Key == "" {
		c.Favorites.Key = DefaultFavoritesKey
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}
