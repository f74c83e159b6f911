package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/raids-lab/siteadmin/pkg/objstore"
)

// Gateway drivers.
const (
	DriverREST   = "rest"
	DriverORM    = "orm"
	DriverMemory = "memory"
)

const (
	defaultConfigPath = "./etc/config.yaml"
	DefaultSender     = "onboarding@resend.dev"
)

type Config struct {
	// Port Settings
	Host        string `json:"host"`        // The public base URL of the console, used for storage URLs.
	ServerAddr  string `json:"serverAddr"`  // The address the console binds to.
	MailAddr    string `json:"mailAddr"`    // The address the reply mail function binds to.
	MetricsPath string `json:"metricsPath"` // The path prometheus scrapes.

	// Driver selects the Data Gateway implementation: rest, orm or memory.
	Driver string `json:"driver"`

	// Hosted backend (rest driver).
	Store struct {
		URL     string `json:"url"`
		AnonKey string `json:"anonKey"`
	} `json:"store"`

	Auth struct {
		AccessTokenSecret  string `json:"accessTokenSecret"`
		RefreshTokenSecret string `json:"refreshTokenSecret"`
		AccessTokenTTL     int    `json:"accessTokenTTL"`  // hours
		RefreshTokenTTL    int    `json:"refreshTokenTTL"` // hours
	} `json:"auth"`

	// Bootstrap operator account for the memory driver.
	Admin struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"admin"`

	// DB Settings (orm driver)
	Postgres struct {
		Host     string `json:"host"`
		Port     string `json:"port"`
		DBName   string `json:"dbname"`
		User     string `json:"user"`
		Password string `json:"password"`
		SSLMode  string `json:"sslmode"`
		TimeZone string `json:"TimeZone"`
	} `json:"postgres"`

	// Object storage behind the orm and memory drivers.
	Storage struct {
		Bucket string `json:"bucket"`
		objstore.Config
	} `json:"storage"`

	Upload struct {
		Concurrency int `json:"concurrency"`
	} `json:"upload"`

	// Background refresh of every screen's snapshot.
	Cron struct {
		Disable     bool   `json:"disable"`
		RefreshSpec string `json:"refreshSpec"`
		Timeout     int    `json:"timeout"` // seconds
	} `json:"cron"`

	Reply struct {
		BackendURL string `json:"backendURL"`
		Timeout    int    `json:"timeout"` // seconds
	} `json:"reply"`

	Mail struct {
		Sender       string `json:"sender"`
		ResendAPIKey string `json:"resendAPIKey"`
		ResendURL    string `json:"resendURL"`
		SMTP         struct {
			Host     string `json:"host"`
			Port     string `json:"port"`
			User     string `json:"user"`
			Password string `json:"password"`
			// LoginAuth uses AUTH LOGIN for relays without PLAIN.
			LoginAuth bool `json:"loginAuth"`
		} `json:"smtp"`
	} `json:"mail"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads SITEADMIN_CONFIG_PATH, or ./etc/config.yaml when unset,
// then applies environment overrides. A missing default file is not fatal.
func initConfig() *Config {
	configPath := os.Getenv("SITEADMIN_CONFIG_PATH")
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath
	}
	klog.Info("config path: ", configPath)

	cfg, err := Load(configPath)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			klog.Error("init config", err)
			panic(err)
		}
		klog.Warningf("config file %s not found, using defaults and environment", configPath)
		cfg = Default()
		cfg.ApplyEnv()
	}
	return cfg
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file and applies defaults and environment overrides.
func Load(filePath string) (*Config, error) {
	cfg := &Config{}
	if err := readConfig(filePath, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.ApplyEnv()
	return cfg, nil
}

func readConfig(filePath string, config *Config) error {
	// 读取 YAML 配置文件
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	// 解析 YAML 数据到结构体
	return yaml.Unmarshal(data, config)
}

func (c *Config) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.MailAddr == "" {
		c.MailAddr = ":8000"
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	if c.Host == "" {
		c.Host = "http://localhost" + c.ServerAddr
	}
	if c.Driver == "" {
		c.Driver = DriverREST
	}
	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = 1
	}
	if c.Auth.RefreshTokenTTL == 0 {
		c.Auth.RefreshTokenTTL = 168
	}
	if c.Postgres.Port == "" {
		c.Postgres.Port = "5432"
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Postgres.TimeZone == "" {
		c.Postgres.TimeZone = "UTC"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "images"
	}
	if c.Upload.Concurrency <= 0 {
		c.Upload.Concurrency = 4
	}
	if c.Cron.RefreshSpec == "" {
		c.Cron.RefreshSpec = "@every 5m"
	}
	if c.Cron.Timeout <= 0 {
		c.Cron.Timeout = 60
	}
	if c.Reply.Timeout <= 0 {
		c.Reply.Timeout = 30
	}
	if c.Mail.Sender == "" {
		c.Mail.Sender = DefaultSender
	}
	if c.Mail.ResendURL == "" {
		c.Mail.ResendURL = "https://api.resend.com"
	}
	if c.Mail.SMTP.Port == "" {
		c.Mail.SMTP.Port = "587"
	}
}

// ApplyEnv overrides file values with the deployment environment.
func (c *Config) ApplyEnv() {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("SITEADMIN_DRIVER", &c.Driver)
	setString("SITEADMIN_HOST", &c.Host)
	setString("SITEADMIN_SERVER_ADDR", &c.ServerAddr)
	setString("SITEADMIN_STORE_URL", &c.Store.URL)
	setString("SITEADMIN_STORE_ANON_KEY", &c.Store.AnonKey)
	setString("SITEADMIN_REPLY_BACKEND_URL", &c.Reply.BackendURL)
	setString("SITEADMIN_ACCESS_TOKEN_SECRET", &c.Auth.AccessTokenSecret)
	setString("SITEADMIN_ADMIN_EMAIL", &c.Admin.Email)
	setString("SITEADMIN_ADMIN_PASSWORD", &c.Admin.Password)
	setString("SITEADMIN_POSTGRES_HOST", &c.Postgres.Host)
	setString("SITEADMIN_POSTGRES_PASSWORD", &c.Postgres.Password)
	setString("MESSAGE_SENDER_EMAIL", &c.Mail.Sender)
	setString("RESEND_API_KEY", &c.Mail.ResendAPIKey)
	if v := os.Getenv("SITEADMIN_UPLOAD_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Upload.Concurrency = n
		} else {
			klog.Warningf("ignoring SITEADMIN_UPLOAD_CONCURRENCY=%q", v)
		}
	}
}

// Validate reports settings the console cannot start without. The reply
// backend URL is deliberately absent: a missing URL only fails at send time.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverREST:
		if c.Store.URL == "" || c.Store.AnonKey == "" {
			return fmt.Errorf("rest driver requires store.url and store.anonKey")
		}
	case DriverORM:
		if c.Postgres.Host == "" || c.Postgres.DBName == "" {
			return fmt.Errorf("orm driver requires postgres.host and postgres.dbname")
		}
		if c.Auth.AccessTokenSecret == "" {
			return fmt.Errorf("orm driver requires auth.accessTokenSecret")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	return nil
}

// PublicStorageBase is the prefix under which the console serves stored objects.
func (c *Config) PublicStorageBase() string {
	return c.Host + "/storage/v1/object/public"
}
