package helper

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/raids-lab/siteadmin/dao/query"
	"github.com/raids-lab/siteadmin/internal/handler"
	"github.com/raids-lab/siteadmin/pkg/config"
	"github.com/raids-lab/siteadmin/pkg/cronjob"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/gateway/memory"
	"github.com/raids-lab/siteadmin/pkg/gateway/orm"
	"github.com/raids-lab/siteadmin/pkg/gateway/rest"
	"github.com/raids-lab/siteadmin/pkg/objstore"
	"github.com/raids-lab/siteadmin/pkg/reply"
	"github.com/raids-lab/siteadmin/pkg/session"
	"github.com/raids-lab/siteadmin/pkg/site"
	"github.com/raids-lab/siteadmin/pkg/util"
)

// ConfigInitializer 封装配置初始化逻辑
type ConfigInitializer struct {
	backendConfig *config.Config
}

// NewConfigInitializer 创建新的ConfigInitializer实例
func NewConfigInitializer() *ConfigInitializer {
	return &ConfigInitializer{
		backendConfig: config.GetConfig(),
	}
}

// GetBackendConfig 获取后端配置
func (ci *ConfigInitializer) GetBackendConfig() *config.Config {
	return ci.backendConfig
}

// LoadDebugEnvironment 加载调试环境变量
func (ci *ConfigInitializer) LoadDebugEnvironment() error {
	if gin.Mode() != gin.DebugMode {
		return nil
	}

	if err := godotenv.Load(".debug.env"); err != nil {
		if os.IsNotExist(err) {
			klog.Info(".debug.env not found, using the process environment")
			return nil
		}
		return err
	}

	if be := os.Getenv("SITEADMIN_BE_PORT"); be != "" {
		ci.backendConfig.ServerAddr = ":" + be
		ci.backendConfig.Host = "http://localhost:" + be
	}
	ci.backendConfig.ApplyEnv()
	return nil
}

// InitializeRegisterConfig 初始化注册配置
func (ci *ConfigInitializer) InitializeRegisterConfig(ctx context.Context) (*handler.RegisterConfig, error) {
	cfg := ci.backendConfig
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registerConfig := &handler.RegisterConfig{Config: cfg}

	backend, objects, err := ci.OpenBackend(ctx)
	if err != nil {
		return nil, err
	}
	registerConfig.Backend = backend
	registerConfig.Objects = objects

	// resolve the operator session before serving any request
	holder := session.NewHolder(backend.Auth())
	if err := holder.Init(ctx); err != nil {
		klog.Warningf("no operator session: %v", err)
	}
	registerConfig.Session = holder

	if cfg.Reply.BackendURL == "" {
		klog.Warning("reply backend url is not set, replying to messages will fail")
	}
	replier := reply.New(cfg.Reply.BackendURL, time.Duration(cfg.Reply.Timeout)*time.Second)
	registerConfig.Site = site.New(backend, replier)

	if !cfg.Cron.Disable {
		cronJobs := cronjob.NewCronJobManager(time.Duration(cfg.Cron.Timeout) * time.Second)
		if _, err := cronJobs.AddCronJob(cronjob.RefreshJob(cfg.Cron.RefreshSpec, registerConfig.Site)); err != nil {
			return nil, err
		}
		cronJobs.Start()
		registerConfig.CronJobs = cronJobs
	}

	return registerConfig, nil
}

// OpenBackend builds the Data Gateway for the configured driver. The object
// store is returned when the console serves uploaded media itself.
func (ci *ConfigInitializer) OpenBackend(ctx context.Context) (gateway.Backend, objstore.Store, error) {
	cfg := ci.backendConfig
	klog.Infof("data gateway driver: %s", cfg.Driver)

	switch cfg.Driver {
	case config.DriverREST:
		return rest.New(rest.Config{
			URL:     cfg.Store.URL,
			AnonKey: cfg.Store.AnonKey,
			Bucket:  cfg.Storage.Bucket,
		}), nil, nil

	case config.DriverORM:
		store, err := objstore.Open(ctx, cfg.Storage.Config)
		if err != nil {
			return nil, nil, fmt.Errorf("open object store: %w", err)
		}
		db := query.GetDB()
		if err := query.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		tokens := util.NewTokenManager(cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
		bucket := objstore.NewBucket(store, cfg.Storage.Bucket, cfg.PublicStorageBase())
		return orm.New(db, bucket, tokens), store, nil

	case config.DriverMemory:
		store := objstore.NewMemory()
		backend := memory.New(memory.WithStorage(objstore.NewBucket(store, cfg.Storage.Bucket, cfg.PublicStorageBase())))
		if cfg.Admin.Email != "" {
			if _, err := backend.Users().AddUser(cfg.Admin.Email, cfg.Admin.Password); err != nil {
				return nil, nil, fmt.Errorf("add operator: %w", err)
			}
		}
		return backend, store, nil
	}
	return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}
