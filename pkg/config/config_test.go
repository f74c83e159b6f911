package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/siteadmin/pkg/objstore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
serverAddr: ":9090"
driver: memory
storage:
  bucket: media
  driver: fs
  root: /tmp/objects
reply:
  backendURL: https://mail.example.com
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, DriverMemory, cfg.Driver)
	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, objstore.DriverFilesystem, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/objects", cfg.Storage.Root)
	assert.Equal(t, "https://mail.example.com", cfg.Reply.BackendURL)
	assert.Equal(t, "http://localhost:9090", cfg.Host)
	assert.Equal(t, "http://localhost:9090/storage/v1/object/public", cfg.PublicStorageBase())
	assert.Equal(t, DefaultSender, cfg.Mail.Sender)
	assert.Equal(t, 4, cfg.Upload.Concurrency)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SITEADMIN_STORE_URL", "https://abc.supabase.co")
	t.Setenv("SITEADMIN_STORE_ANON_KEY", "anon")
	t.Setenv("MESSAGE_SENDER_EMAIL", "team@example.com")
	t.Setenv("SITEADMIN_UPLOAD_CONCURRENCY", "not-a-number")

	cfg, err := Load(writeConfig(t, "driver: rest\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", cfg.Store.URL)
	assert.Equal(t, "anon", cfg.Store.AnonKey)
	assert.Equal(t, "team@example.com", cfg.Mail.Sender)
	assert.Equal(t, 4, cfg.Upload.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "rest without store", mutate: func(c *Config) { c.Driver = DriverREST }, wantErr: true},
		{name: "rest with store", mutate: func(c *Config) {
			c.Driver = DriverREST
			c.Store.URL, c.Store.AnonKey = "https://x.supabase.co", "k"
		}},
		{name: "orm without postgres", mutate: func(c *Config) { c.Driver = DriverORM }, wantErr: true},
		{name: "orm without secret", mutate: func(c *Config) {
			c.Driver = DriverORM
			c.Postgres.Host, c.Postgres.DBName = "db", "site"
		}, wantErr: true},
		{name: "orm complete", mutate: func(c *Config) {
			c.Driver = DriverORM
			c.Postgres.Host, c.Postgres.DBName = "db", "site"
			c.Auth.AccessTokenSecret = "secret"
		}},
		{name: "memory", mutate: func(c *Config) { c.Driver = DriverMemory }},
		{name: "reply url is optional", mutate: func(c *Config) {
			c.Driver = DriverMemory
			c.Reply.BackendURL = ""
		}},
		{name: "unknown", mutate: func(c *Config) { c.Driver = "sqlite" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
