package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seopress.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, StorageMemory, cfg.Storage.Driver)
				assert.True(t, cfg.Wizard.Enabled)
				assert.Equal(t, DefaultAdminPath, cfg.Wizard.AdminPath)
				assert.Equal(t, DefaultPageSlug, cfg.Wizard.PageSlug)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, DefaultNonceLifetime, cfg.Security.NonceLifetime)
			},
		},
		{
			name: "file values overlay defaults",
			file: `
server:
  port: 9090
  read_timeout: 5s
storage:
  driver: sqlite
  dsn: data/options.db
site:
  multisite: true
  post_types:
    product: Products
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
				assert.Equal(t, "data/options.db", cfg.Storage.DSN)
				assert.True(t, cfg.Site.Multisite)
				assert.Equal(t, map[string]string{"product": "Products"}, cfg.Site.PostTypes)
			},
		},
		{
			name: "env wins over file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"SEOPRESS_SERVER_PORT":     "7070",
				"SEOPRESS_WIZARD_ENABLED":  "false",
				"SEOPRESS_SITE_TAXONOMIES": "genre:Genres,topic:Topics",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.False(t, cfg.Wizard.Enabled)
				assert.Equal(t, map[string]string{"genre": "Genres", "topic": "Topics"}, cfg.Site.Taxonomies)
			},
		},
		{
			name:    "sqlite without dsn",
			env:     map[string]string{"SEOPRESS_STORAGE_DRIVER": "sqlite"},
			wantErr: "requires a dsn",
		},
		{
			name:    "unknown storage driver",
			env:     map[string]string{"SEOPRESS_STORAGE_DRIVER": "redis"},
			wantErr: "unsupported storage driver",
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SEOPRESS_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "relative admin path",
			env:     map[string]string{"SEOPRESS_WIZARD_ADMIN_PATH": "admin.php"},
			wantErr: "must be absolute",
		},
		{
			name: "admin url equal to admin path",
			env: map[string]string{
				"SEOPRESS_WIZARD_ADMIN_PATH": "/admin",
				"SEOPRESS_WIZARD_ADMIN_URL":  "/admin",
			},
			wantErr: "must differ from the admin path",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"SEOPRESS_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestValidate_NormalisesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Logging.Output = "syslog"
	cfg.Logging.Level = "DEBUG"

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestListenAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8443
	assert.Equal(t, "0.0.0.0:8443", cfg.ListenAddr())
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", ResolvePath(""))
	assert.Equal(t, ":memory:", ResolvePath(":memory:"))
	assert.Equal(t, "file:options.db?mode=memory", ResolvePath("file:options.db?mode=memory"))

	abs := filepath.Join(t.TempDir(), "options.db")
	assert.Equal(t, abs, ResolvePath(abs))

	rel := ResolvePath("data/options.db")
	assert.True(t, filepath.IsAbs(rel))
	assert.Equal(t, "options.db", filepath.Base(rel))
}
