package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seopress/internal/config"
	"seopress/internal/security"
	"seopress/internal/shared/testutil"
	"seopress/internal/wizard"
)

const testPassword = "correct horse"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := security.HashPassword(testPassword)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Security.AdminPasswordHash = hash
	cfg.Security.NonceSecret = "test-secret"
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	a, err := NewApplication(context.Background(), cfg, logger, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func do(a *Application, method, target string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth {
		req.SetBasicAuth(config.DefaultAdminUser, testPassword)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func TestNewApplication_Routes(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	require.NotNil(t, a.Wizard)
	assert.Equal(t, 5, a.Wizard.Registry().Count())

	tests := []struct {
		name     string
		method   string
		target   string
		auth     bool
		wantCode int
	}{
		{"health is public", http.MethodGet, "/api/health", false, http.StatusOK},
		{"readiness is public", http.MethodGet, "/api/health/ready", false, http.StatusOK},
		{"version is public", http.MethodGet, "/api/version", false, http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", false, http.StatusOK},
		{"wizard requires auth", http.MethodGet, "/wp-admin/admin.php?page=seopress-setup", false, http.StatusUnauthorized},
		{"wizard", http.MethodGet, "/wp-admin/admin.php?page=seopress-setup", true, http.StatusOK},
		{"admin home", http.MethodGet, "/wp-admin/", true, http.StatusOK},
		{"steps api requires auth", http.MethodGet, "/api/wizard/steps", false, http.StatusUnauthorized},
		{"steps api", http.MethodGet, "/api/wizard/steps?step=indexing", true, http.StatusOK},
		{"unknown option", http.MethodGet, "/api/options/seopress_notices", true, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/nope", false, http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/health", false, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(a, tt.method, tt.target, tt.auth)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(customRequestIDHeader))
		})
	}
}

const customRequestIDHeader = "X-Request-ID"

func TestNewApplication_WizardDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Wizard.Enabled = false
	a := newTestApp(t, cfg)

	assert.Nil(t, a.Wizard)
	assert.Equal(t, http.StatusNotFound, do(a, http.MethodGet, "/wp-admin/admin.php?page=seopress-setup", true).Code)
	assert.Equal(t, http.StatusNotFound, do(a, http.MethodGet, "/api/wizard/steps", true).Code)
	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/api/health/ready", false).Code)
}

func TestNewApplication_StepsFilter(t *testing.T) {
	dropImport := func(steps []wizard.Step) []wizard.Step {
		out := make([]wizard.Step, 0, len(steps))
		for _, s := range steps {
			if s.Slug != wizard.StepImportSettings {
				out = append(out, s)
			}
		}
		return out
	}
	a := newTestApp(t, testConfig(t), WithStepsFilter(dropImport))

	assert.Equal(t, []string{wizard.StepSite, wizard.StepIndexing, wizard.StepAdvanced, wizard.StepReady},
		a.Wizard.Registry().Slugs())

	rec := do(a, http.MethodGet, "/wp-admin/admin.php?page=seopress-setup", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<li class="active"><span>Your site</span></li>`)
}

func TestNewApplication_Errors(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	cfg := testConfig(t)
	cfg.Security.AdminPasswordHash = ""
	_, err := NewApplication(context.Background(), cfg, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin authentication")

	cfg = testConfig(t)
	cfg.Storage.Driver = "redis"
	_, err = NewApplication(context.Background(), cfg, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "option store")
}

func TestApplication_SQLiteWizardFlow(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = config.StorageSQLite
	cfg.Storage.DSN = t.TempDir() + "/options.db"
	a := newTestApp(t, cfg)

	page := do(a, http.MethodGet, "/wp-admin/admin.php?page=seopress-setup&step=advanced", true)
	require.Equal(t, http.StatusOK, page.Code)

	nonce := a.nonces.Create("seopress-setup", config.DefaultAdminUser)
	form := url.Values{"category_url": {"1"}, "save_step": {"1"}, "_wpnonce": {nonce}}
	req := httptest.NewRequest(http.MethodPost, "/wp-admin/admin.php?page=seopress-setup&step=advanced", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(config.DefaultAdminUser, testPassword)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	rec = do(a, http.MethodGet, "/api/options/seopress_advanced_option_name", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seopress_advanced_advanced_category_url":"1"`)
}

func TestApplication_RunShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = 0
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
