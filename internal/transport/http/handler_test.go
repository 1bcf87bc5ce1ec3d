package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seopress/internal/config"
	apierrors "seopress/internal/errors"
	"seopress/internal/middleware"
	"seopress/internal/options"
	"seopress/internal/security"
	"seopress/internal/services"
	"seopress/internal/shared/testutil"
	"seopress/internal/views"
	"seopress/internal/wizard"
)

const testUser = "admin"

// failingStore rejects every write
type failingStore struct {
	*options.MemoryStore
}

func (f failingStore) Update(ctx context.Context, name string, record options.Record) error {
	return errors.New("database is locked")
}

type testServer struct {
	router *chi.Mux
	store  options.Store
	nonces *security.Nonces
	wizard *wizard.Wizard
	logs   *testutil.BufferedSlogHandler
}

func newTestServer(t *testing.T, store options.Store) *testServer {
	t.Helper()

	cfg := config.Default()
	logger, logs := testutil.NewTestLogger(t)

	renderer, err := views.New()
	require.NoError(t, err)

	setup, err := services.NewSetupService(services.SetupDeps{
		Store:    store,
		Renderer: renderer,
		Site:     cfg.Site,
		Wizard:   cfg.Wizard,
		Logger:   logger,
	})
	require.NoError(t, err)

	registry, err := wizard.NewRegistryFromSteps(setup.Steps(), nil)
	require.NoError(t, err)
	wiz := wizard.New(registry, cfg.Wizard)

	nonces, err := security.NewNonces("test-secret", cfg.Security.NonceLifetime)
	require.NoError(t, err)

	errHandler := apierrors.NewErrorHandler(logger, false)
	healthSvc := services.NewHealthService("1.0.0-test", "", store, registry.Count, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), testUser)))
		})
	})

	wh := NewWizardHandler(wiz, renderer, nonces, errHandler, nil, logger)
	r.Method(http.MethodGet, cfg.Wizard.AdminPath, wh)
	r.Method(http.MethodPost, cfg.Wizard.AdminPath, wh)
	r.Method(http.MethodGet, cfg.Wizard.AdminURL, NewHomeHandler(wiz, store, renderer, errHandler, logger))

	api := NewAPIHandler(wiz, store, errHandler, logger)
	r.Get("/api/wizard/steps", api.Steps)
	r.Get("/api/options", api.Options)
	r.Get("/api/options/{name}", api.Option)

	hh := NewHealthHandler(healthSvc, logger)
	r.Get("/api/health", hh.HealthCheck)
	r.Get("/api/health/ready", hh.ReadinessCheck)
	r.Get("/api/health/live", hh.LivenessCheck)
	r.Get("/api/version", hh.Version)

	return &testServer{router: r, store: store, nonces: nonces, wizard: wiz, logs: logs}
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (s *testServer) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) nonce() string {
	return s.nonces.Create(NonceAction, testUser)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const wizardURL = "/wp-admin/admin.php?page=seopress-setup"

func TestWizardHandler_Render(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	tests := []struct {
		name         string
		target       string
		wantContains []string
		wantMissing  []string
	}{
		{
			name:   "first step by default",
			target: wizardURL,
			wantContains: []string{
				`<li class="active"><span>Import SEO settings</span></li>`,
				`<li><span>Your site</span></li>`,
				`href="/wp-admin/">Not right now</a>`,
				`name="_wpnonce"`,
			},
		},
		{
			name:   "middle step",
			target: wizardURL + "&step=indexing",
			wantContains: []string{
				`<li class="done"><a href="/wp-admin/admin.php?page=seopress-setup&amp;step=import_settings">Import SEO settings</a></li>`,
				`<li class="active"><span>Indexing</span></li>`,
				`href="/wp-admin/admin.php?page=seopress-setup&amp;step=advanced">Skip this step</a>`,
			},
		},
		{
			name:         "step is sanitised like a key",
			target:       wizardURL + "&step=SITE",
			wantContains: []string{`<li class="active"><span>Your site</span></li>`},
		},
		{
			name:         "ready step has no footer",
			target:       wizardURL + "&step=ready",
			wantContains: []string{`<li class="active"><span>Ready!</span></li>`, "Your site is now ready"},
			wantMissing:  []string{"seopress-setup-footer-links"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.get(t, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			for _, want := range tt.wantContains {
				assert.Contains(t, rec.Body.String(), want)
			}
			for _, missing := range tt.wantMissing {
				assert.NotContains(t, rec.Body.String(), missing)
			}
		})
	}
}

func TestWizardHandler_OtherPageRedirectsHome(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	for _, target := range []string{"/wp-admin/admin.php", "/wp-admin/admin.php?page=seopress-option"} {
		rec := s.get(t, target)
		assert.Equal(t, http.StatusFound, rec.Code, target)
		assert.Equal(t, "/wp-admin/", rec.Header().Get("Location"), target)
	}
}

func TestWizardHandler_UnknownStep(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	rec := s.get(t, wizardURL+"&step=bogus")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "STEP_NOT_FOUND", body["error_code"])
	assert.Equal(t, apierrors.TypeStepNotFound, body["type"])
}

func TestWizardHandler_SaveSite(t *testing.T) {
	store := options.NewMemoryStore()
	s := newTestServer(t, store)

	rec := s.post(t, wizardURL+"&step=site&activate_error=1&utm=x", url.Values{
		"site_sep":       {"-"},
		"site_title":     {"My <em>site</em>"},
		"knowledge_type": {"Person"},
		SaveField:        {"Continue"},
		NonceField:       {s.nonce()},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/wp-admin/admin.php?page=seopress-setup&step=indexing&utm=x", rec.Header().Get("Location"))

	titles, err := store.Get(context.Background(), options.TitlesOption)
	require.NoError(t, err)
	assert.Equal(t, "-", titles.String("seopress_titles_sep"))
	assert.Equal(t, "My site", titles.String("seopress_titles_home_site_title"))
}

func TestWizardHandler_SaveAdvancedGoesToReady(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	rec := s.post(t, wizardURL+"&step=advanced", url.Values{
		"category_url": {"1"},
		SaveField:      {"Save & Continue"},
		NonceField:     {s.nonce()},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/wp-admin/admin.php?page=seopress-setup&step=ready", rec.Header().Get("Location"))
}

func TestWizardHandler_InvalidNonce(t *testing.T) {
	store := options.NewMemoryStore()
	s := newTestServer(t, store)

	for name, token := range map[string]string{
		"missing":    "",
		"forged":     "0123456789abcdef0123",
		"other user": s.nonces.Create(NonceAction, "editor"),
	} {
		t.Run(name, func(t *testing.T) {
			rec := s.post(t, wizardURL+"&step=site", url.Values{
				"site_sep": {"-"},
				SaveField:  {"Continue"},
				NonceField: {token},
			})
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "INVALID_NONCE", decodeProblem(t, rec)["error_code"])
		})
	}

	names, err := store.Names(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestWizardHandler_ValidationFailureRerenders(t *testing.T) {
	store := options.NewMemoryStore()
	s := newTestServer(t, store)

	rec := s.post(t, wizardURL+"&step=site", url.Values{
		"site_sep":       {"|"},
		"knowledge_type": {"Company"},
		SaveField:        {"Continue"},
		NonceField:       {s.nonce()},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="knowledge_type"`)
	assert.Contains(t, rec.Body.String(), `<li class="active"><span>Your site</span></li>`)

	names, err := store.Names(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestWizardHandler_PostFallsThroughToRender(t *testing.T) {
	store := options.NewMemoryStore()
	s := newTestServer(t, store)

	t.Run("without save_step", func(t *testing.T) {
		rec := s.post(t, wizardURL+"&step=site", url.Values{"site_sep": {"-"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		titles, err := store.Get(context.Background(), options.TitlesOption)
		require.NoError(t, err)
		assert.Empty(t, titles)
	})

	t.Run("step without handler", func(t *testing.T) {
		rec := s.post(t, wizardURL+"&step=ready", url.Values{SaveField: {"1"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Your site is now ready")
	})
}

func TestWizardHandler_StoreFailure(t *testing.T) {
	s := newTestServer(t, failingStore{options.NewMemoryStore()})

	rec := s.post(t, wizardURL+"&step=indexing", url.Values{
		SaveField:  {"Continue"},
		NonceField: {s.nonce()},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "STORAGE_ERROR", decodeProblem(t, rec)["error_code"])
	assert.True(t, s.logs.ContainsMessage("request failed"))
}

func TestHomeHandler_WizardNotice(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	rec := s.get(t, "/wp-admin/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="seopress-notice-wizard"`)

	require.Equal(t, http.StatusOK, s.get(t, wizardURL+"&step=ready").Code)

	rec = s.get(t, "/wp-admin/")
	assert.NotContains(t, rec.Body.String(), `id="seopress-notice-wizard"`)
}

func TestHomeHandler_Links(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	rec := s.get(t, "/wp-admin/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/wp-admin/admin.php?page=`+services.PageXMLSitemap+`"`)
	assert.Contains(t, body, `href="/wp-admin/admin.php?page=`+services.PageSettings+`"`)
}

func TestAPIHandler_Steps(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	rec := s.get(t, "/api/wizard/steps?step=site")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StepsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "site", resp.Current)
	require.Len(t, resp.Steps, 5)
	assert.Equal(t, wizard.StatusDone, resp.Steps[0].Status)
	assert.Equal(t, "/wp-admin/admin.php?page=seopress-setup&step=import_settings", resp.Steps[0].URL)
	assert.Equal(t, wizard.StatusActive, resp.Steps[1].Status)
	assert.Equal(t, wizard.StatusPending, resp.Steps[2].Status)
	assert.Empty(t, resp.Steps[2].URL)
	assert.Equal(t, "/wp-admin/admin.php?page=seopress-setup&step=indexing", resp.Next)
	require.NotNil(t, resp.Footer)
	assert.Equal(t, wizard.LabelSkip, resp.Footer.Label)

	rec = s.get(t, "/api/wizard/steps?step=ready")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/wp-admin/", resp.Next)

	rec = s.get(t, "/api/wizard/steps?step=nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIHandler_Options(t *testing.T) {
	store := options.NewMemoryStore()
	require.NoError(t, store.Update(context.Background(), options.SocialOption, options.Record{
		"seopress_social_knowledge_type": "Organization",
	}))
	s := newTestServer(t, store)

	rec := s.get(t, "/api/options/"+options.SocialOption)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp OptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, options.SocialOption, resp.Name)
	assert.Equal(t, "Organization", resp.Value.String("seopress_social_knowledge_type"))

	rec = s.get(t, "/api/options/"+options.TitlesOption)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "OPTION_NOT_FOUND", decodeProblem(t, rec)["error_code"])

	rec = s.get(t, "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"names":["seopress_social_option_name"]}`, rec.Body.String())
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, options.NewMemoryStore())

	tests := []struct {
		path       string
		wantStatus string
	}{
		{"/api/health", services.StatusOK},
		{"/api/health/ready", services.StatusReady},
		{"/api/health/live", services.StatusAlive},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := s.get(t, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			var status services.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, "1.0.0-test", status.Version)
			assert.WithinDuration(t, time.Now(), status.Timestamp, time.Minute)
		})
	}

	rec := s.get(t, "/api/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.0.0-test"`)
}
