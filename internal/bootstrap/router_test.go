package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Valentin39220/bini-crm/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.FromEnv()
	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.DataDir = t.TempDir()
	cfg.Storage.SlotKey = "binicrm_prospects"
	cfg.App.Timezone = "UTC"
	return cfg
}

func TestOpenApp_FileBackend(t *testing.T) {
	cfg := testConfig(t)

	app, err := OpenApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Len(t, app.Service.List(), 3, "a fresh slot is seeded")
	assert.NoError(t, app.Repo.Ping(context.Background()))

	// reopening reads what the first run persisted
	again, err := OpenApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, app.Service.List(), again.Service.List())
}

func TestOpenApp_SQLiteBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "binicrm.db")

	app, err := OpenApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = app.Service.AddNote(context.Background(), "1", "Rappel")
	require.NoError(t, err)
	require.NoError(t, app.Close())

	again, err := OpenApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer again.Close()
	assert.Len(t, again.Service.Get("1").Notes, 2)
}

func TestOpenSlot_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "mongodb"

	_, _, err := OpenSlot(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRepositoryOptions(t *testing.T) {
	assert.Empty(t, RepositoryOptions(config.StorageConfig{}))
	assert.Len(t, RepositoryOptions(config.StorageConfig{SkipEmptySave: true, StrictLoad: true}), 2)
}

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := OpenApp(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	router := BuildRouter(RouterDeps{
		ServiceName:    "bini-crm",
		Version:        "test",
		Logger:         zap.NewNop(),
		Service:        app.Service,
		Storage:        app.Repo,
		AllowedOrigins: []string{"http://localhost:5173"},
	})

	t.Run("health reports storage", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"storage":"up"`)
	})

	t.Run("api is mounted under /api/v1", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/prospects", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/prospects", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	cases := map[string]string{
		"production":  gin.ReleaseMode,
		"test":        gin.TestMode,
		"development": gin.DebugMode,
		"":            gin.DebugMode,
	}
	for env, want := range cases {
		SetGinMode(env)
		assert.Equal(t, want, gin.Mode(), "env %q", env)
	}
}
