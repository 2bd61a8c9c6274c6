package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/config"
	"github.com/kailas-cloud/patentsim/internal/db/sqlite"
	"github.com/kailas-cloud/patentsim/internal/domain"
	chiTransport "github.com/kailas-cloud/patentsim/internal/transport/chi"
	sdk "github.com/kailas-cloud/patentsim/pkg/sdk"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.ApplyDefaults()
	cfg.Database.Path = sqlite.MemoryPath
	return cfg
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	cfg, err := loadConfig("", "no-such-env")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "hashing", cfg.Embedding.Provider)
}

func TestLoadConfig_ExplicitPathMustExist(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "local")
	require.Error(t, err)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: 9090\n"), 0o600))

	cfg, err := loadConfig(path, "local")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestConfiguredNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"patent_numbers":["US2B","US3C"]}`), 0o600))

	cfg := testConfig()
	cfg.Ingest.PatentNumbers = []string{"US1A", "US2B"}

	got, err := configuredNumbers(cfg, path, []string{"US3C", "US4D"})
	require.NoError(t, err)
	assert.Equal(t, []string{"US1A", "US2B", "US3C", "US4D"}, got)
}

func TestConfiguredNumbers_BadFile(t *testing.T) {
	_, err := configuredNumbers(testConfig(), filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Error(t, err)
}

func TestReadQuery(t *testing.T) {
	t.Run("args joined", func(t *testing.T) {
		got, err := readQuery([]string{"plate", "fastening"}, strings.NewReader("ignored"))
		require.NoError(t, err)
		assert.Equal(t, "plate fastening", got)
	})
	t.Run("stdin fallback", func(t *testing.T) {
		got, err := readQuery(nil, strings.NewReader("  plate fastening method\n"))
		require.NoError(t, err)
		assert.Equal(t, "plate fastening method", got)
	})
	t.Run("empty rejected", func(t *testing.T) {
		_, err := readQuery([]string{"  "}, nil)
		require.ErrorIs(t, err, errEmptyQuery)
	})
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResults(&buf, nil))
	assert.Equal(t, "No similar patents found.\n", buf.String())

	buf.Reset()
	require.NoError(t, printResults(&buf, []sdk.Result{
		{PatentNumber: "US1A", Similarity: 0.87654},
		{PatentNumber: "US2B", Similarity: 0},
	}))
	assert.Equal(t,
		"Patent Number: US1A\nSimilarity: 0.8765\n\nPatent Number: US2B\nSimilarity: 0.0000\n\n",
		buf.String())
}

func TestBuildServices_NoCache(t *testing.T) {
	svc, err := buildServices(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	assert.Nil(t, svc.cache)
	report := svc.health.Check(context.Background())
	assert.Equal(t, "ok", string(report.Status))
	assert.NotContains(t, report.Checks, "cache")
}

func TestBuildServices_MemoryCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Backend = "memory"

	svc, err := buildServices(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	require.NotNil(t, svc.cache)
	report := svc.health.Check(context.Background())
	assert.Equal(t, "ok", string(report.Checks["cache"]))
}

func TestQueryCommand_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, err := buildServices(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.patents.Upsert(ctx, domain.Patent{
		Number:   "US1A",
		Title:    "Fastener",
		Abstract: "a method for fastening two plates",
	})
	require.NoError(t, err)

	server := chiTransport.NewServer(svc.similarity, svc.patents, svc.health, zap.NewNop())
	srv := httptest.NewServer(chiTransport.NewRouter(server, zap.NewNop()))
	defer srv.Close()

	var out bytes.Buffer
	app := newApp(strings.NewReader(""), &out)
	err = app.Run([]string{"patentsim", "--env", "test", "query", "--url", srv.URL, "plate", "fastening", "method"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Patent Number: US1A\nSimilarity: ")
	assert.NotContains(t, out.String(), "Similarity: 0.0000")
}

func TestQueryCommand_EmptyInput(t *testing.T) {
	app := newApp(strings.NewReader("   "), &bytes.Buffer{})
	err := app.Run([]string{"patentsim", "--env", "test", "query"})
	require.ErrorIs(t, err, errEmptyQuery)
}

func TestIngestCommand_RequiresNumbers(t *testing.T) {
	app := newApp(strings.NewReader(""), &bytes.Buffer{})
	err := app.Run([]string{"patentsim", "--env", "test", "ingest"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no patent numbers")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp(strings.NewReader(""), &out)
	require.NoError(t, app.Run([]string{"patentsim", "--env", "test", "version"}))
	assert.True(t, strings.HasPrefix(out.String(), "patentsim dev"))
}
