package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/personad/internal/config"
	"github.com/fyrsmithlabs/personad/internal/logging"
	"github.com/fyrsmithlabs/personad/internal/personality"
	"github.com/fyrsmithlabs/personad/internal/secrets"
	"github.com/fyrsmithlabs/personad/internal/telemetry"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)
	cfg.Server.ShutdownTimeout = config.Duration(2 * time.Second)
	cfg.Generator.Provider = "none"
	cfg.Logging.Level = "error"
	return &cfg
}

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := testConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx, cfg)
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond)

	body := []byte(`{"messages": ["I'm worried about my exams"], "style": "witty_friend"}`)
	resp, err := http.Post(base+"/transform", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		PersonalityResponse personality.TransformResult `json:"personality_response"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "witty_friend", out.PersonalityResponse.PersonalityStyle)
	assert.Equal(t, personality.BackendRuleBased, out.PersonalityResponse.BackendIdentifier)

	// otel instruments and native collectors share /metrics
	var exposition string
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		exposition = string(raw)
		return strings.Contains(exposition, "personad_http_server_request_count") &&
			strings.Contains(exposition, `endpoint="/transform"`)
	}, 3*time.Second, 50*time.Millisecond, "otel http series missing from /metrics")
	assert.Contains(t, exposition, "personad_transforms_total")

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shutdown in time")
	}
}

func TestInitServices(t *testing.T) {
	t.Run("no key uses rule-based backend", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Generator.Provider = "openrouter"

		svc, err := initServices(cfg, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, svc.engine.GeneratorAvailable())
		assert.Equal(t, personality.BackendRuleBased, svc.engine.Backend())
		assert.True(t, svc.redactor.Enabled())
	})

	t.Run("configured key enables generator", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Generator.Provider = "openrouter"
		cfg.Generator.APIKey = config.Secret("sk-or-v1-test")
		cfg.Generator.Model = "mistralai/mistral-7b-instruct"

		svc, err := initServices(cfg, zap.NewNop())
		require.NoError(t, err)
		assert.True(t, svc.engine.GeneratorAvailable())
		assert.Equal(t, "mistralai/mistral-7b-instruct", svc.engine.Backend())
	})

	t.Run("invalid secret rule", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Secrets.Rules = append(cfg.Secrets.Rules, secrets.Rule{ID: "broken", Pattern: "(unclosed"})

		_, err := initServices(cfg, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestInitTelemetry(t *testing.T) {
	t.Run("enabled installs providers", func(t *testing.T) {
		cfg := testConfig(t)
		tel, err := initTelemetry(context.Background(), cfg, telemetry.WithRegisterer(prometheus.NewRegistry()))
		require.NoError(t, err)
		defer tel.Shutdown(context.Background())
		assert.True(t, tel.Enabled())
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Telemetry.Enabled = false
		tel, err := initTelemetry(context.Background(), cfg)
		require.NoError(t, err)
		assert.False(t, tel.Enabled())
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Telemetry.SampleRate = -1
		_, err := initTelemetry(context.Background(), cfg)
		assert.Error(t, err)
	})
}

func TestInitLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Level = "trace"

	logger, err := initLogger(cfg, "stderr")
	require.NoError(t, err)
	assert.True(t, logger.Enabled(logging.TraceLevel))

	cfg.Logging.Level = "loud"
	_, err = initLogger(cfg, "stderr")
	assert.Error(t, err)
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.Contains(t, buf.String(), "personad by Fyrsmith Labs")
	assert.Contains(t, buf.String(), "Version:    dev")
}
