package app

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

	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const testConfig = `
app:
  node_id: 1
  startup_timeout_seconds: 10
  server:
    max_goroutine: 10
    http:
      read_timeout_seconds: 5
      read_header_timeout_seconds: 5
      write_timeout_seconds: 5
      idle_timeout_seconds: 5
instrument:
  enabled: false
  service_name: smartotp-test
  log_level: error
jwt:
  secret: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
  issuer: smartotp
  ttl: 1h
vault:
  master_key: "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="
  key_version: 1
  salt: test
database:
  url: "%s"
  migrate_on_start: true
  pool:
    max_conns: 4
redis:
  url: "%s"
throttle:
  driver: redis
  prefix: "test:"
messaging:
  driver: memory
modules:
  authenticator:
    enabled: true
    verify:
      max_attempts: 3
      window: 1m
  audit:
    enabled: true
    consumer:
      concurrency: 1
`

type successEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

type testServer struct {
	baseURL string
	token   string
	client  *http.Client
}

func redisURL(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	return uri
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := pgtest.DSN(t)
	cfg, err := config.NewViperFromBytes("yaml", fmt.Appendf(nil, testConfig, dsn, redisURL(t)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel, config: cfg}
	a.initInstrument()
	a.initLibraries()
	a.initVault()
	a.initJWT()
	a.initDatabase()
	a.initMigration()
	a.initCache()
	a.initStorage()
	a.initMessaging()
	a.initHTTPServer()
	a.initModules()
	a.initClosers()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	a.Serve(l)

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		a.Stop(stopCtx)
	})

	token, err := a.jwt.Generate(42)
	require.NoError(t, err)

	return &testServer{
		baseURL: "http://" + l.Addr().String(),
		token:   token,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *testServer) request(method, path string, payload any, out any) (int, successEnvelope, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return 0, successEnvelope{}, err
		}
		body = buf
	}

	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		return 0, successEnvelope{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, successEnvelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, successEnvelope{}, err
	}

	var env successEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return resp.StatusCode, env, fmt.Errorf("decode %q: %w", raw, err)
		}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, env, err
		}
	}

	return resp.StatusCode, env, nil
}

func (s *testServer) do(t *testing.T, method, path string, payload any, out any) (int, successEnvelope) {
	t.Helper()

	status, env, err := s.request(method, path, payload, out)
	require.NoError(t, err)

	return status, env
}

func TestApp_AccountLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	s := newTestServer(t)

	var created struct {
		Account struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"account"`
		KeyURI string `json:"key_uri"`
	}
	status, env := s.do(t, http.MethodPost, "/api/v1/otp/accounts", map[string]any{
		"issuer":       "Acme",
		"account_name": "bob@example.com",
		"type":         "TOTP",
		"algorithm":    "SHA1",
		"digits":       6,
		"secret":       "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
	}, &created)
	require.Equal(t, http.StatusCreated, status, env.Message)
	require.NotEmpty(t, created.Account.ID)
	assert.Equal(t, "TOTP", created.Account.Type)
	assert.True(t, strings.HasPrefix(created.KeyURI, "otpauth://totp/"))

	var accounts []map[string]any
	status, env = s.do(t, http.MethodGet, "/api/v1/otp/accounts", nil, &accounts)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, accounts, 1)
	assert.NotContains(t, accounts[0], "secret")
	assert.EqualValues(t, 1, env.Meta["total"])

	codePath := "/api/v1/otp/accounts/" + created.Account.ID + "/code"
	verifyPath := "/api/v1/otp/accounts/" + created.Account.ID + "/verify"

	var code struct {
		Code string `json:"code"`
	}
	status, _ = s.do(t, http.MethodGet, codePath, nil, &code)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, code.Code, 6)

	var verified struct {
		IsValid bool `json:"is_valid"`
	}
	status, _ = s.do(t, http.MethodPost, verifyPath, map[string]string{"code": code.Code}, &verified)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, verified.IsValid)

	// audit consumers subscribe in the background, so keep producing
	// verifications until one lands in the audit log.
	require.Eventually(t, func() bool {
		var fresh struct {
			Code string `json:"code"`
		}
		if _, _, err := s.request(http.MethodGet, codePath, nil, &fresh); err != nil {
			return false
		}
		if _, _, err := s.request(http.MethodPost, verifyPath, map[string]string{"code": fresh.Code}, nil); err != nil {
			return false
		}

		var logs struct {
			Logs []struct {
				Action  string `json:"action"`
				Success bool   `json:"success"`
			} `json:"logs"`
		}
		status, _, err := s.request(http.MethodGet, "/api/v1/audit/logs?action=OTP_VERIFIED", nil, &logs)
		return err == nil && status == http.StatusOK && len(logs.Logs) > 0 && logs.Logs[0].Success
	}, 10*time.Second, 200*time.Millisecond)

	status, _ = s.do(t, http.MethodDelete, "/api/v1/otp/accounts/"+created.Account.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodGet, codePath, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApp_VerifyRateLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	s := newTestServer(t)

	var created struct {
		Account struct {
			ID string `json:"id"`
		} `json:"account"`
	}
	status, env := s.do(t, http.MethodPost, "/api/v1/otp/accounts", map[string]any{
		"issuer":       "Acme",
		"account_name": "hotp",
		"type":         "HOTP",
		"algorithm":    "SHA1",
		"digits":       6,
	}, &created)
	require.Equal(t, http.StatusCreated, status, env.Message)

	verifyPath := "/api/v1/otp/accounts/" + created.Account.ID + "/verify"
	for range 3 {
		status, _ = s.do(t, http.MethodPost, verifyPath, map[string]string{"code": "000000"}, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, env = s.do(t, http.MethodPost, verifyPath, map[string]string{"code": "000000"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many verification attempts. Please try again later.", env.Message)
}
