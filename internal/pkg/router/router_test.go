package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/jwt"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/pkg/validator"
)

type created struct {
	ID int64 `json:"id,string"`
}

func (created) StatusCode() int { return http.StatusCreated }
func (created) Message() string { return "created" }

func newTestRouter(t *testing.T) (*Router, string) {
	t.Helper()

	j, err := jwt.NewHS512(jwt.Config{
		Secret: bytes.Repeat([]byte("s"), 64),
		Issuer: "test",
		TTL:    time.Hour,
		Clock:  clock.Fixed(time.Now()),
		UUID:   uid.NewUUID(),
	})
	require.NoError(t, err)

	token, err := j.Generate(77)
	require.NoError(t, err)

	r := NewRouter(Config{UUID: uid.NewUUID(), JWT: j, Instrument: instrument.NewNoop()})
	return r, token
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestRouter_HealthIsPublic(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, body := do(t, r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, body["data"])
	assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID))
}

func TestRouter_Authentication(t *testing.T) {
	r, token := newTestRouter(t)
	r.GET("/api/v1/whoami/:id", func(req *Request) (any, error) {
		id, err := req.GetParamInt64("id")
		if err != nil {
			return nil, err
		}
		return map[string]int64{"owner": jwt.GetAuth(req.Context()).OwnerID, "id": id}, nil
	})

	rec, _ := do(t, r, http.MethodGet, "/api/v1/whoami/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, r, http.MethodGet, "/api/v1/whoami/1", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := do(t, r, http.MethodGet, "/api/v1/whoami/5", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"owner": float64(77), "id": float64(5)}, body["data"])

	rec, body = do(t, r, http.MethodGet, "/api/v1/whoami/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Path parameter id must be an integer", body["message"])
}

func TestRouter_Envelopes(t *testing.T) {
	r, token := newTestRouter(t)
	r.POST("/created", func(*Request) (any, error) { return created{ID: 1}, nil })
	r.DELETE("/empty", func(*Request) (any, error) { return nil, nil })
	r.GET("/missing", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("OTP account not found", goerror.CodeNotFound)
	})
	r.GET("/limited", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("Too many attempts", goerror.CodeTooManyRequest)
	})
	r.POST("/invalid", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"code": "Code must be 6 to 8 digits"})
	})
	r.GET("/raw", func(*Request) (any, error) { return nil, errors.New("db exploded") })
	r.GET("/panic", func(*Request) (any, error) { panic("boom") })

	rec, body := do(t, r, http.MethodPost, "/created", token, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]any{"id": "1"}, body["data"])

	rec, _ = do(t, r, http.MethodDelete, "/empty", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, body = do(t, r, http.MethodGet, "/missing", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "OTP account not found", body["message"])

	rec, _ = do(t, r, http.MethodGet, "/limited", token, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec, body = do(t, r, http.MethodPost, "/invalid", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]any{"code": "Code must be 6 to 8 digits"}, body["error"])

	rec, body = do(t, r, http.MethodGet, "/raw", token, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])

	rec, _ = do(t, r, http.MethodGet, "/panic", token, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec, _ = do(t, r, http.MethodGet, "/nowhere", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequest_DecodeBody(t *testing.T) {
	var dst struct {
		Code string `json:"code"`
	}

	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"123456"}`))}
	require.NoError(t, req.DecodeBody(&dst))
	assert.Equal(t, "123456", dst.Code)

	for _, body := range []string{`{"code":"1","extra":true}`, `{"code":"1"}{}`, `not json`} {
		req = &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))}
		assert.Error(t, req.DecodeBody(&dst), body)
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", realIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", realIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "203.0.113.9", realIP(req))
}
