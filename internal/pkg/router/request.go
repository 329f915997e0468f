package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
)

// maxBodyBytes caps request bodies; OTP payloads are tiny.
const maxBodyBytes = 64 * 1024

// Request wraps http.Request with decoding helpers for inbound handlers.
type Request struct {
	*http.Request
}

func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

func (r *Request) GetParamInt64(key string) (int64, error) {
	value, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil {
		return 0, goerror.NewInvalidFormat("Path parameter " + key + " must be an integer")
	}

	return value, nil
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt returns 0 when the parameter is absent.
func (r *Request) GetQueryInt(key string) (int, error) {
	raw := r.GetQuery(key)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerror.NewInvalidFormat("Query parameter " + key + " must be an integer")
	}

	return value, nil
}

// ClientIP is the address resolved by the IP middleware.
func (r *Request) ClientIP() string {
	return r.RemoteAddr
}

// DecodeBody decodes exactly one JSON value into dst, rejecting unknown fields.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
