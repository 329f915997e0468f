package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"Code":        "code",
		"AccountID":   "account_id",
		"IconURL":     "icon_url",
		"HTTPServer":  "http_server",
		"SortOrder":   "sort_order",
		"Sha256Bytes": "sha256_bytes",
	}

	for in, want := range tests {
		assert.Equal(t, want, ToLowerSnake(in), in)
	}
}
