package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/smartotp/internal/pkg/router.(*Router).recoverer.func1()
	/app/internal/pkg/router/middleware_recover.go:21 +0x45
net/http.HandlerFunc.ServeHTTP(...)
	/usr/local/go/src/net/http/server.go:2294
github.com/shandysiswandi/smartotp/internal/authenticator/usecase.(*Usecase).GenerateCode()
	/app/internal/authenticator/usecase/otp_generate.go:40 +0x1f
`)

	assert.Equal(t, []string{
		"internal/pkg/router/middleware_recover.go:21",
		"internal/authenticator/usecase/otp_generate.go:40",
	}, InternalPaths(stack))
}
