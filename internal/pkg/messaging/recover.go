package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/smartotp/internal/pkg/stacktrace"
)

// handleSafely runs handler for msg, converting a panic into an error.
func handleSafely(ctx context.Context, backend string, handler Handler, msg Message) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		attrs := []any{"backend", backend, "topic", msg.Topic(), "message_id", msg.ID(), "panic", rvr}
		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			attrs = append(attrs, "stack", paths)
		} else {
			attrs = append(attrs, "stack", string(stack))
		}
		slog.ErrorContext(ctx, "panic in messaging handler", attrs...)

		err = fmt.Errorf("pkgmessage: panic in %s handler: %v", backend, rvr)
	}()

	return handler(ctx, msg)
}
