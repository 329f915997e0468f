package instrument

import "context"

type correlationKey struct{}

// SetCorrelationID returns ctx carrying id. Logs written with the returned
// context include it as "_cID".
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationID returns the id stored by SetCorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
