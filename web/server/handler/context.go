package handler

import "context"

type contextKey string

const (
	contextKeyRole         contextKey = "role"
	contextKeyResponseData contextKey = "response_data"
)

func getRole(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyRole).(string); ok {
		return v
	}
	return ""
}

func setRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, contextKeyRole, role)
}

func getResponseData(ctx context.Context) []byte {
	if v := ctx.Value(contextKeyResponseData); v != nil {
		return v.([]byte) //nolint:errcheck,forcetypeassert // Acceptable risk; only set with constant key.
	}
	return []byte{}
}

func setResponseData(ctx context.Context, data []byte) context.Context {
	return context.WithValue(ctx, contextKeyResponseData, data)
}
