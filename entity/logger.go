package entity

import "context"

// Logger is what the editor and the stores log through.
// kv are alternating keys and values, eg "op", "remove", "path", "or/1".
type Logger interface {
	Info(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, err error, kv ...any)
}
