package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestFrom_FallsBackToSingleton(t *testing.T) {
	if From(context.Background()) != L() {
		t.Fatalf("expected singleton when context has no logger")
	}
	var nilCtx context.Context
	if From(nilCtx) != L() {
		t.Fatalf("expected singleton for nil context")
	}
}

func TestToContext_RoundTrip(t *testing.T) {
	scoped := zap.NewNop().With(zap.String("request_id", "abc"))
	ctx := ToContext(context.Background(), scoped)
	if From(ctx) != scoped {
		t.Fatalf("expected scoped logger from context")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}
