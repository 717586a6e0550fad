package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type label string

func Test_FromContextReturnsAttachedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	ctx := l.GetContext(context.Background())
	FromContext(ctx).With(String("run", "abc")).Info("hello", Int(label("n"), int8(3)))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["run"])
	assert.Equal(t, int64(3), entry.ContextMap()["n"])
}

func Test_FieldHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	l.Debug("fields",
		Decimal("amount", decimal.RequireFromString("1000.50")),
		Bool("ok", true),
		Uint("u", uint16(7)),
		Float("f", float32(1.5)),
		Error(errors.New("boom")),
	)

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "1000.5", fields["amount"])
	assert.Equal(t, true, fields["ok"])
	assert.Equal(t, uint64(7), fields["u"])
	assert.Equal(t, 1.5, fields["f"])
	assert.Equal(t, "boom", fields["error"])
}

func Test_NopAndNilWrap(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Info("ignored")
		Wrap(nil).Warn("ignored")
	})
}
