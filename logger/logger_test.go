package logger

import (
	"errors"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger{zap.New(core).Sugar()}, logs
}

func TestErrorx_AttachesErrxFields(t *testing.T) {
	log, logs := newObserved()

	log.Errorx(errx.New("disk full", errx.WithCode("FILE_WRITE_FAILED"), errx.WithType(errx.T_Internal)))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "FILE_WRITE_FAILED", entry.ContextMap()["error_code"])
	assert.Contains(t, entry.ContextMap(), "error_trace")
}

func TestWarnx_PlainError(t *testing.T) {
	log, logs := newObserved()

	log.Warnx(errors.New("plain"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "plain", logs.All()[0].Message)
	assert.NotContains(t, logs.All()[0].ContextMap(), "error_code")
}

func TestWithContext_AddsMeta(t *testing.T) {
	log, logs := newObserved()
	ctx := meta.InjectMetaToContext(t.Context(), map[meta.ContextKey]string{
		meta.TraceID:   "trace-1",
		meta.IPAddress: "",
	})

	log.WithContext(ctx).Named("files").Info("saved")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "files", entry.LoggerName)
	assert.Equal(t, "trace-1", entry.ContextMap()["trace_id"])
	assert.NotContains(t, entry.ContextMap(), "ip_address")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Level: "loud", Encoding: EncodingJSON})
	require.Error(t, err)

	l, err := New(Config{Disable: true})
	require.NoError(t, err)
	l.Info("discarded")
}

func TestExtractFields(t *testing.T) {
	raw := []byte(`{"level":"INFO","time":"t","msg":"m","logger":"n","id":7}`)
	assert.JSONEq(t, `{"id":7}`, string(extractFields(raw)))

	assert.Nil(t, extractFields([]byte(`{"level":"INFO","msg":"m"}`)))
}
