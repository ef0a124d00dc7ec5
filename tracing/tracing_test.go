package tracing_test

import (
	"strings"
	"testing"

	"github.com/rise-and-shine/filemanager/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestInitGlobalTracer_Disabled(t *testing.T) {
	shutdown, err := tracing.InitGlobalTracer(tracing.Config{Disable: true}, "filemanager", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown())
}

func TestGetStartingTraceID(t *testing.T) {
	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
	})
	ctx := trace.ContextWithSpanContext(t.Context(), sc)

	assert.Equal(t, traceID.String(), tracing.GetStartingTraceID(ctx))

	manual := tracing.GetStartingTraceID(t.Context())
	assert.True(t, strings.HasPrefix(manual, "man-"), manual)
	assert.NotEqual(t, manual, tracing.GetStartingTraceID(t.Context()))
}
