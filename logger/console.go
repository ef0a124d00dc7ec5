package logger

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palette shared by all encoders
var levelColors = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel:  color.New(color.FgCyan),
	zapcore.InfoLevel:   color.New(color.FgGreen),
	zapcore.WarnLevel:   color.New(color.FgYellow),
	zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
	zapcore.DPanicLevel: color.New(color.FgRed, color.Bold),
	zapcore.PanicLevel:  color.New(color.FgRed, color.Bold),
	zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
}

//nolint:gochecknoglobals // static colors shared by all encoders
var (
	nameColor  = color.New(color.FgHiBlack)
	fieldColor = color.New(color.FgHiWhite)
)

// consoleEncoder renders an entry as one colored line followed by the
// structured fields as indented JSON.
type consoleEncoder struct {
	zapcore.Encoder

	pool buffer.Pool
}

func newConsoleEncoder(cfg zapcore.EncoderConfig) *consoleEncoder {
	return &consoleEncoder{
		Encoder: zapcore.NewJSONEncoder(cfg),
		pool:    buffer.NewPool(),
	}
}

// newConsoleLogger builds a zap logger writing console encoded entries to stdout.
func newConsoleLogger(cfg *zap.Config) *zap.Logger {
	core := zapcore.NewCore(newConsoleEncoder(cfg.EncoderConfig), zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

// Clone keeps derived loggers on the console encoder.
func (e *consoleEncoder) Clone() zapcore.Encoder {
	return &consoleEncoder{Encoder: e.Encoder.Clone(), pool: e.pool}
}

func (e *consoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	jsonBuf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer jsonBuf.Free()

	out := e.pool.Get()
	out.AppendString(entry.Time.Format("15:04:05.000"))
	out.AppendByte(' ')
	out.AppendString(levelColor(entry.Level).Sprintf("%-5s", entry.Level.CapitalString()))
	if entry.LoggerName != "" {
		out.AppendByte(' ')
		out.AppendString(nameColor.Sprint("[" + entry.LoggerName + "]"))
	}
	out.AppendByte(' ')
	out.AppendString(entry.Message)
	out.AppendByte('\n')

	if extra := extractFields(jsonBuf.Bytes()); extra != nil {
		out.AppendString(fieldColor.Sprint(string(extra)))
		out.AppendByte('\n')
	}

	return out, nil
}

// extractFields returns the indented JSON of the entry's structured fields,
// or nil when there are none.
func extractFields(raw []byte) []byte {
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &payload); err != nil {
		return raw
	}

	for _, key := range []string{messageKey, levelKey, nameKey, timeKey} {
		delete(payload, key)
	}
	if len(payload) == 0 {
		return nil
	}

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return raw
	}
	return pretty
}

func levelColor(level zapcore.Level) *color.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return fieldColor
}
