// Package logging emits the connector's structured JSON log lines via
// zap: one synchronous sink to stdout, plus an optional fire-and-forget
// remote sink whose failures are never surfaced to the caller.
package logging

import (
	"bytes"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors spec.md §4.10's three-level vocabulary.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelSevere  Level = "SEVERE"
)

// Logger wraps a *zap.Logger pre-populated with session_id and
// origin="sdk_destination" fields, per spec.md §4.10.
type Logger struct {
	z *zap.Logger
}

// RemoteSink fires JSON log payloads at a collector endpoint,
// best-effort. Construct with NewHTTPRemoteSink or leave nil to disable.
type RemoteSink interface {
	Send(payload []byte)
}

// New builds a Logger for sessionID, writing to stdout synchronously and,
// if remote is non-nil, to remote fire-and-forget.
func New(sessionID string, remote RemoteSink) *Logger {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:    "message",
		LevelKey:      "level",
		TimeKey:       "",
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			switch {
			case l >= zapcore.ErrorLevel:
				enc.AppendString(string(LevelSevere))
			case l == zapcore.WarnLevel:
				enc.AppendString(string(LevelWarning))
			default:
				enc.AppendString(string(LevelInfo))
			}
		},
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	stdoutCore := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), zapcore.DebugLevel)

	cores := []zapcore.Core{stdoutCore}
	if remote != nil {
		cores = append(cores, &remoteCore{encoder: encoder, sink: remote})
	}

	z := zap.New(zapcore.NewTee(cores...)).With(
		zap.String("session_id", sessionID),
		zap.String("origin", "sdk_destination"),
	)

	return &Logger{z: z}
}

// With returns a child Logger carrying additional structured fields,
// mirroring zap.Logger.With.
func (l *Logger) With(keysAndValues ...string) *Logger {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, zap.String(keysAndValues[i], keysAndValues[i+1]))
	}
	return &Logger{z: l.z.With(fields...)}
}

func (l *Logger) fields(keysAndValues ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, zap.String(keysAndValues[i], keysAndValues[i+1]))
	}
	return fields
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, keysAndValues ...string) {
	l.z.Info(msg, l.fields(keysAndValues...)...)
}

// Warning logs at WARNING level.
func (l *Logger) Warning(msg string, keysAndValues ...string) {
	l.z.Warn(msg, l.fields(keysAndValues...)...)
}

// Severe logs at SEVERE level.
func (l *Logger) Severe(msg string, keysAndValues ...string) {
	l.z.Error(msg, l.fields(keysAndValues...)...)
}

// Sync flushes the underlying zap core.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// remoteCore is a zapcore.Core that forwards encoded entries to a
// RemoteSink and always reports success to zap, since remote-sink
// failures must never propagate back to the caller (spec.md §4.10:
// "failures are silently dropped").
type remoteCore struct {
	encoder zapcore.Encoder
	sink    RemoteSink
	fields  []zapcore.Field
}

func (c *remoteCore) Enabled(zapcore.Level) bool { return true }

func (c *remoteCore) With(fields []zapcore.Field) zapcore.Core {
	return &remoteCore{encoder: c.encoder, sink: c.sink, fields: append(append([]zapcore.Field{}, c.fields...), fields...)}
}

func (c *remoteCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, c)
}

func (c *remoteCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.encoder.EncodeEntry(ent, append(append([]zapcore.Field{}, c.fields...), fields...))
	if err != nil {
		return nil
	}
	payload := append([]byte{}, buf.Bytes()...)
	buf.Free()
	c.sink.Send(payload)
	return nil
}

func (c *remoteCore) Sync() error { return nil }

// NewHTTPRemoteSink builds a RemoteSink that POSTs each payload to url,
// swallowing all errors (connection failures, non-2xx responses,
// timeouts alike), per spec.md §4.10.
func NewHTTPRemoteSink(url string, client *http.Client) RemoteSink {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &httpRemoteSink{url: url, client: client}
}

type httpRemoteSink struct {
	url    string
	client *http.Client
}

func (s *httpRemoteSink) Send(payload []byte) {
	go func() {
		resp, err := s.client.Post(s.url, "application/json", bytes.NewReader(payload))
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
}
