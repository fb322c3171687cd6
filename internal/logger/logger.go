package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxLines bounds how many status lines are retained for display.
const MaxLines = 200

// Config selects the zap level, encoding ("console" or "json") and output ("stdout", "stderr" or a file path).
type Config struct {
	Level      string
	Encoding   string
	OutputPath string
}

// NewZap builds a zap.Logger from cfg. Unknown levels fall back to info, unknown encodings to console.
func NewZap(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	name := strings.ToLower(cfg.Level)
	if name == "" {
		name = "info"
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q, using info: %v\n", cfg.Level, err)
		level.SetLevel(zap.InfoLevel)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoding := strings.ToLower(cfg.Encoding)
	if encoding != "console" && encoding != "json" {
		encoding = "console"
	}
	out := cfg.OutputPath
	if out == "" {
		out = "stderr"
	}

	z, err := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{out},
		ErrorOutputPaths:  []string{"stderr"},
	}.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return z, nil
}

// Logger keeps recent status lines in memory for the host to render, and forwards them to zap.
type Logger struct {
	mu    sync.Mutex
	lines []string
	z     *zap.Logger
	now   func() time.Time
}

// New returns a Logger writing through z. A nil z discards output but still retains lines.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	l := &Logger{lines: make([]string, 0), now: time.Now}
	l.z = z.WithOptions(zap.Hooks(l.hook))
	return l
}

// Zap returns the underlying logger. Warnings and errors logged through it are retained as
// status lines too.
func (l *Logger) Zap() *zap.Logger { return l.z }

// Log appends a status line, prefixed with [timestamp], and logs it at info level.
func (l *Logger) Log(line string) {
	l.retain(l.now(), line)
	l.z.Info(line)
}

// Write logs every non-empty line of p, so a Logger can stand in for a command's output.
func (l *Logger) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			l.Log(line)
		}
	}
	return len(p), nil
}

func (l *Logger) hook(e zapcore.Entry) error {
	if e.Level >= zapcore.WarnLevel {
		l.retain(e.Time, e.Level.CapitalString()+" "+e.Message)
	}
	return nil
}

func (l *Logger) retain(t time.Time, line string) {
	stamped := "[" + t.Format("2006-01-02 15:04:05") + "] " + line
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, stamped)
	if over := len(l.lines) - MaxLines; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
}

// Lines returns a copy of all retained lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
