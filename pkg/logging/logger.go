package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

// ColoredLogger wraps zap.Logger with colored output
type ColoredLogger struct {
	*zap.Logger
	enableColors bool
}

// Component represents different parts of the system for color coding
type Component string

const (
	ComponentClient   Component = "CLIENT"
	ComponentCache    Component = "CACHE"
	ComponentMutation Component = "MUTATION"
	ComponentForm     Component = "FORM"
	ComponentTUI      Component = "TUI"
	ComponentServer   Component = "SERVER"
	ComponentStore    Component = "STORE"
	ComponentGeneral  Component = "GENERAL"
)

func getComponentColor(component Component) string {
	switch component {
	case ComponentClient:
		return Blue
	case ComponentCache:
		return BrightCyan
	case ComponentMutation:
		return BrightMagenta
	case ComponentForm:
		return Cyan
	case ComponentTUI:
		return BrightBlue
	case ComponentServer:
		return BrightGreen
	case ComponentStore:
		return BrightYellow
	case ComponentGeneral:
		return Yellow
	default:
		return White
	}
}

func getLevelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return Gray
	case zapcore.InfoLevel:
		return BrightWhite
	case zapcore.WarnLevel:
		return BrightYellow
	case zapcore.ErrorLevel:
		return BrightRed
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return Red
	default:
		return White
	}
}

var levelLetters = map[zapcore.Level]string{
	zapcore.DebugLevel: "D",
	zapcore.InfoLevel:  "I",
	zapcore.WarnLevel:  "W",
	zapcore.ErrorLevel: "E",
}

// coloredConsoleEncoder builds the compact console format:
// HH:MM:SS, single letter level, caller file without extension.
func coloredConsoleEncoder(enableColors bool) zapcore.Encoder {
	config := zap.NewDevelopmentEncoderConfig()

	paint := func(color, s string) string {
		if !enableColors {
			return s
		}
		return color + s + Reset
	}

	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(paint(Dim, t.Format("15:04:05")))
	}

	config.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		letter, ok := levelLetters[level]
		if !ok {
			letter = "?"
		}
		enc.AppendString(paint(getLevelColor(level)+Bold, letter))
	}

	config.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		file := caller.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		enc.AppendString(paint(Dim, strings.TrimSuffix(file, ".go")))
	}

	return zapcore.NewConsoleEncoder(config)
}

// ParseLevel maps a configured level name to a zap level. Unknown or empty
// names fall back to info.
func ParseLevel(name string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil || name == "" {
		return zapcore.InfoLevel
	}
	return level
}

// NewLogger creates a colored logger writing to w at the given level.
func NewLogger(w io.Writer, level zapcore.Level, enableColors bool) *ColoredLogger {
	core := zapcore.NewCore(
		coloredConsoleEncoder(enableColors),
		zapcore.AddSync(w),
		level,
	)

	return &ColoredLogger{
		Logger:       zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		enableColors: enableColors,
	}
}

// NewColoredLogger creates a debug level logger on stderr. Stdout is left to
// command output.
func NewColoredLogger(component Component, enableColors bool) (*ColoredLogger, error) {
	return NewLogger(os.Stderr, zapcore.DebugLevel, enableColors), nil
}

// NewFileLogger creates a logger that appends to a file. The terminal UI
// owns the screen, so it logs here instead of to a stream.
func NewFileLogger(component Component, filePath string, level zapcore.Level, enableColors bool) (*ColoredLogger, error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	return NewLogger(file, level, enableColors), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *ColoredLogger {
	return &ColoredLogger{Logger: zap.NewNop()}
}

func (l *ColoredLogger) tag(component Component, msg string) string {
	if l.enableColors {
		return fmt.Sprintf("%s[%s]%s %s", getComponentColor(component), component, Reset, msg)
	}
	return fmt.Sprintf("[%s] %s", component, msg)
}

// Component-specific logging methods
func (l *ColoredLogger) ComponentInfo(component Component, msg string, fields ...zap.Field) {
	l.Info(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentWarn(component Component, msg string, fields ...zap.Field) {
	l.Warn(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentError(component Component, msg string, fields ...zap.Field) {
	l.Error(l.tag(component, msg), fields...)
}

func (l *ColoredLogger) ComponentDebug(component Component, msg string, fields ...zap.Field) {
	l.Debug(l.tag(component, msg), fields...)
}

// For returns a plain zap logger whose messages carry the component tag.
// Library packages take a *zap.Logger; this is how commands hand one over.
func (l *ColoredLogger) For(component Component) *zap.Logger {
	return l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &taggedCore{Core: core, prefix: l.tag(component, "")}
	}), zap.AddCallerSkip(-1))
}

type taggedCore struct {
	zapcore.Core
	prefix string
}

func (c *taggedCore) With(fields []zapcore.Field) zapcore.Core {
	return &taggedCore{Core: c.Core.With(fields), prefix: c.prefix}
}

func (c *taggedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *taggedCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = c.prefix + ent.Message
	return c.Core.Write(ent, fields)
}

// StandardLogger adapts the colored logger to Printf-style callers
// such as the olric client.
type StandardLogger struct {
	logger    *ColoredLogger
	component Component
}

// NewStandardLogger creates a Printf-style logger on top of an existing one.
func NewStandardLogger(logger *ColoredLogger, component Component) *StandardLogger {
	return &StandardLogger{logger: logger, component: component}
}

func (s *StandardLogger) Printf(format string, v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintf(format, v...), "\n")
	s.logger.ComponentInfo(s.component, msg)
}

// Print satisfies chi's middleware.LoggerInterface.
func (s *StandardLogger) Print(v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprint(v...), "\n")
	s.logger.ComponentInfo(s.component, msg)
}

func (s *StandardLogger) Println(v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintln(v...), "\n")
	s.logger.ComponentInfo(s.component, msg)
}

func (s *StandardLogger) Errorf(format string, v ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintf(format, v...), "\n")
	s.logger.ComponentError(s.component, msg)
}
