//go:build linux

package setup

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// The tag and color printed for each log level
var levelTags = map[zapcore.Level]struct {
	tag   string
	color lipgloss.Color
}{
	zapcore.DebugLevel: {"🔍 DEBUG", lipgloss.Color("8")},
	zapcore.InfoLevel:  {"ℹ️  INFO", lipgloss.Color("12")},
	zapcore.WarnLevel:  {"⚠️  WARN", lipgloss.Color("11")},
	zapcore.ErrorLevel: {"❌ ERROR", lipgloss.Color("9")},
}

// Creates a renderer whose color profile reflects the writer and the environment (NO_COLOR, CLICOLOR_FORCE)
func newRenderer(w io.Writer) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	return renderer
}

// Encodes log levels as colored, emoji-tagged labels
func levelEncoder(renderer *lipgloss.Renderer) zapcore.LevelEncoder {
	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		tag, known := levelTags[level]
		if !known {
			tag = levelTags[zapcore.ErrorLevel]
			tag.tag = "❌ " + level.CapitalString()
		}

		enc.AppendString(renderer.NewStyle().Bold(true).Foreground(tag.color).Render(tag.tag))
	}
}

// Creates the human-readable console logger. The returned level can be raised to debug once the configuration is known.
func NewLogger(w io.Writer) (*zap.Logger, zap.AtomicLevel) {

	// Start from the development encoder, without timestamps or callers
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.EncodeLevel = levelEncoder(newRenderer(w))

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core), level
}
