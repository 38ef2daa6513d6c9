package fill

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		level          LogLevel
		setupFunc      func(*Logger)
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:  "debug level shows all messages",
			level: LogDebug,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Warn("warn message")
				l.Error("error message")
			},
			expectedOutput: []string{
				"[DEBUG] debug message",
				"[INFO] info message",
				"[WARN] warn message",
				"[ERROR] error message",
			},
		},
		{
			name:  "info level hides debug messages",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Warn("warn message")
			},
			expectedOutput: []string{
				"[INFO] info message",
				"[WARN] warn message",
			},
			notExpected: []string{
				"[DEBUG] debug message",
			},
		},
		{
			name:  "error level shows only errors",
			level: LogError,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Warn("warn message")
				l.Error("error message")
			},
			expectedOutput: []string{
				"[ERROR] error message",
			},
			notExpected: []string{
				"[DEBUG] debug message",
				"[INFO] info message",
				"[WARN] warn message",
			},
		},
		{
			name:  "off level shows nothing",
			level: LogOff,
			setupFunc: func(l *Logger) {
				l.Debug("debug message")
				l.Info("info message")
				l.Warn("warn message")
				l.Error("error message")
			},
			notExpected: []string{
				"debug message",
				"info message",
				"warn message",
				"error message",
			},
		},
		{
			name:  "formatting directives are applied",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.Info("filled %d parts in %s", 3, "deck.pptx")
			},
			expectedOutput: []string{
				"[INFO] filled 3 parts in deck.pptx",
			},
		},
		{
			name:  "structured fields are appended sorted",
			level: LogInfo,
			setupFunc: func(l *Logger) {
				l.WithFields(Fields{"part": "word/document.xml", "matched": 2}).Info("part filled")
			},
			expectedOutput: []string{
				"[INFO] part filled matched=2 part=word/document.xml",
			},
		},
		{
			name:  "with field chains onto existing fields",
			level: LogDebug,
			setupFunc: func(l *Logger) {
				l.WithField("strategy", "deck-tree").WithField("slides", 4).Debug("probe passed")
			},
			expectedOutput: []string{
				"[DEBUG] probe passed slides=4 strategy=deck-tree",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)
			tt.setupFunc(logger)
			output := buf.String()

			for _, expected := range tt.expectedOutput {
				if !strings.Contains(output, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, output)
				}
			}
			for _, unexpected := range tt.notExpected {
				if strings.Contains(output, unexpected) {
					t.Errorf("expected output to not contain %q, got:\n%s", unexpected, output)
				}
			}
		})
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&buf, LogInfo)
	child := parent.WithField("slide", "slide2.xml")

	child.Info("child message")
	parent.Info("parent message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "slide=slide2.xml") {
		t.Errorf("child line missing field: %s", lines[0])
	}
	if strings.Contains(lines[1], "slide=") {
		t.Errorf("parent line should not carry child field: %s", lines[1])
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogError)

	logger.Info("hidden")
	logger.SetLevel(LogInfo)
	logger.Info("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("expected message logged below level to be dropped, got:\n%s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("expected message logged at level to appear, got:\n%s", output)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogDebug},
		{"info", LogInfo},
		{"warn", LogWarn},
		{"error", LogError},
		{"off", LogOff},
		{"", LogInfo},
		{"nonsense", LogInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetDefaultLogger(t *testing.T) {
	original := DefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	SetDefaultLogger(NewLogger(&buf, LogDebug))
	DefaultLogger().Info("default logger in use")

	if !strings.Contains(buf.String(), "[INFO] default logger in use") {
		t.Errorf("expected replaced default logger to receive output, got:\n%s", buf.String())
	}
}
