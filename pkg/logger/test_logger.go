package logger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// TestLogger captures every message in memory so tests can assert on them
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) record(msg LogMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *TestLogger) view() *testView {
	return &testView{root: l}
}

func (l *TestLogger) Debug(msg string)                         { l.view().Debug(msg) }
func (l *TestLogger) Info(msg string)                          { l.view().Info(msg) }
func (l *TestLogger) Warn(msg string)                          { l.view().Warn(msg) }
func (l *TestLogger) Error(msg string)                         { l.view().Error(msg) }
func (l *TestLogger) Fatal(msg string)                         { l.view().Fatal(msg) }
func (l *TestLogger) WithField(k string, v interface{}) Logger { return l.view().WithField(k, v) }
func (l *TestLogger) WithFields(f map[string]interface{}) Logger {
	return l.view().WithFields(f)
}
func (l *TestLogger) WithError(err error) Logger             { return l.view().WithError(err) }
func (l *TestLogger) WithContext(ctx context.Context) Logger { return l }
func (l *TestLogger) DebugWithFields(msg string, f map[string]interface{}) {
	l.view().DebugWithFields(msg, f)
}
func (l *TestLogger) InfoWithFields(msg string, f map[string]interface{}) {
	l.view().InfoWithFields(msg, f)
}
func (l *TestLogger) WarnWithFields(msg string, f map[string]interface{}) {
	l.view().WarnWithFields(msg, f)
}
func (l *TestLogger) ErrorWithFields(msg string, f map[string]interface{}) {
	l.view().ErrorWithFields(msg, f)
}
func (l *TestLogger) FatalWithFields(msg string, f map[string]interface{}) {
	l.view().FatalWithFields(msg, f)
}
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

// GetMessages returns a copy of all captured log messages
func (l *TestLogger) GetMessages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages := make([]LogMessage, len(l.messages))
	copy(messages, l.messages)
	return messages
}

// GetMessagesByLevel returns all messages of a specific level
func (l *TestLogger) GetMessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.GetMessages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks if a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.GetMessages() {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// Clear drops all captured messages
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// testView is a TestLogger with bound fields and error
type testView struct {
	root   *TestLogger
	fields map[string]interface{}
	err    error
}

func (v *testView) log(level, msg string, extra map[string]interface{}) {
	var fields map[string]interface{}
	if len(v.fields) > 0 || len(extra) > 0 {
		fields = v.merge(extra)
	}
	v.root.record(LogMessage{Level: level, Message: msg, Fields: fields, Error: v.err})
}

func (v *testView) merge(extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(v.fields)+len(extra))
	for k, val := range v.fields {
		merged[k] = val
	}
	for k, val := range extra {
		merged[k] = val
	}
	return merged
}

func (v *testView) Debug(msg string) { v.log("DEBUG", msg, nil) }
func (v *testView) Info(msg string)  { v.log("INFO", msg, nil) }
func (v *testView) Warn(msg string)  { v.log("WARN", msg, nil) }
func (v *testView) Error(msg string) { v.log("ERROR", msg, nil) }
func (v *testView) Fatal(msg string) { v.log("FATAL", msg, nil) }

func (v *testView) WithField(key string, value interface{}) Logger {
	return v.WithFields(map[string]interface{}{key: value})
}

func (v *testView) WithFields(fields map[string]interface{}) Logger {
	return &testView{root: v.root, fields: v.merge(fields), err: v.err}
}

func (v *testView) WithError(err error) Logger {
	return &testView{root: v.root, fields: v.fields, err: err}
}

func (v *testView) WithContext(ctx context.Context) Logger { return v }

func (v *testView) DebugWithFields(msg string, f map[string]interface{}) { v.log("DEBUG", msg, f) }
func (v *testView) InfoWithFields(msg string, f map[string]interface{})  { v.log("INFO", msg, f) }
func (v *testView) WarnWithFields(msg string, f map[string]interface{})  { v.log("WARN", msg, f) }
func (v *testView) ErrorWithFields(msg string, f map[string]interface{}) { v.log("ERROR", msg, f) }
func (v *testView) FatalWithFields(msg string, f map[string]interface{}) { v.log("FATAL", msg, f) }
func (v *testView) GetZerolog() *zerolog.Logger                          { return v.root.GetZerolog() }
