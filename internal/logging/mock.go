package logging

// MockLogger captures log entries for verification in tests.
type MockLogger struct {
	Entries []LogEntry

	pendingError error
	pendingField *Field
	parent       *MockLogger
}

// LogEntry is a single entry captured by MockLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

// sink resolves the root logger so derived loggers record into the same list.
func (m *MockLogger) sink() *MockLogger {
	if m.parent != nil {
		return m.parent.sink()
	}
	return m
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	all := fields
	if m.pendingField != nil {
		all = append([]Field{*m.pendingField}, fields...)
	}
	s := m.sink()
	s.Entries = append(s.Entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  all,
		Error:   m.pendingError,
	})
}

// Debug records a debug-level entry.
func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("DEBUG", msg, fields) }

// Info records an info-level entry.
func (m *MockLogger) Info(msg string, fields ...Field) { m.record("INFO", msg, fields) }

// Warn records a warn-level entry.
func (m *MockLogger) Warn(msg string, fields ...Field) { m.record("WARN", msg, fields) }

// Error records an error-level entry.
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("ERROR", msg, fields) }

// WithError returns a derived logger that records with the error attached.
func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{pendingError: err, pendingField: m.pendingField, parent: m.sink()}
}

// WithField returns a derived logger that records with the field attached.
func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return &MockLogger{pendingError: m.pendingError, pendingField: &Field{Key: key, Value: value}, parent: m.sink()}
}
