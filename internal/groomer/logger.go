package groomer

// Logger is the operator-facing logging surface the engine and policies use.
// Defined here (rather than importing the logging package) so that the
// engine stays testable with a silent or recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Mark(string, ...interface{})
	Debug(bool, string, ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})        {}
func (nopLogger) Success(string, ...interface{})     {}
func (nopLogger) Warn(string, ...interface{})        {}
func (nopLogger) Error(string, ...interface{})       {}
func (nopLogger) Mark(string, ...interface{})        {}
func (nopLogger) Debug(bool, string, ...interface{}) {}
