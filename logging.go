package art

import "go.uber.org/zap"

// logger is the destination for diagnostic logging of should-never-happen
// conditions — cases the node invariants rule out but that a caller
// corrupting a node directly (outside this package) could still produce.
// Mirrors the teacher's own pattern of warning and degrading gracefully
// rather than panicking on a malformed address. Defaults to a no-op logger;
// install a real one with SetLogger during development.
var logger = zap.NewNop()

// SetLogger installs l as the package-wide diagnostic logger. Passing nil
// restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
