package ugentest

import (
	"log"
	"strings"
	"testing"
)

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// Logger returns a logger writing to t.Log.
func Logger(t testing.TB) *log.Logger {
	return log.New(testWriter{t}, "", 0)
}
