package main

import (
	"os"
	"testing"
)

// swapStdin replaces os.Stdin with a pipe pre-loaded with content,
// returning a restore function. Used by decide/gate command tests that
// read their input from stdin by default.
func swapStdin(t *testing.T, content string) func() {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if _, err := w.WriteString(content); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	w.Close()

	original := os.Stdin
	os.Stdin = r
	return func() {
		os.Stdin = original
	}
}
