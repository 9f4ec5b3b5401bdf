package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = writer
	defer func() {
		os.Stdout = oldStdout
	}()

	fn()

	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close() failed: %v", err)
	}

	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, reader); err != nil {
		t.Fatalf("io.Copy() failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("reader.Close() failed: %v", err)
	}

	return buffer.String()
}

func TestPrintDiagnoseReportsMediaDirAndTools(t *testing.T) {
	output := captureStdout(t, printDiagnose)
	if !strings.Contains(output, "path.media:") {
		t.Fatalf("printDiagnose() output missing media dir: %s", output)
	}
	if !strings.Contains(output, "dependency.ffmpeg:") || !strings.Contains(output, "dependency.yt-dlp:") {
		t.Fatalf("printDiagnose() output missing tool checks: %s", output)
	}
}

func TestPrintVersionDefaults(t *testing.T) {
	output := captureStdout(t, printVersion)
	if !strings.Contains(output, "version: dev") {
		t.Fatalf("printVersion() output unexpected: %s", output)
	}
}
