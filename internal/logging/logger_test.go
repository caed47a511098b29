package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a nop when no level is configured")
	}
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	if !GetLogger().Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled")
	}
}

func TestLogSysEx(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogSysEx("mock", "out", []byte{0xF0, 0x00, 0xF7})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["hex"]; got != "F0 00 F7" {
		t.Errorf("hex field = %v, want F0 00 F7", got)
	}
}

func TestLogRawBytes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogRawBytes("Invalid frame bytes", []byte("hi\x00"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["ascii"] != "hi." || fields["hex"] != "68 69 00" {
		t.Errorf("fields = %v", fields)
	}
}

func TestHexDumpTruncates(t *testing.T) {
	data := make([]byte, maxDumpBytes+10)
	dump := hexDump(data)
	if !strings.HasSuffix(dump, "...") {
		t.Errorf("hexDump() of %d bytes should be truncated", len(data))
	}
}

func TestAsciiDump(t *testing.T) {
	if got := asciiDump([]byte("Mio\x00")); got != "Mio." {
		t.Errorf("asciiDump() = %q, want %q", got, "Mio.")
	}
}
