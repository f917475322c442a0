package sdk

import (
	"testing"

	"github.com/go-drift/keyed/pkg/bridge"
)

func setupVersion(t *testing.T, version string) *bridge.TestBridge {
	t.Helper()
	tb := bridge.SetupTestBridge(t.Cleanup)
	t.Cleanup(ResetForTest)
	ResetForTest()
	tb.OnInvoke = func(channel, method string, args any) (any, error) {
		if channel != "keyed/platform" || method != "osVersion" {
			t.Errorf("unexpected call %s/%s", channel, method)
		}
		return map[string]any{"version": version}, nil
	}
	return tb
}

func TestVersion(t *testing.T) {
	tb := setupVersion(t, "14")

	v, err := Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "14" {
		t.Errorf("Version = %q", v)
	}

	// Second call is served from the cache.
	if _, err := Version(); err != nil {
		t.Fatal(err)
	}
	if n := len(tb.Calls()); n != 1 {
		t.Errorf("native queried %d times, want 1", n)
	}
}

func TestVersionWithoutBridge(t *testing.T) {
	t.Cleanup(bridge.ResetForTest)
	t.Cleanup(ResetForTest)
	bridge.ResetForTest()
	ResetForTest()

	if _, err := Version(); err == nil {
		t.Error("Version without a bridge succeeded")
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		os   string
		min  string
		want bool
	}{
		{"14", "7", true},
		{"7", "7", true},
		{"6.0.1", "7", false},
		{"7.1", "7", true},
		{"17.2", "17.3", false},
		{"10", "9.5", true},
	}
	for _, tt := range tests {
		t.Run(tt.os+">="+tt.min, func(t *testing.T) {
			setupVersion(t, tt.os)
			if got := AtLeast(tt.min); got != tt.want {
				t.Errorf("AtLeast(%q) on OS %q = %v, want %v", tt.min, tt.os, got, tt.want)
			}
		})
	}
}

func TestAtLeastUnknownVersion(t *testing.T) {
	t.Cleanup(bridge.ResetForTest)
	t.Cleanup(ResetForTest)
	bridge.ResetForTest()
	ResetForTest()

	if AtLeast("1") {
		t.Error("AtLeast reported true with no bridge")
	}
}
