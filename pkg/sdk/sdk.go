// Package sdk reports the host OS version and gates features on it.
//
// Versions are compared as semantic versions; a bare major like "7" is
// accepted. The native side reports whatever the OS exposes, e.g. "14" on
// Android or "17.2" on iOS.
package sdk

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/mod/semver"

	"github.com/go-drift/keyed/pkg/bridge"
)

var (
	channel = bridge.NewMethodChannel("keyed/platform")

	mu     sync.Mutex
	cached string
)

// Version returns the host OS version string, cached after the first query.
func Version() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if cached != "" {
		return cached, nil
	}
	result, err := channel.Invoke("osVersion", nil)
	if err != nil {
		return "", err
	}
	v := bridge.String(bridge.Map(result)["version"])
	if v == "" {
		return "", fmt.Errorf("sdk: native side reported no version (got %v)", result)
	}
	cached = v
	return v, nil
}

// AtLeast reports whether the host OS version is at least min.
// An unknown or unreachable version reports false.
func AtLeast(min string) bool {
	v, err := Version()
	if err != nil {
		return false
	}
	return semver.Compare(canonical(v), canonical(min)) >= 0
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// ResetForTest clears the cached version. This should only be called from
// tests.
func ResetForTest() {
	mu.Lock()
	cached = ""
	mu.Unlock()
}
