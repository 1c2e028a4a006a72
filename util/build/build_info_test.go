package build

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	old := GitRevision
	defer func() { GitRevision = old }()
	GitRevision = "abc123"

	info := GetInfo()
	if info.GitRevision != "abc123" {
		t.Errorf("expected link-time revision, got %q", info.GitRevision)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected go version %v, got %v", runtime.Version(), info.GoVersion)
	}
	if s := info.String(); !strings.Contains(s, "rev abc123") || !strings.HasPrefix(s, AppVersion) {
		t.Errorf("unexpected version string %q", s)
	}
}
