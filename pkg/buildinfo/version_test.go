package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFillFromBuildInfo(t *testing.T) {
	stamp(t, "dev", "none", "unknown")

	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}, true)

	if Version != "v0.3.0" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("got %s %s %s", Version, Commit, Date)
	}
}

func TestFillKeepsLdflags(t *testing.T) {
	stamp(t, "v1.0.0", "deadbeef", "today")

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	}, true)

	if Version != "v1.0.0" || Commit != "deadbeef" {
		t.Errorf("ldflags values overwritten: %s %s", Version, Commit)
	}
}

func TestFillDevelIgnored(t *testing.T) {
	stamp(t, "dev", "none", "unknown")
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	fill(nil, false)
	if Version != "dev" {
		t.Errorf("Version = %q, want dev", Version)
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v1.0.0", "deadbeef", "today")
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version: v1.0.0\n") || !strings.Contains(got, "commit: deadbeef") {
		t.Errorf("Template() = %q", got)
	}
}
