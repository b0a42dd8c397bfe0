package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version, GitCommit, BuildDate = "dev", "unknown", "unknown"
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("GetFullVersion() = %q, want %q", got, "dev")
	}

	Version, GitCommit, BuildDate = "v1.2.0", "0123456789abcdef", "2026-01-02"
	want := "v1.2.0 (commit 0123456, built 2026-01-02)"
	if got := GetFullVersion(); got != want {
		t.Errorf("GetFullVersion() = %q, want %q", got, want)
	}
	if got := GetVersion(); got != "v1.2.0" {
		t.Errorf("GetVersion() = %q, want %q", got, "v1.2.0")
	}
}
