package appindex

import (
	"context"
	"testing"

	"github.com/appsweep/appsweep/internal/testutil"
)

// =============================================================================
// Normalize / Tokens
// =============================================================================

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Com.Example.MyApp", "com.example.myapp"},
		{"already.lower", "already.lower"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("com.Example.MyApp")
	want := []string{"com", "example", "myapp"}
	if len(got) != len(want) {
		t.Fatalf("Tokens returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// =============================================================================
// Index
// =============================================================================

func TestIndexContainsIsCaseInsensitive(t *testing.T) {
	index := make(Index)
	index.add("Com.Example.MyApp")

	if !index.Contains("com.example.myapp") {
		t.Error("expected lowercase lookup to hit")
	}
	if !index.Contains("COM.EXAMPLE.MYAPP") {
		t.Error("expected uppercase lookup to hit")
	}
	if index.Contains("com.example.other") {
		t.Error("unexpected hit for unrelated identifier")
	}
}

func TestIndexIgnoresEmptyIdentifiers(t *testing.T) {
	index := make(Index)
	index.add("")
	if index.Len() != 0 {
		t.Errorf("expected empty identifier to be dropped, len = %d", index.Len())
	}
}

// =============================================================================
// Plist parsing
// =============================================================================

func TestParsePlistIdentifier(t *testing.T) {
	f := testutil.NewFixture(t)
	app := f.CreateAppBundle(f.Info.UserApplicationsDir, "Widget", "com.acme.Widget")

	got := parsePlistIdentifier(app + "/Contents/Info.plist")
	if got != "com.acme.Widget" {
		t.Errorf("parsePlistIdentifier = %q, want %q", got, "com.acme.Widget")
	}
}

func TestParsePlistIdentifierMissingKey(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFile("Info.plist", []byte(`<plist><dict><key>CFBundleName</key><string>X</string></dict></plist>`))

	if got := parsePlistIdentifier(path); got != "" {
		t.Errorf("expected empty identifier, got %q", got)
	}
}

func TestParsePlistIdentifierUnreadable(t *testing.T) {
	if got := parsePlistIdentifier("/nonexistent/Info.plist"); got != "" {
		t.Errorf("expected empty identifier for missing file, got %q", got)
	}
}

// =============================================================================
// Build
// =============================================================================

// newTestBuilder disables the external tools so Build exercises only the
// directory strategies and the textual plist fallback.
func newTestBuilder(f *testutil.Fixture) *Builder {
	b := NewBuilder(f.Info)
	b.SpotlightTool = "appsweep-no-such-tool"
	b.DefaultsTool = "appsweep-no-such-tool"
	return b
}

func TestBuildUnionsApplicationDirs(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateAppBundle(f.Info.SystemApplicationsDir, "Alpha", "com.acme.Alpha")
	f.CreateAppBundle(f.Info.UserApplicationsDir, "Beta", "org.widgets.Beta")

	index := newTestBuilder(f).Build(context.Background())

	if index.Len() != 2 {
		t.Fatalf("expected 2 identifiers, got %d: %v", index.Len(), index.Identifiers())
	}
	if !index.Contains("com.acme.alpha") {
		t.Error("missing system-dir identifier")
	}
	if !index.Contains("org.widgets.beta") {
		t.Error("missing user-dir identifier")
	}
}

func TestBuildSkipsBundlesWithoutManifest(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir("UserApplications/Broken.app/Contents")

	index := newTestBuilder(f).Build(context.Background())
	if index.Len() != 0 {
		t.Errorf("expected empty index, got %v", index.Identifiers())
	}
}

func TestBuildDegradesToEmptyIndex(t *testing.T) {
	f := testutil.NewFixture(t)

	// No apps anywhere and no working tools: every strategy contributes
	// nothing, and the result is an empty index rather than an error.
	index := newTestBuilder(f).Build(context.Background())
	if index.Len() != 0 {
		t.Errorf("expected empty index, got %v", index.Identifiers())
	}
}

func TestIdentifiersSorted(t *testing.T) {
	index := make(Index)
	index.add("b.app")
	index.add("a.app")
	index.add("c.app")

	ids := index.Identifiers()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("identifiers not sorted: %v", ids)
		}
	}
}
