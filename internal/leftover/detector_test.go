package leftover

import (
	"testing"
	"time"

	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/dirsize"
	"github.com/appsweep/appsweep/internal/testutil"
)

// testSizer always walks, so artifact sizes in tests are exact byte sums.
func testSizer() *dirsize.Sizer {
	return &dirsize.Sizer{Tool: "appsweep-no-such-tool", Timeout: time.Second}
}

func category(t *testing.T, f *testutil.Fixture, cfg *config.Config, name string) Category {
	t.Helper()
	for _, c := range Categories(f.Info, cfg) {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("category %q not found", name)
	return Category{}
}

func findItem(items []Item, id string) *Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func findSkipped(skipped []Skipped, name string) *Skipped {
	for i := range skipped {
		if skipped[i].Name == name {
			return &skipped[i]
		}
	}
	return nil
}

// =============================================================================
// Containers
// =============================================================================

func TestContainersExactMatchOnly(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.ContainersDir, "com.acme.widget", 10)
	f.CreateArtifactDir(f.Info.ContainersDir, "com.acme.widget.helper", 10)

	c := category(t, f, cfg, "containers")
	items, skipped := c.Detect(index("com.acme.widget"), testSizer())

	if findItem(items, "container_com.acme.widget") != nil {
		t.Error("installed app's container reported as leftover")
	}
	if s := findSkipped(skipped, "com.acme.widget"); s == nil || s.Reason != SkipOwned {
		t.Errorf("expected owned skip record, got %+v", s)
	}

	// The helper container only matches by substring, which containers do not
	// use, so it is orphaned.
	helper := findItem(items, "container_com.acme.widget.helper")
	if helper == nil {
		t.Fatal("expected helper container to be reported")
	}
	if helper.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %s, want high", helper.Confidence)
	}
	if !helper.Selected {
		t.Error("high confidence item should be pre-selected")
	}
	if helper.DetectionSource != SourceContainers {
		t.Errorf("detection source = %s", helper.DetectionSource)
	}
	if helper.BundleID != "com.acme.widget.helper" {
		t.Errorf("bundle id = %q", helper.BundleID)
	}
}

func TestContainersEmptyDirStillReported(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.ContainersDir, "com.gone.app", 0)

	c := category(t, f, cfg, "containers")
	items, skipped := c.Detect(index(), testSizer())

	// Zero-byte containers fail the strictly-greater-than-zero size check.
	if len(items) != 0 {
		t.Fatalf("expected no items for empty container, got %d", len(items))
	}
	if s := findSkipped(skipped, "com.gone.app"); s == nil || s.Reason != SkipBelowThreshold {
		t.Errorf("expected below_threshold skip, got %+v", s)
	}
}

// =============================================================================
// Group Containers
// =============================================================================

func TestGroupContainersTeamIDStrip(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.GroupContainersDir, "2BUA8C4S2C.com.agilebits", 10)
	f.CreateArtifactDir(f.Info.GroupContainersDir, "ABCDE12345.com.gone.vendor", 10)

	c := category(t, f, cfg, "group_containers")
	items, _ := c.Detect(index("com.agilebits.onepassword"), testSizer())

	// com.agilebits is a substring of the installed id after the team prefix
	// is stripped.
	if findItem(items, "group_container_2BUA8C4S2C.com.agilebits") != nil {
		t.Error("group container with installed owner reported")
	}

	gone := findItem(items, "group_container_ABCDE12345.com.gone.vendor")
	if gone == nil {
		t.Fatal("expected orphaned group container to be reported")
	}
	if gone.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %s, want high", gone.Confidence)
	}
}

// =============================================================================
// Preferences
// =============================================================================

func TestPreferencesSkipsSystemDomains(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreatePlist(f.Info.PreferencesDir, "com.apple.dock", nil)
	f.CreatePlist(f.Info.PreferencesDir, "loginwindow", nil)
	f.CreatePlist(f.Info.PreferencesDir, "com.gone.tool", nil)

	c := category(t, f, cfg, "preferences")
	items, skipped := c.Detect(index(), testSizer())

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ID != "pref_com.gone.tool" {
		t.Errorf("item id = %q", items[0].ID)
	}
	if s := findSkipped(skipped, "com.apple.dock"); s == nil || s.Reason != SkipSystemListed {
		t.Errorf("expected system_listed skip for com.apple.dock, got %+v", s)
	}
	if s := findSkipped(skipped, "loginwindow"); s == nil || s.Reason != SkipSystemListed {
		t.Errorf("expected system_listed skip for loginwindow, got %+v", s)
	}
}

func TestPreferencesClaimedByLongerInstalledID(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreatePlist(f.Info.PreferencesDir, "com.old.tool", nil)

	c := category(t, f, cfg, "preferences")
	items, skipped := c.Detect(index("com.old.tool.helper"), testSizer())

	// The preference domain is a prefix of an installed identifier, so an
	// installed app still owns it.
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
	if s := findSkipped(skipped, "com.old.tool"); s == nil || s.Reason != SkipOwned {
		t.Errorf("expected owned skip, got %+v", s)
	}
}

func TestPreferencesNotClaimedByShorterInstalledID(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreatePlist(f.Info.PreferencesDir, "com.acme.widget", nil)

	c := category(t, f, cfg, "preferences")
	items, _ := c.Detect(index("com.acme"), testSizer())

	item := findItem(items, "pref_com.acme.widget")
	if item == nil {
		t.Fatal("expected preference to be reported")
	}
	if item.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %s, want medium", item.Confidence)
	}
	if item.DetectionSource != SourcePreferences {
		t.Errorf("detection source = %s", item.DetectionSource)
	}
}

// =============================================================================
// Launch Agents
// =============================================================================

func TestLaunchAgentsNoSizeFilter(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreatePlist(f.Info.LaunchAgentDirs[0], "com.gone.agent", []byte{})
	f.CreatePlist(f.Info.LaunchAgentDirs[0], "com.apple.syncd", nil)

	c := category(t, f, cfg, "launch_agents")
	items, _ := c.Detect(index(), testSizer())

	// A zero-byte agent is still reported: launch agents have no size floor.
	item := findItem(items, "launchagent_com.gone.agent")
	if item == nil {
		t.Fatal("expected zero-byte agent to be reported")
	}
	if item.Size != 0 {
		t.Errorf("size = %d, want 0", item.Size)
	}
	if item.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %s, want high", item.Confidence)
	}
	if findItem(items, "launchagent_com.apple.syncd") != nil {
		t.Error("system agent reported as leftover")
	}
}

func TestLaunchAgentsBidirectionalMatch(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreatePlist(f.Info.LaunchAgentDirs[0], "com.vendor.app.updater", nil)

	c := category(t, f, cfg, "launch_agents")
	items, skipped := c.Detect(index("com.vendor.app"), testSizer())

	if len(items) != 0 {
		t.Fatalf("expected agent claimed by installed app, got %+v", items)
	}
	if s := findSkipped(skipped, "com.vendor.app.updater"); s == nil || s.Reason != SkipOwned {
		t.Errorf("expected owned skip, got %+v", s)
	}
}

// =============================================================================
// Application Support
// =============================================================================

func TestAppSupportTokenMatch(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.ApplicationSupportDir, "myapp", 2048)
	f.CreateArtifactDir(f.Info.ApplicationSupportDir, "GoneTool", 2048)

	c := category(t, f, cfg, "app_support")
	items, _ := c.Detect(index("com.example.myapp"), testSizer())

	if findItem(items, "appsupport_myapp") != nil {
		t.Error("folder matching an installed app token reported as leftover")
	}

	gone := findItem(items, "appsupport_GoneTool")
	if gone == nil {
		t.Fatal("expected orphaned support folder to be reported")
	}
	if gone.Name != "GoneTool" {
		t.Errorf("name = %q, want verbatim folder name", gone.Name)
	}
	if gone.BundleID != "*.GoneTool" {
		t.Errorf("bundle id = %q, want wildcard owner", gone.BundleID)
	}
	if gone.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %s, want medium", gone.Confidence)
	}
}

func TestAppSupportSizeThresholdBoundary(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.ApplicationSupportDir, "AtThreshold", 1024)
	f.CreateArtifactDir(f.Info.ApplicationSupportDir, "OverThreshold", 1025)

	c := category(t, f, cfg, "app_support")
	items, skipped := c.Detect(index(), testSizer())

	if findItem(items, "appsupport_AtThreshold") != nil {
		t.Error("folder exactly at threshold should be skipped")
	}
	if s := findSkipped(skipped, "AtThreshold"); s == nil || s.Reason != SkipBelowThreshold {
		t.Errorf("expected below_threshold skip, got %+v", s)
	}
	if findItem(items, "appsupport_OverThreshold") == nil {
		t.Error("folder one byte over threshold should be reported")
	}
}

func TestAppSupportSkipList(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	for _, name := range []string{"AddressBook", "CrashReporter", "com.apple.TCC", "AppleMediaServices"} {
		f.CreateArtifactDir(f.Info.ApplicationSupportDir, name, 4096)
	}

	c := category(t, f, cfg, "app_support")
	items, _ := c.Detect(index(), testSizer())

	if len(items) != 0 {
		t.Errorf("expected all system folders skipped, got %+v", items)
	}
}

// =============================================================================
// Caches
// =============================================================================

func TestCachesSizeThresholdBoundary(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.CachesDir, "com.gone.small", 10240)
	f.CreateArtifactDir(f.Info.CachesDir, "com.gone.big", 10241)

	c := category(t, f, cfg, "caches")
	items, skipped := c.Detect(index(), testSizer())

	if findItem(items, "cache_com.gone.small") != nil {
		t.Error("cache exactly at threshold should be skipped")
	}
	if s := findSkipped(skipped, "com.gone.small"); s == nil || s.Reason != SkipBelowThreshold {
		t.Errorf("expected below_threshold skip, got %+v", s)
	}

	big := findItem(items, "cache_com.gone.big")
	if big == nil {
		t.Fatal("expected cache over threshold to be reported")
	}
	if big.DetectionSource != SourceCaches {
		t.Errorf("detection source = %s", big.DetectionSource)
	}
}

func TestCachesSubstringMatch(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.CachesDir, "com.vendor.app.gpu", 20000)

	c := category(t, f, cfg, "caches")
	items, _ := c.Detect(index("com.vendor.app"), testSizer())

	if len(items) != 0 {
		t.Errorf("cache claimed by installed app via substring, got %+v", items)
	}
}

// =============================================================================
// Logs
// =============================================================================

func TestLogsLowConfidenceNotSelected(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	f.CreateArtifactDir(f.Info.LogsDir, "GoneTool", 2048)
	f.CreateArtifactDir(f.Info.LogsDir, "DiagnosticReports", 2048)

	c := category(t, f, cfg, "logs")
	items, _ := c.Detect(index(), testSizer())

	item := findItem(items, "logs_GoneTool")
	if item == nil {
		t.Fatal("expected orphaned log folder to be reported")
	}
	if item.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s, want low", item.Confidence)
	}
	if item.Selected {
		t.Error("low confidence item must not be pre-selected")
	}
	if item.BundleID != "*.GoneTool" {
		t.Errorf("bundle id = %q", item.BundleID)
	}
	if findItem(items, "logs_DiagnosticReports") != nil {
		t.Error("system log folder reported as leftover")
	}
}

// =============================================================================
// Shared behavior
// =============================================================================

func TestDetectMissingDirContributesNothing(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()

	c := category(t, f, cfg, "containers")
	c.Dirs = []string{f.Info.ContainersDir + "-missing"}

	items, skipped := c.Detect(index(), testSizer())
	if len(items) != 0 || len(skipped) != 0 {
		t.Errorf("expected nothing from a missing dir, got %d items %d skipped", len(items), len(skipped))
	}
}

func TestExtraSkipPrefixesFromConfig(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()
	cfg.ExtraSkip = map[string][]string{"caches": {"com.corp."}}

	f.CreateArtifactDir(f.Info.CachesDir, "com.corp.internal", 20000)

	c := category(t, f, cfg, "caches")
	items, skipped := c.Detect(index(), testSizer())

	if len(items) != 0 {
		t.Errorf("expected extra skip prefix to apply, got %+v", items)
	}
	if s := findSkipped(skipped, "com.corp.internal"); s == nil || s.Reason != SkipSystemListed {
		t.Errorf("expected system_listed skip, got %+v", s)
	}
}

func TestCategoriesDisabledByConfig(t *testing.T) {
	f := testutil.NewFixture(t)
	cfg := config.GetDefault()
	cfg.Categories.Logs = false
	cfg.Categories.Preferences = false

	names := map[string]bool{}
	for _, c := range Categories(f.Info, cfg) {
		names[c.Name] = true
	}
	if names["logs"] || names["preferences"] {
		t.Errorf("disabled categories present: %v", names)
	}
	if len(names) != 5 {
		t.Errorf("expected 5 enabled categories, got %d", len(names))
	}
}
