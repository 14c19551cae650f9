// Package leftover detects on-disk remnants of applications that are no
// longer installed. Seven category detectors compare artifacts in the user's
// Library against an index of installed-application identifiers; anything no
// installed app claims is reported as a leftover candidate.
package leftover

// Confidence grades how likely an unmatched artifact is a true leftover.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// PreSelect reports whether items of this confidence default to selected for
// cleaning. Low-confidence findings require an explicit opt-in.
func (c Confidence) PreSelect() bool {
	return c != ConfidenceLow
}

// Source identifies which detector produced an item.
type Source string

const (
	SourceContainers      Source = "container_scan"
	SourceGroupContainers Source = "group_container_scan"
	SourcePreferences     Source = "preferences_scan"
	SourceAppSupport      Source = "app_support_scan"
	SourceLaunchAgents    Source = "launch_agent_scan"
	SourceCaches          Source = "cache_scan"
	SourceLogs            Source = "logs_scan"
)

// Item is a single leftover finding. The JSON shape is the API wire format.
type Item struct {
	ID              string     `json:"id"`
	Path            string     `json:"path"`
	Name            string     `json:"name"`
	BundleID        string     `json:"bundle_id"`
	DetectionSource Source     `json:"detection_source"`
	Category        string     `json:"category"`
	Confidence      Confidence `json:"confidence"`
	Hint            string     `json:"hint"`
	Size            int64      `json:"size"`
	SizeHuman       string     `json:"size_human"`
	Selected        bool       `json:"selected"`
}

// SkipReason records why a detector passed over an artifact.
type SkipReason string

const (
	SkipSystemListed   SkipReason = "system_listed"
	SkipOwned          SkipReason = "owned"
	SkipBelowThreshold SkipReason = "below_threshold"
	SkipUnreadable     SkipReason = "unreadable"
)

// Skipped is an artifact a detector examined but did not report.
type Skipped struct {
	Path   string     `json:"path"`
	Name   string     `json:"name"`
	Reason SkipReason `json:"reason"`
}
