// Package reporter renders scan results for the CLI in table, JSON, YAML and
// summary formats.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// ColorEnabled reports whether colored output should be used: the config
// must allow it, NO_COLOR must be unset and stdout must be a terminal.
func ColorEnabled(configColor bool) bool {
	if !configColor {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Report generates a report from scan results
func (r *Reporter) Report(result *leftover.Result) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(result)
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	case FormatSummary:
		return r.reportSummary(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a per-category summary report
func (r *Reporter) reportSummary(result *leftover.Result) error {
	bold := color.New(color.Bold)

	bold.Fprintf(r.writer, "=== Leftover Summary ===\n")
	fmt.Fprintf(r.writer, "Installed Apps: %d\n", result.InstalledApps)
	fmt.Fprintf(r.writer, "Leftover Items: %d\n", result.TotalCount)
	fmt.Fprintf(r.writer, "Reclaimable: %s\n", humanize.IBytes(uint64(result.TotalSize)))
	fmt.Fprintf(r.writer, "\nBreakdown by Category:\n")

	counts := map[string]int{}
	sizes := map[string]int64{}
	var order []string
	for _, item := range result.Items {
		if _, seen := counts[item.Category]; !seen {
			order = append(order, item.Category)
		}
		counts[item.Category]++
		sizes[item.Category] += item.Size
	}
	for _, category := range order {
		fmt.Fprintf(r.writer, "  %s: %d items, %s\n",
			category, counts[category], utils.FormatBytes(sizes[category]))
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(r.writer, "\nExamined but skipped: %d\n", len(result.Skipped))
	}

	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(result *leftover.Result) error {
	confidenceColors := map[leftover.Confidence]*color.Color{
		leftover.ConfidenceHigh:   color.New(color.FgGreen),
		leftover.ConfidenceMedium: color.New(color.FgYellow),
		leftover.ConfidenceLow:    color.New(color.FgHiBlack),
	}

	fmt.Fprintf(r.writer, "%-28s | %-16s | %-6s | %-10s | %s\n",
		"Name", "Category", "Conf", "Size", "Path")
	fmt.Fprintln(r.writer, repeat('-', 110))

	for _, item := range result.Items {
		name := item.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		path := item.Path
		if len(path) > 60 {
			path = "..." + path[len(path)-57:]
		}

		conf := string(item.Confidence)
		if c, ok := confidenceColors[item.Confidence]; ok {
			conf = c.Sprint(conf)
		}

		fmt.Fprintf(r.writer, "%-28s | %-16s | %-6s | %-10s | %s\n",
			name,
			item.Category,
			conf,
			utils.FormatBytes(item.Size),
			path)
	}

	fmt.Fprintln(r.writer, repeat('-', 110))
	fmt.Fprintf(r.writer, "Total: %d items, %s reclaimable\n",
		result.TotalCount, humanize.IBytes(uint64(result.TotalSize)))

	return nil
}

type report struct {
	Timestamp          string          `json:"timestamp" yaml:"timestamp"`
	InstalledApps      int             `json:"installed_apps" yaml:"installed_apps"`
	TotalCount         int             `json:"total_count" yaml:"total_count"`
	TotalSize          int64           `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string          `json:"total_size_formatted" yaml:"total_size_formatted"`
	Leftovers          []leftover.Item `json:"leftovers" yaml:"leftovers"`
}

func newReport(result *leftover.Result) report {
	items := result.Items
	if items == nil {
		items = []leftover.Item{}
	}
	return report{
		Timestamp:          time.Now().Format(time.RFC3339),
		InstalledApps:      result.InstalledApps,
		TotalCount:         result.TotalCount,
		TotalSize:          result.TotalSize,
		TotalSizeFormatted: utils.FormatBytes(result.TotalSize),
		Leftovers:          items,
	}
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(result *leftover.Result) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newReport(result))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(result *leftover.Result) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(newReport(result))
}

// SaveToFile saves the report to a file
func SaveToFile(result *leftover.Result, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.Report(result)
}

func repeat(c byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
