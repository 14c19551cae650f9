package appindex

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	bundleIDKey     = "CFBundleIdentifier"
	defaultsTimeout = 5 * time.Second
)

// readBundleID extracts the bundle identifier from an application's
// Info.plist. It prefers the `defaults` tool, which handles both XML and
// binary plists; when that fails (tool missing, timeout, unreadable manifest)
// it falls back to a textual scan of the file. An empty string means the
// identifier could not be determined.
func (b *Builder) readBundleID(plistPath string) string {
	ctx, cancel := context.WithTimeout(context.Background(), defaultsTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, b.DefaultsTool, "read", plistPath, bundleIDKey).Output()
	if err == nil {
		if id := strings.TrimSpace(string(out)); id != "" {
			return id
		}
	}

	return parsePlistIdentifier(plistPath)
}

// parsePlistIdentifier scans an XML plist for the CFBundleIdentifier value.
// Binary plists do not match and yield "".
func parsePlistIdentifier(plistPath string) string {
	data, err := os.ReadFile(plistPath)
	if err != nil {
		return ""
	}

	text := string(data)
	keyIdx := strings.Index(text, "<key>"+bundleIDKey+"</key>")
	if keyIdx < 0 {
		return ""
	}

	rest := text[keyIdx:]
	open := strings.Index(rest, "<string>")
	if open < 0 {
		return ""
	}
	rest = rest[open+len("<string>"):]

	closing := strings.Index(rest, "</string>")
	if closing < 0 {
		return ""
	}

	return strings.TrimSpace(rest[:closing])
}
