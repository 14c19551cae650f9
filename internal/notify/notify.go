// Package notify announces completed background scans via a webhook and the
// macOS notification center.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"time"

	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/pkg/utils"
)

const webhookTimeout = 30 * time.Second

// Notifier sends scan-completion notifications on the configured channels.
// A Notifier with no channels configured is valid and does nothing.
type Notifier struct {
	cfg config.NotifyConfig

	// Client may be replaced in tests.
	Client *http.Client
}

// New creates a Notifier from the config section.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		Client: &http.Client{Timeout: webhookTimeout},
	}
}

// ScanComplete announces a finished scan. Channel failures are logged, not
// returned; notifications must never fail a scan.
func (n *Notifier) ScanComplete(result *leftover.Result) {
	title := "AppSweep scan complete"
	message := fmt.Sprintf("%d leftover items, %s reclaimable",
		result.TotalCount, utils.FormatBytes(result.TotalSize))

	if n.cfg.Webhook != "" {
		if err := n.sendWebhook(title, message, result); err != nil {
			log.Printf("webhook notification failed: %v", err)
		}
	}
	if n.cfg.Desktop {
		if err := sendDesktop(title, message); err != nil {
			log.Printf("desktop notification failed: %v", err)
		}
	}
}

func (n *Notifier) sendWebhook(title, message string, result *leftover.Result) error {
	payload := map[string]interface{}{
		"title":     title,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
		"data": map[string]interface{}{
			"total_count":    result.TotalCount,
			"total_size":     result.TotalSize,
			"installed_apps": result.InstalledApps,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.cfg.Webhook, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// sendDesktop posts to the macOS notification center via osascript.
func sendDesktop(title, message string) error {
	script := fmt.Sprintf("display notification %q with title %q", message, title)
	return exec.Command("osascript", "-e", script).Run()
}
