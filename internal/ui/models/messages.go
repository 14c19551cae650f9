package models

import (
	"github.com/appsweep/appsweep/internal/cleaner"
	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/progress"
)

// ScanCompleteMsg is emitted when the background scan finishes.
type ScanCompleteMsg struct {
	Result *leftover.Result
}

// ScanProgressMsg carries a live progress snapshot during scanning.
type ScanProgressMsg struct {
	Progress *progress.ScanProgress
}

// ItemsConfirmedMsg is emitted when the user confirms the reviewed selection.
type ItemsConfirmedMsg struct {
	Items []leftover.Item
}

// CleanCompleteMsg is emitted when the cleaner finishes.
type CleanCompleteMsg struct {
	Result *cleaner.CleanResult
}
