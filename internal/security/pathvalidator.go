// Package security validates filesystem paths before destructive operations.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator is the single source of truth for whether a path may be
// removed.
type PathValidator struct {
	protectedPaths []string
}

// NewPathValidator creates a PathValidator with the default protected paths.
func NewPathValidator() *PathValidator {
	return &PathValidator{
		protectedPaths: []string{
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/proc",
			"/root",
			"/sbin",
			"/sys",
			"/usr",
			"/var",
			"/System",
			"/Applications",
			"/Library/System",
			"/private",
		},
	}
}

// ValidatePathForRemoval performs the full validation a path must pass before
// it is deleted.
func (pv *PathValidator) ValidatePathForRemoval(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	// Reject traversal before resolving anything.
	if filepath.Clean(path) != path {
		return fmt.Errorf("path contains suspicious elements: %s", path)
	}

	// Resolve symlinks so a link inside Library cannot redirect the removal
	// at a system location.
	resolvedPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			resolvedPath = path
		} else {
			return fmt.Errorf("failed to resolve symlinks: %w", err)
		}
	}

	return pv.checkProtectedPaths(filepath.Clean(resolvedPath))
}

// checkProtectedPaths rejects protected paths and their direct children.
func (pv *PathValidator) checkProtectedPaths(cleanPath string) error {
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected {
			return fmt.Errorf("refusing to remove protected path: %s", cleanPath)
		}

		if strings.HasPrefix(cleanPath, protected+"/") {
			rel, _ := filepath.Rel(protected, cleanPath)
			if !strings.Contains(rel, "/") {
				return fmt.Errorf("refusing to remove critical system path: %s", cleanPath)
			}
		}
	}

	return nil
}

// IsProtectedPath checks if a path sits in a protected system location.
func (pv *PathValidator) IsProtectedPath(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected || strings.HasPrefix(cleanPath, protected+"/") {
			return true
		}
	}
	return false
}

// AddProtectedPath adds a custom protected path.
func (pv *PathValidator) AddProtectedPath(path string) {
	pv.protectedPaths = append(pv.protectedPaths, filepath.Clean(path))
}
