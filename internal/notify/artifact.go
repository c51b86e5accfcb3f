package notify

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteArtifact writes text to a timestamp-qualified file under dir and
// returns its path. Artifacts exist solely to serve as attachment payloads;
// their lifetime must not outlive the notify call that needed them.
func WriteArtifact(dir, prefix, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", prefix, Timestamp()))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// RemoveArtifacts deletes artifact files, ignoring paths that are already
// gone. Called unconditionally after a notify attempt, success or failure.
func RemoveArtifacts(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		_ = os.Remove(path)
	}
}
