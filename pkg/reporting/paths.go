package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultReportPath builds a timestamped path under the reports
// directory, e.g. "reports/advisor_20260822_150405.xlsx".
func DefaultReportPath(prefix, ext string, now time.Time) string {
	return filepath.Join("reports", fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), ext))
}

// ensureParentDir creates the directory containing path when missing.
func ensureParentDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
