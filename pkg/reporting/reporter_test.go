package reporting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One ReportRun call fans out to every requested format.
func TestReporter_ReportRun_WritesExports(t *testing.T) {
	dir := t.TempDir()
	snap := Snapshot{
		Recommendation: sampleRecommendation(),
		Positions:      samplePositions(),
		Balances:       sampleBalances(),
	}
	opts := Options{
		JSON:     true,
		XLSXPath: filepath.Join(dir, "run.xlsx"),
		CSVPath:  filepath.Join(dir, "run.csv"),
	}

	require.NoError(t, NewReporter().ReportRun(snap, opts))

	for _, path := range []string{opts.XLSXPath, opts.CSVPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
