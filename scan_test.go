package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScanMeanField(t *testing.T) {
	sc := ScanConfig{Start: 0.5, Step: 0.3, Steps: 2}
	points, err := RunScan("sto-3g", DefaultSCFConfig(), sc)
	require.NoError(t, err)
	require.Len(t, points, 3)
	for _, pt := range points {
		assert.False(t, math.IsNaN(pt.EHF))
		assert.Less(t, pt.EHF, 0.0)
		assert.Zero(t, pt.EMP2, "mean-field scan leaves the MP2 column empty")
	}
	assert.InDelta(t, 0.5, points[0].Dist, 1e-12)
	assert.InDelta(t, 1.1, points[2].Dist, 1e-12)
}

func TestRunScanWithMP2(t *testing.T) {
	sc := ScanConfig{Start: 0.6, Step: 0.2, Steps: 1, WithMP2: true}
	points, err := RunScan("6-31g", DefaultSCFConfig(), sc)
	require.NoError(t, err)
	require.Len(t, points, 2)
	for _, pt := range points {
		assert.Less(t, pt.EMP2, pt.EHF, "corrected energy lies below the reference")
	}
}

func TestRunScanBadRange(t *testing.T) {
	_, err := RunScan("sto-3g", DefaultSCFConfig(), ScanConfig{Start: -1, Step: 0.1, Steps: 2})
	require.Error(t, err)
	_, err = RunScan("sto-3g", DefaultSCFConfig(), ScanConfig{Start: 0.5, Step: 0, Steps: 2})
	require.Error(t, err)
}

func TestPlotScan(t *testing.T) {
	points := []ScanPoint{
		{Dist: 0.5, EHF: -1.04, EMP2: -1.06},
		{Dist: 0.7, EHF: -1.12, EMP2: -1.14},
		{Dist: 0.9, EHF: -1.10, EMP2: -1.13},
	}
	fname := filepath.Join(t.TempDir(), "pes.png")
	require.NoError(t, PlotScan(points, true, fname))
	info, err := os.Stat(fname)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
