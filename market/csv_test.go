package market

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func samplePoints(asset string) []Point {
	return []Point{
		{Timestamp: 1700000000000, Asset: asset, FundingRate: 0.0000125, MarkPrice: 50000},
		{Timestamp: 1700028800000, Asset: asset, FundingRate: -0.0003, MarkPrice: 49875.5},
	}
}

func TestWriteReadPointsRoundTrip(t *testing.T) {
	t.Parallel()

	want := samplePoints("BTC")

	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, want))

	got, err := ReadPoints(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadPointsHeaderOptional(t *testing.T) {
	t.Parallel()

	raw := "1700000000000,2023-11-14T22:13:20Z,ETH,0.0002,3000\n"
	got, err := ReadPoints(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ETH", got[0].Asset)
	assert.Equal(t, 0.0002, got[0].FundingRate)
	assert.Equal(t, 3000.0, got[0].MarkPrice)
}

func TestReadPointsRejectsBadRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "zero_price", raw: "1700000000000,x,BTC,0.0002,0\n"},
		{name: "negative_price", raw: "1700000000000,x,BTC,0.0002,-5\n"},
		{name: "bad_timestamp", raw: "nope,x,BTC,0.0002,50000\n"},
		{name: "bad_rate", raw: "1700000000000,x,BTC,abc,50000\n"},
		{name: "missing_asset", raw: "1700000000000,x,,0.0002,50000\n"},
		{name: "short_row", raw: "1700000000000,BTC\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadPoints(strings.NewReader(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestSaveLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	history := map[string][]Point{
		"BTC": samplePoints("BTC"),
		"ETH": samplePoints("ETH"),
	}
	require.NoError(t, SaveDir(dir, history))

	// Request one asset that has no file; it is skipped, not an error.
	got, err := LoadDir(dir, []string{"BTC", "ETH", "HYPE"})
	require.NoError(t, err)
	assert.Equal(t, history, got)
	assert.NotContains(t, got, "HYPE")
}

func TestDiscoverAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, SaveDir(dir, map[string][]Point{
		"SOL": samplePoints("SOL"),
		"BTC": samplePoints("BTC"),
	}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	assets, err := DiscoverAssets(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "SOL"}, assets)
}

func TestImportFilePlain(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, SaveDir(src, map[string][]Point{"BTC": samplePoints("BTC")}))

	asset, n, err := ImportFile(filepath.Join(src, "BTC_history.csv"), dst)
	require.NoError(t, err)
	assert.Equal(t, "BTC", asset)
	assert.Equal(t, 2, n)

	got, err := LoadDir(dst, []string{"BTC"})
	require.NoError(t, err)
	assert.Equal(t, samplePoints("BTC"), got["BTC"])
}

func TestImportFileGzip(t *testing.T) {
	t.Parallel()

	var raw bytes.Buffer
	require.NoError(t, WritePoints(&raw, samplePoints("ETH")))

	srcDir := t.TempDir()
	path := filepath.Join(srcDir, "ETH_history.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dst := t.TempDir()
	asset, n, err := ImportFile(path, dst)
	require.NoError(t, err)
	assert.Equal(t, "ETH", asset)
	assert.Equal(t, 2, n)
}

func TestImportFileXZ(t *testing.T) {
	t.Parallel()

	var raw bytes.Buffer
	require.NoError(t, WritePoints(&raw, samplePoints("SOL")))

	srcDir := t.TempDir()
	path := filepath.Join(srcDir, "SOL_history.csv.xz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dst := t.TempDir()
	asset, n, err := ImportFile(path, dst)
	require.NoError(t, err)
	assert.Equal(t, "SOL", asset)
	assert.Equal(t, 2, n)
}

func TestImportFileBadName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "funding.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, _, err := ImportFile(path, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot infer asset")
}
