package market

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// Per-asset history files are named <ASSET>_history.csv with columns
// timestamp, datetime, asset, funding_rate, mark_price. The datetime column
// is a human-readable convenience derived from timestamp and is ignored on
// read.
const historySuffix = "_history.csv"

// HistoryPath returns the conventional history file path for an asset.
func HistoryPath(dir, asset string) string {
	return filepath.Join(dir, asset+historySuffix)
}

// DiscoverAssets lists the assets that have a history file in dir, in
// lexical order.
func DiscoverAssets(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+historySuffix))
	if err != nil {
		return nil, err
	}
	assets := make([]string, 0, len(matches))
	for _, m := range matches {
		assets = append(assets, strings.TrimSuffix(filepath.Base(m), historySuffix))
	}
	sort.Strings(assets)
	return assets, nil
}

// WritePoints writes points as history CSV, header included. Values are
// formatted to round-trip exactly through ReadPoints.
func WritePoints(w io.Writer, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "datetime", "asset", "funding_rate", "mark_price"}); err != nil {
		return err
	}
	for _, p := range points {
		dt := time.UnixMilli(p.Timestamp).UTC().Format(time.RFC3339)
		row := []string{
			strconv.FormatInt(p.Timestamp, 10),
			dt,
			p.Asset,
			strconv.FormatFloat(p.FundingRate, 'g', -1, 64),
			strconv.FormatFloat(p.MarkPrice, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPoints parses history CSV. The header row is optional. Rows with a
// non-positive mark price are rejected so bad prices never reach the
// engine.
func ReadPoints(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var points []Point
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "timestamp") {
				continue
			}
		}
		p, err := parseHistoryRow(row)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
}

func parseHistoryRow(row []string) (Point, error) {
	if len(row) < 5 {
		return Point{}, fmt.Errorf("bad history row (need timestamp,datetime,asset,funding_rate,mark_price): %v", row)
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad timestamp %q: %w", row[0], err)
	}
	asset := strings.TrimSpace(row[2])
	if asset == "" {
		return Point{}, fmt.Errorf("missing asset in row for timestamp %d", ts)
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad funding_rate %q: %w", row[3], err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad mark_price %q: %w", row[4], err)
	}
	if price <= 0 {
		return Point{}, fmt.Errorf("%s at %d: mark price must be positive, got %g", asset, ts, price)
	}

	return Point{Timestamp: ts, Asset: asset, FundingRate: rate, MarkPrice: price}, nil
}

// SaveDir writes one history file per asset into dir, creating it if
// needed.
func SaveDir(dir string, history map[string][]Point) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	assets := make([]string, 0, len(history))
	for asset := range history {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	for _, asset := range assets {
		if err := writeHistoryFile(HistoryPath(dir, asset), history[asset]); err != nil {
			return err
		}
	}
	return nil
}

func writeHistoryFile(path string, points []Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePoints(f, points); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// LoadDir reads history files for the requested assets from dir. Assets
// without a file are skipped, not errors; callers compare the returned keys
// against the request to report gaps.
func LoadDir(dir string, assets []string) (map[string][]Point, error) {
	history := make(map[string][]Point)
	for _, asset := range assets {
		path := HistoryPath(dir, asset)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		points, err := ReadPoints(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		history[asset] = points
	}
	return history, nil
}

// ImportFile copies one history file into dir under its conventional name,
// decompressing .gz and .xz sources on the way and validating every row.
// The asset symbol comes from the source filename, which must follow the
// <ASSET>_history.csv[.gz|.xz] pattern.
func ImportFile(src, dir string) (asset string, n int, err error) {
	asset, err = assetFromFilename(src)
	if err != nil {
		return "", 0, err
	}

	rc, err := openHistoryFile(src)
	if err != nil {
		return "", 0, err
	}
	defer rc.Close()

	points, err := ReadPoints(rc)
	if err != nil {
		return "", 0, fmt.Errorf("import %s: %w", src, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}
	if err := writeHistoryFile(HistoryPath(dir, asset), points); err != nil {
		return "", 0, err
	}
	return asset, len(points), nil
}

func assetFromFilename(path string) (string, error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".xz")
	base = strings.TrimSuffix(base, ".gz")
	if !strings.HasSuffix(base, historySuffix) {
		return "", fmt.Errorf("cannot infer asset from %q (want <ASSET>%s[.gz|.xz])", path, historySuffix)
	}
	return strings.TrimSuffix(base, historySuffix), nil
}

// openHistoryFile opens path for reading, transparently decompressing
// gzip and xz files by extension.
func openHistoryFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".xz"):
		r, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open xz %s: %w", path, err)
		}
		return readCloser{r, f}, nil
	case strings.HasSuffix(path, ".gz"):
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		return readCloser{r, f}, nil
	default:
		return f, nil
	}
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r readCloser) Close() error { return r.closer.Close() }
