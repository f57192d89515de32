package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/g33150641-hub/matziprank/models"
)

// utf8BOM is prepended so spreadsheet tools detect Hangul content correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{
	"name", "category", "visitor_reviews", "blog_reviews",
	"address", "hours", "parking", "menus", "tags", "lat", "lon",
}

// ErrNoCollection signals that no collection run has produced a file yet.
var ErrNoCollection = errors.New("csv: no collection file")

// CSVStore persists one collection run's records to a single flat file.
// Each write fully replaces the previous file contents.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store for the given path. Intermediate directories
// are created automatically.
func NewCSVStore(path string) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVStore{path: path}, nil
}

// Write overwrites the file with the given records.
func (s *CSVStore) Write(records []*models.ListingRecord) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("csv: write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range records {
		var lat, lon string
		if r.HasCoords {
			lat = strconv.FormatFloat(r.Lat, 'f', -1, 64)
			lon = strconv.FormatFloat(r.Lon, 'f', -1, 64)
		}
		row := []string{
			r.Name,
			r.Category,
			strconv.Itoa(r.VisitorReviews),
			strconv.Itoa(r.BlogReviews),
			r.Address,
			r.Hours,
			string(r.Parking),
			r.Menus,
			strings.Join(r.Tags, models.TagDelimiter),
			lat,
			lon,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// Read loads the persisted records back. A missing file returns
// ErrNoCollection; any other read or parse problem is surfaced as-is.
func (s *CSVStore) Read() ([]*models.ListingRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoCollection
		}
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %q: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// First header cell may carry the BOM.
	rows[0][0] = strings.TrimPrefix(rows[0][0], string(utf8BOM))
	if len(rows[0]) != len(header) {
		return nil, fmt.Errorf("csv: unexpected column count %d in %q", len(rows[0]), s.path)
	}

	records := make([]*models.ListingRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("csv: short row in %q", s.path)
		}
		rec := &models.ListingRecord{
			Name:           row[0],
			Category:       row[1],
			VisitorReviews: parseCount(row[2]),
			BlogReviews:    parseCount(row[3]),
			Address:        row[4],
			Hours:          row[5],
			Parking:        models.Parking(row[6]),
			Menus:          row[7],
		}
		if row[8] != "" {
			rec.Tags = strings.Split(row[8], models.TagDelimiter)
		}
		if row[9] != "" && row[10] != "" {
			lat, errLat := strconv.ParseFloat(row[9], 64)
			lon, errLon := strconv.ParseFloat(row[10], 64)
			if errLat == nil && errLon == nil {
				rec.Lat, rec.Lon, rec.HasCoords = lat, lon, true
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
