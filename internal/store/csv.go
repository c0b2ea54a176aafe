// Package store persists the holdings set as a flat CSV file.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
)

// HoldingStore reads and rewrites the holdings set wholesale. I/O errors are
// never masked: holding data must not be silently lost.
type HoldingStore interface {
	Load() ([]model.Holding, error)
	Save(holdings []model.Holding) error
}

var header = []string{"ticker", "name", "market", "shares", "avg_price", "currency"}

// CSVStore is a HoldingStore backed by a single CSV file. Every Save rewrites
// the whole file atomically (temp file + rename).
type CSVStore struct {
	path string
}

// NewCSVStore creates the store and its parent directory.
func NewCSVStore(path string) (*CSVStore, error) {
	if path == "" {
		return nil, errors.New("holdings csv path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &CSVStore{path: path}, nil
}

// Load reads all holdings. A missing file is an empty portfolio, not an error.
func (s *CSVStore) Load() ([]model.Holding, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open holdings csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read holdings csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	holdings := make([]model.Holding, 0, len(rows)-1)
	for i, row := range rows[1:] {
		h, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("holdings csv row %d: %w", i+2, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func parseRow(row []string) (model.Holding, error) {
	if len(row) < 6 {
		return model.Holding{}, fmt.Errorf("expected 6 columns, got %d", len(row))
	}
	shares, err := decimal.NewFromString(row[3])
	if err != nil {
		return model.Holding{}, fmt.Errorf("parse shares %q: %w", row[3], err)
	}
	avgPrice, err := decimal.NewFromString(row[4])
	if err != nil {
		return model.Holding{}, fmt.Errorf("parse avg_price %q: %w", row[4], err)
	}
	market := model.Market(row[2])
	if !market.Valid() {
		return model.Holding{}, fmt.Errorf("unknown market %q", row[2])
	}
	return model.Holding{
		Ticker:   row[0],
		Name:     row[1],
		Market:   market,
		Shares:   shares,
		AvgPrice: avgPrice,
		Currency: model.Currency(row[5]),
	}, nil
}

// Save rewrites the whole file with the given holdings.
func (s *CSVStore) Save(holdings []model.Holding) error {
	rows := make([][]string, 0, len(holdings)+1)
	rows = append(rows, header)
	for _, h := range holdings {
		rows = append(rows, []string{
			h.Ticker,
			h.Name,
			string(h.Market),
			h.Shares.String(),
			h.AvgPrice.String(),
			string(h.Currency),
		})
	}
	return atomicWriteCSV(s.path, rows)
}

func atomicWriteCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*.csv")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
