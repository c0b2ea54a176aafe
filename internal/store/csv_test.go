package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
)

func testHoldings() []model.Holding {
	return []model.Holding{
		{
			Ticker:   "005930",
			Name:     "Samsung Electronics",
			Market:   model.MarketKR,
			Shares:   decimal.NewFromInt(10),
			AvgPrice: decimal.NewFromInt(70000),
			Currency: model.CurrencyKRW,
		},
		{
			Ticker:   "AAPL",
			Name:     "Apple",
			Market:   model.MarketUS,
			Shares:   decimal.NewFromFloat(5.5),
			AvgPrice: decimal.NewFromFloat(150.25),
			Currency: model.CurrencyUSD,
		},
	}
}

func TestCSVStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	s, err := NewCSVStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.Save(testHoldings()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(loaded))
	}

	if loaded[0].Ticker != "005930" || loaded[0].Market != model.MarketKR {
		t.Errorf("first holding identity wrong: %+v", loaded[0])
	}
	// Numeric KR codes must survive as strings, leading zero intact.
	if strings.HasPrefix(loaded[0].Ticker, "5930") {
		t.Error("KR ticker lost its leading zero")
	}
	if !loaded[1].Shares.Equal(decimal.NewFromFloat(5.5)) {
		t.Errorf("shares: expected 5.5, got %s", loaded[1].Shares)
	}
	if !loaded[1].AvgPrice.Equal(decimal.NewFromFloat(150.25)) {
		t.Errorf("avg price: expected 150.25, got %s", loaded[1].AvgPrice)
	}
	if loaded[1].Currency != model.CurrencyUSD {
		t.Errorf("currency: expected USD, got %s", loaded[1].Currency)
	}
}

func TestCSVStore_MissingFileIsEmptyPortfolio(t *testing.T) {
	s, err := NewCSVStore(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty portfolio, got %d holdings", len(loaded))
	}
}

func TestCSVStore_SaveEmptyKeepsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	s, _ := NewCSVStore(path)

	if err := s.Save(testHoldings()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.HasPrefix(string(data), "ticker,name,market,shares,avg_price,currency") {
		t.Errorf("header missing after empty save: %q", string(data))
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty portfolio, got %d", len(loaded))
	}
}

func TestCSVStore_CorruptRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	content := "ticker,name,market,shares,avg_price,currency\nAAPL,Apple,US,notanumber,150,USD\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, _ := NewCSVStore(path)
	if _, err := s.Load(); err == nil {
		t.Fatal("expected error for corrupt shares column")
	}
}

func TestCSVStore_UnknownMarket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	content := "ticker,name,market,shares,avg_price,currency\nAAPL,Apple,JP,1,150,USD\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, _ := NewCSVStore(path)
	if _, err := s.Load(); err == nil {
		t.Fatal("expected error for unknown market")
	}
}
