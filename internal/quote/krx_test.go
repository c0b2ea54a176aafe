package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const krxBody = `{
	"OutBlock_1": [
		{"TRD_DD": "2024/01/05", "TDD_CLSPRC": "77,000"},
		{"TRD_DD": "2024/01/04", "TDD_CLSPRC": "76,500"},
		{"TRD_DD": "2024/01/03", "TDD_CLSPRC": "75,900"}
	]
}`

func TestKRXSource_ParsesDaily(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = map[string]string{
			"bld":    r.PostFormValue("bld"),
			"isuCd":  r.PostFormValue("isuCd"),
			"strtDd": r.PostFormValue("strtDd"),
			"endDd":  r.PostFormValue("endDd"),
		}
		w.Write([]byte(krxBody))
	}))
	defer srv.Close()

	s := NewKRXSource(srv.URL, "")
	to := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	candles, err := s.DailyCloses(context.Background(), "005930", to.AddDate(0, 0, -7), to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotForm["isuCd"] != "005930" {
		t.Errorf("isuCd: expected 005930, got %s", gotForm["isuCd"])
	}
	if gotForm["strtDd"] != "20231229" || gotForm["endDd"] != "20240105" {
		t.Errorf("window: got %s..%s", gotForm["strtDd"], gotForm["endDd"])
	}
	if gotForm["bld"] == "" {
		t.Error("bld statement parameter missing")
	}

	if len(candles) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(candles))
	}
	// Rows arrive newest first and must come out oldest first.
	if !candles[0].Close.Equal(decimal.NewFromInt(75900)) {
		t.Errorf("first close: expected 75900, got %s", candles[0].Close)
	}
	if !candles[2].Close.Equal(decimal.NewFromInt(77000)) {
		t.Errorf("last close: expected 77000, got %s", candles[2].Close)
	}
}

func TestKRXSource_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"OutBlock_1": []}`))
	}))
	defer srv.Close()

	s := NewKRXSource(srv.URL, "")
	_, err := s.DailyCloses(context.Background(), "999999", time.Now().AddDate(0, 0, -7), time.Now())
	if err == nil {
		t.Fatal("expected error for empty result set")
	}
}

func TestKRXSource_MalformedPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"OutBlock_1": [{"TRD_DD": "2024/01/05", "TDD_CLSPRC": "-"}]}`))
	}))
	defer srv.Close()

	s := NewKRXSource(srv.URL, "")
	_, err := s.DailyCloses(context.Background(), "005930", time.Now().AddDate(0, 0, -7), time.Now())
	if err == nil {
		t.Fatal("expected error for malformed close price")
	}
}
