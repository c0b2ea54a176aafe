package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
)

const krxDateLayout = "2006/01/02"

// KRXSource fetches Korean daily closes from the KRX market data endpoint.
type KRXSource struct {
	BaseURL string
	Client  *http.Client
}

// NewKRXSource creates a KRX source with optional proxy support.
func NewKRXSource(baseURL, proxyURL string) *KRXSource {
	if baseURL == "" {
		baseURL = "http://data.krx.co.kr"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &KRXSource{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *KRXSource) Name() string { return "krx" }

// krxDaily is the row shape of the KRX daily OHLCV statement. Prices are
// comma-grouped strings ("70,000") and dates are "2006/01/02".
type krxDaily struct {
	OutBlock []struct {
		TradeDate string `json:"TRD_DD"`
		Close     string `json:"TDD_CLSPRC"`
	} `json:"OutBlock_1"`
}

func (s *KRXSource) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error) {
	form := url.Values{}
	form.Set("bld", "dbms/MDC/STAT/standard/MDCSTAT01701")
	form.Set("isuCd", ticker)
	form.Set("strtDd", from.Format("20060102"))
	form.Set("endDd", to.Format("20060102"))

	endpoint := s.BaseURL + "/comm/bldAttendant/getJsonData.cmd"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", s.BaseURL+"/mdi/main/index.cmd")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("krx fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("krx read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("krx: status %d, body: %s", resp.StatusCode, string(body))
	}

	var daily krxDaily
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, fmt.Errorf("krx decode: %w", err)
	}
	if len(daily.OutBlock) == 0 {
		return nil, fmt.Errorf("krx: no data returned")
	}

	candles := make([]model.Candle, 0, len(daily.OutBlock))
	for _, row := range daily.OutBlock {
		date, err := time.Parse(krxDateLayout, row.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("krx parse date %q: %w", row.TradeDate, err)
		}
		px, err := decimal.NewFromString(strings.ReplaceAll(row.Close, ",", ""))
		if err != nil {
			return nil, fmt.Errorf("krx parse close %q: %w", row.Close, err)
		}
		candles = append(candles, model.Candle{Date: date, Close: px})
	}
	// KRX returns rows newest first.
	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })
	return candles, nil
}
