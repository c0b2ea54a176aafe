package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
	"PortfolioTracker/internal/tracker"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// holdingView is a raw holding rendered for display.
type holdingView struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Market   string `json:"market"`
	Shares   string `json:"shares"`
	AvgPrice string `json:"avg_price"`
	Currency string `json:"currency"`
}

func toHoldingView(h model.Holding) holdingView {
	return holdingView{
		Ticker:   h.Ticker,
		Name:     h.Name,
		Market:   string(h.Market),
		Shares:   h.Shares.String(),
		AvgPrice: h.AvgPrice.StringFixed(2),
		Currency: string(h.Currency),
	}
}

func (s *Server) listHoldings(c echo.Context) error {
	holdings := s.tracker.Holdings()
	views := make([]holdingView, 0, len(holdings))
	for _, h := range holdings {
		views = append(views, toHoldingView(h))
	}
	return c.JSON(http.StatusOK, map[string]any{"holdings": views})
}

// addHoldingRequest accepts shares and avg_price as JSON numbers or strings.
type addHoldingRequest struct {
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Market   string          `json:"market"`
	Shares   decimal.Decimal `json:"shares"`
	AvgPrice decimal.Decimal `json:"avg_price"`
}

func (s *Server) addHolding(c echo.Context) error {
	var req addHoldingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}

	h, err := s.tracker.Add(tracker.HoldingInput{
		Ticker:   req.Ticker,
		Name:     req.Name,
		Market:   model.Market(req.Market),
		Shares:   req.Shares,
		AvgPrice: req.AvgPrice,
	})

	var invalidErr *tracker.InvalidInputError
	var dupErr *tracker.DuplicateError
	switch {
	case errors.As(err, &invalidErr):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: invalidErr.Error()})
	case errors.As(err, &dupErr):
		return c.JSON(http.StatusConflict, errorResponse{Error: dupErr.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save holding"})
	}
	return c.JSON(http.StatusCreated, toHoldingView(h))
}

func (s *Server) deleteHolding(c echo.Context) error {
	name := c.Param("name")
	err := s.tracker.Remove(name)
	switch {
	case errors.Is(err, tracker.ErrHoldingNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no holding named " + name})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save holdings"})
	}
	return c.NoContent(http.StatusNoContent)
}

// evaluatedView renders one evaluated holding with display rounding.
type evaluatedView struct {
	holdingView
	CurrentPrice string `json:"current_price"`
	CostBasis    string `json:"cost_basis"`
	MarketValue  string `json:"market_value"`
	ProfitLoss   string `json:"profit_loss"`
	ReturnPct    string `json:"return_pct"`
}

type segmentView struct {
	Market      string `json:"market"`
	Count       int    `json:"count"`
	CostBasis   string `json:"cost_basis"`
	MarketValue string `json:"market_value"`
	ProfitLoss  string `json:"profit_loss"`
	ReturnPct   string `json:"return_pct"`
}

type portfolioResponse struct {
	Holdings         []evaluatedView `json:"holdings"`
	Segments         []segmentView   `json:"segments"`
	AverageReturnPct string          `json:"average_return_pct"`
	Unpriced         []string        `json:"unpriced,omitempty"`
	FetchedAt        string          `json:"fetched_at"`
}

func (s *Server) portfolio(c echo.Context) error {
	snap, err := s.tracker.Refresh(c.Request().Context())
	switch {
	case errors.Is(err, tracker.ErrNoHoldings):
		return c.JSON(http.StatusOK, portfolioResponse{
			Holdings: []evaluatedView{},
			Segments: []segmentView{},
		})
	case errors.Is(err, tracker.ErrNoValidPrices):
		return c.JSON(http.StatusBadGateway, errorResponse{
			Error: "no prices could be fetched; check the tickers",
		})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "refresh failed"})
	}

	resp := portfolioResponse{
		Holdings:         make([]evaluatedView, 0, len(snap.Holdings)),
		Segments:         make([]segmentView, 0, len(snap.Segments)),
		AverageReturnPct: snap.AverageReturnPct.StringFixed(2),
		Unpriced:         snap.Unpriced,
		FetchedAt:        snap.FetchedAt.Format("2006-01-02 15:04:05"),
	}
	for _, h := range snap.Holdings {
		resp.Holdings = append(resp.Holdings, evaluatedView{
			holdingView:  toHoldingView(h.Holding),
			CurrentPrice: h.CurrentPrice.StringFixed(2),
			CostBasis:    h.CostBasis.StringFixed(2),
			MarketValue:  h.MarketValue.StringFixed(2),
			ProfitLoss:   h.ProfitLoss.StringFixed(2),
			ReturnPct:    h.ReturnPct.StringFixed(2),
		})
	}
	for _, seg := range snap.Segments {
		resp.Segments = append(resp.Segments, segmentView{
			Market:      string(seg.Market),
			Count:       seg.Count,
			CostBasis:   seg.CostBasis.StringFixed(2),
			MarketValue: seg.MarketValue.StringFixed(2),
			ProfitLoss:  seg.ProfitLoss.StringFixed(2),
			ReturnPct:   seg.ReturnPct.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, resp)
}
