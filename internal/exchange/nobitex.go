package exchange

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hybrid_bot/internal/models"

	"github.com/bytedance/sonic"
)

const nobitexBaseURL = "https://api.nobitex.ir"

// Nobitex — REST-клиент api.nobitex.ir. Приватные ручки ходят с токеном.
type Nobitex struct {
	http    *http.Client
	token   string
	baseURL string
}

func NewNobitex(token string) *Nobitex {
	return &Nobitex{
		http:    &http.Client{Timeout: 10 * time.Second},
		token:   token,
		baseURL: nobitexBaseURL,
	}
}

func (n *Nobitex) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("nobitex marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := n.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("nobitex new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if n.token != "" {
		req.Header.Set("Authorization", "Token "+n.token)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("nobitex %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("nobitex read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nobitex %s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("nobitex unmarshal: %w", err)
	}
	return nil
}

// GetCandles — udf-история: параллельные массивы t/o/h/l/c/v.
func (n *Nobitex) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	now := time.Now().Unix()
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("resolution", resolution(timeframe))
	q.Set("from", strconv.FormatInt(now-int64(limit)*timeframeSeconds(timeframe), 10))
	q.Set("to", strconv.FormatInt(now, 10))
	q.Set("countback", strconv.Itoa(limit))

	var out struct {
		Status string    `json:"s"`
		Times  []int64   `json:"t"`
		Opens  []float64 `json:"o"`
		Highs  []float64 `json:"h"`
		Lows   []float64 `json:"l"`
		Closes []float64 `json:"c"`
		Vols   []float64 `json:"v"`
	}

	err := withRetry(ctx, 3, time.Second, func() error {
		return n.do(ctx, http.MethodGet, "/market/udf/history", q, nil, &out)
	})
	if err != nil {
		return nil, err
	}
	if out.Status != "ok" {
		return nil, fmt.Errorf("nobitex history %s: status %q", symbol, out.Status)
	}

	candles := make([]models.Candle, 0, len(out.Times))
	for i := range out.Times {
		candles = append(candles, models.Candle{
			Timestamp: time.Unix(out.Times[i], 0).UTC(),
			Open:      out.Opens[i],
			High:      out.Highs[i],
			Low:       out.Lows[i],
			Close:     out.Closes[i],
			Volume:    out.Vols[i],
		})
	}
	return candles, nil
}

func (n *Nobitex) GetTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	src, dst, err := splitSymbol(symbol)
	if err != nil {
		return models.Ticker{}, err
	}

	q := url.Values{}
	q.Set("srcCurrency", src)
	q.Set("dstCurrency", dst)

	var out struct {
		Status string `json:"status"`
		Stats  map[string]struct {
			BestBuy  string `json:"bestBuy"`
			BestSell string `json:"bestSell"`
			Latest   string `json:"latest"`
		} `json:"stats"`
	}
	if err := n.do(ctx, http.MethodGet, "/market/stats", q, nil, &out); err != nil {
		return models.Ticker{}, err
	}

	stats, ok := out.Stats[src+"-"+dst]
	if !ok {
		return models.Ticker{}, fmt.Errorf("nobitex stats: no data for %s", symbol)
	}

	bid, _ := strconv.ParseFloat(stats.BestBuy, 64)
	ask, _ := strconv.ParseFloat(stats.BestSell, 64)
	last, _ := strconv.ParseFloat(stats.Latest, 64)
	return models.Ticker{Symbol: symbol, Bid: bid, Ask: ask, Last: last}, nil
}

func (n *Nobitex) GetBalance(ctx context.Context) (map[string]float64, error) {
	var out struct {
		Status  string `json:"status"`
		Wallets []struct {
			Currency string `json:"currency"`
			Balance  string `json:"balance"`
		} `json:"wallets"`
	}

	err := withRetry(ctx, 3, time.Second, func() error {
		return n.do(ctx, http.MethodGet, "/v2/wallets", nil, nil, &out)
	})
	if err != nil {
		return nil, err
	}
	if out.Status != "ok" {
		return nil, fmt.Errorf("nobitex wallets: status %q", out.Status)
	}

	balances := make(map[string]float64, len(out.Wallets))
	for _, w := range out.Wallets {
		v, err := strconv.ParseFloat(w.Balance, 64)
		if err != nil {
			continue
		}
		balances[w.Currency] = v
	}
	return balances, nil
}

func (n *Nobitex) PlaceOrder(ctx context.Context, symbol string, side models.Action, amount float64, price *float64) (Order, error) {
	src, dst, err := splitSymbol(symbol)
	if err != nil {
		return Order{}, err
	}

	body := map[string]any{
		"type":        string(side),
		"srcCurrency": src,
		"dstCurrency": dst,
		"amount":      strconv.FormatFloat(amount, 'f', -1, 64),
		"execution":   "market",
	}
	if price != nil {
		body["execution"] = "limit"
		body["price"] = strconv.FormatFloat(*price, 'f', -1, 64)
	}

	var out struct {
		Status string `json:"status"`
		Order  struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"order"`
	}
	if err := n.do(ctx, http.MethodPost, "/market/orders/add", nil, body, &out); err != nil {
		return Order{}, err
	}
	if out.Status != "ok" {
		return Order{}, fmt.Errorf("nobitex place order %s %s: status %q", side, symbol, out.Status)
	}

	o := Order{
		ID:     strconv.FormatInt(out.Order.ID, 10),
		Symbol: symbol,
		Side:   side,
		Amount: amount,
		Status: out.Order.Status,
	}
	if price != nil {
		o.Price = *price
	}
	return o, nil
}

func (n *Nobitex) CancelOrder(ctx context.Context, orderID string) error {
	body := map[string]any{
		"order":  orderID,
		"status": "canceled",
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := n.do(ctx, http.MethodPost, "/market/orders/update-status", nil, body, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("nobitex cancel %s: status %q", orderID, out.Status)
	}
	return nil
}

func (n *Nobitex) GetOpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	body := map[string]any{
		"status": "open",
	}
	if symbol != "" {
		src, dst, err := splitSymbol(symbol)
		if err != nil {
			return nil, err
		}
		body["srcCurrency"] = src
		body["dstCurrency"] = dst
	}

	var out struct {
		Status string `json:"status"`
		Orders []struct {
			ID     int64  `json:"id"`
			Type   string `json:"type"`
			Amount string `json:"amount"`
			Price  string `json:"price"`
			Status string `json:"status"`
		} `json:"orders"`
	}
	if err := n.do(ctx, http.MethodPost, "/market/orders/list", nil, body, &out); err != nil {
		return nil, err
	}
	if out.Status != "ok" {
		return nil, fmt.Errorf("nobitex open orders: status %q", out.Status)
	}

	orders := make([]Order, 0, len(out.Orders))
	for _, raw := range out.Orders {
		amount, _ := strconv.ParseFloat(raw.Amount, 64)
		price, _ := strconv.ParseFloat(raw.Price, 64)
		orders = append(orders, Order{
			ID:     strconv.FormatInt(raw.ID, 10),
			Symbol: symbol,
			Side:   models.Action(raw.Type),
			Amount: amount,
			Price:  price,
			Status: raw.Status,
		})
	}
	return orders, nil
}
