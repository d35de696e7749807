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
	"github.com/gorilla/websocket"
)

const (
	wallexBaseURL = "https://api.wallex.ir"
	wallexWSURL   = "wss://api.wallex.ir/ws"
)

// Wallex — REST-клиент api.wallex.ir, приватные ручки через x-api-key.
type Wallex struct {
	http     *http.Client
	wsDialer *websocket.Dialer
	apiKey   string
	baseURL  string
	wsURL    string
}

func NewWallex(apiKey string) *Wallex {
	return &Wallex{
		http:     &http.Client{Timeout: 10 * time.Second},
		wsDialer: &websocket.Dialer{},
		apiKey:   apiKey,
		baseURL:  wallexBaseURL,
		wsURL:    wallexWSURL,
	}
}

func (w *Wallex) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("wallex marshal: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := w.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("wallex new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if w.apiKey != "" {
		req.Header.Set("x-api-key", w.apiKey)
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("wallex %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("wallex read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wallex %s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("wallex unmarshal: %w", err)
	}
	return nil
}

func (w *Wallex) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	now := time.Now().Unix()
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("resolution", resolution(timeframe))
	q.Set("from", strconv.FormatInt(now-int64(limit)*timeframeSeconds(timeframe), 10))
	q.Set("to", strconv.FormatInt(now, 10))

	var out struct {
		Status string   `json:"s"`
		Times  []int64  `json:"t"`
		Opens  []string `json:"o"`
		Highs  []string `json:"h"`
		Lows   []string `json:"l"`
		Closes []string `json:"c"`
		Vols   []string `json:"v"`
	}

	err := withRetry(ctx, 3, time.Second, func() error {
		return w.do(ctx, http.MethodGet, "/v1/udf/history", q, nil, &out)
	})
	if err != nil {
		return nil, err
	}
	if out.Status != "ok" {
		return nil, fmt.Errorf("wallex history %s: status %q", symbol, out.Status)
	}

	parse := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	candles := make([]models.Candle, 0, len(out.Times))
	for i := range out.Times {
		candles = append(candles, models.Candle{
			Timestamp: time.Unix(out.Times[i], 0).UTC(),
			Open:      parse(out.Opens[i]),
			High:      parse(out.Highs[i]),
			Low:       parse(out.Lows[i]),
			Close:     parse(out.Closes[i]),
			Volume:    parse(out.Vols[i]),
		})
	}
	return candles, nil
}

func (w *Wallex) GetTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	var out struct {
		Result struct {
			Symbols map[string]struct {
				Stats struct {
					BidPrice  string `json:"bidPrice"`
					AskPrice  string `json:"askPrice"`
					LastPrice string `json:"lastPrice"`
				} `json:"stats"`
			} `json:"symbols"`
		} `json:"result"`
	}
	if err := w.do(ctx, http.MethodGet, "/v1/markets", nil, nil, &out); err != nil {
		return models.Ticker{}, err
	}

	s, ok := out.Result.Symbols[symbol]
	if !ok {
		return models.Ticker{}, fmt.Errorf("wallex markets: no symbol %s", symbol)
	}
	bid, _ := strconv.ParseFloat(s.Stats.BidPrice, 64)
	ask, _ := strconv.ParseFloat(s.Stats.AskPrice, 64)
	last, _ := strconv.ParseFloat(s.Stats.LastPrice, 64)
	return models.Ticker{Symbol: symbol, Bid: bid, Ask: ask, Last: last}, nil
}

func (w *Wallex) GetBalance(ctx context.Context) (map[string]float64, error) {
	var out struct {
		Result struct {
			Balances map[string]struct {
				Value string `json:"value"`
			} `json:"balances"`
		} `json:"result"`
	}

	err := withRetry(ctx, 3, time.Second, func() error {
		return w.do(ctx, http.MethodGet, "/v1/account/balances", nil, nil, &out)
	})
	if err != nil {
		return nil, err
	}

	balances := make(map[string]float64, len(out.Result.Balances))
	for cur, b := range out.Result.Balances {
		v, err := strconv.ParseFloat(b.Value, 64)
		if err != nil {
			continue
		}
		balances[cur] = v
	}
	return balances, nil
}

func (w *Wallex) PlaceOrder(ctx context.Context, symbol string, side models.Action, amount float64, price *float64) (Order, error) {
	body := map[string]any{
		"symbol":   symbol,
		"side":     string(side),
		"type":     "market",
		"quantity": strconv.FormatFloat(amount, 'f', -1, 64),
	}
	if price != nil {
		body["type"] = "limit"
		body["price"] = strconv.FormatFloat(*price, 'f', -1, 64)
	}

	var out struct {
		Result struct {
			ClientOrderID string `json:"clientOrderId"`
			Status        string `json:"status"`
		} `json:"result"`
	}
	if err := w.do(ctx, http.MethodPost, "/v1/account/orders", nil, body, &out); err != nil {
		return Order{}, err
	}

	o := Order{
		ID:     out.Result.ClientOrderID,
		Symbol: symbol,
		Side:   side,
		Amount: amount,
		Status: out.Result.Status,
	}
	if price != nil {
		o.Price = *price
	}
	return o, nil
}

func (w *Wallex) CancelOrder(ctx context.Context, orderID string) error {
	q := url.Values{}
	q.Set("clientOrderId", orderID)
	var out struct {
		Success bool `json:"success"`
	}
	if err := w.do(ctx, http.MethodDelete, "/v1/account/orders", q, nil, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("wallex cancel %s: rejected", orderID)
	}
	return nil
}

func (w *Wallex) GetOpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	q := url.Values{}
	if symbol != "" {
		q.Set("symbol", symbol)
	}
	var out struct {
		Result struct {
			Orders []struct {
				ClientOrderID string `json:"clientOrderId"`
				Symbol        string `json:"symbol"`
				Side          string `json:"side"`
				OrigQty       string `json:"origQty"`
				Price         string `json:"price"`
				Status        string `json:"status"`
			} `json:"orders"`
		} `json:"result"`
	}
	if err := w.do(ctx, http.MethodGet, "/v1/account/openOrders", q, nil, &out); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(out.Result.Orders))
	for _, raw := range out.Result.Orders {
		amount, _ := strconv.ParseFloat(raw.OrigQty, 64)
		price, _ := strconv.ParseFloat(raw.Price, 64)
		orders = append(orders, Order{
			ID:     raw.ClientOrderID,
			Symbol: raw.Symbol,
			Side:   models.Action(raw.Side),
			Amount: amount,
			Price:  price,
			Status: raw.Status,
		})
	}
	return orders, nil
}

// StreamPrices — последняя цена по символу через WebSocket, с реконнектом.
// Канал закрывается когда ctx отменён или попытки переподключения исчерпаны.
func (w *Wallex) StreamPrices(ctx context.Context, symbol string) <-chan float64 {
	ch := make(chan float64)
	go func() {
		defer close(ch)
		retry := 0
		for {
			conn, _, err := w.wsDialer.Dial(w.wsURL, nil)
			if err != nil {
				retry++
				if retry > 8 {
					return
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(300*retry) * time.Millisecond):
				}
				continue
			}
			retry = 0
			_ = conn.WriteJSON(map[string]any{"method": "subscribe", "channel": symbol + "@trade"})

			stopPing := make(chan struct{})
			go func() {
				t := time.NewTicker(15 * time.Second)
				defer t.Stop()
				for {
					select {
					case <-stopPing:
						return
					case <-ctx.Done():
						return
					case <-t.C:
						_ = conn.WriteJSON(map[string]string{"method": "ping"})
					}
				}
			}()

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					close(stopPing)
					_ = conn.Close()
					break
				}
				var frame struct {
					Channel string `json:"channel"`
					Data    struct {
						Price string `json:"price"`
					} `json:"data"`
				}
				if err := sonic.Unmarshal(msg, &frame); err != nil || frame.Channel != symbol+"@trade" {
					continue
				}
				if px, err := strconv.ParseFloat(frame.Data.Price, 64); err == nil && px > 0 {
					select {
					case <-ctx.Done():
						_ = conn.Close()
						return
					case ch <- px:
					}
				}
			}

			select {
			case <-ctx.Done():
				return
			default:
				time.Sleep(time.Second)
			}
		}
	}()
	return ch
}
