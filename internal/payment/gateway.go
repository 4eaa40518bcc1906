package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GatewayOrder は決済ゲートウェイ側に作られた注文レコード。
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Gateway はウィジェットを開く前の注文作成だけを約束。
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency string, receipt string) (GatewayOrder, error)
}

// Client はRazorpay Orders APIのクライアント。
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture bool   `json:"payment_capture"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Error    *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// CreateOrder はゲートウェイに注文を作る。金額は最小通貨単位で渡すこと。
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency string, receipt string) (GatewayOrder, error) {
	if amountMinor <= 0 {
		return GatewayOrder{}, fmt.Errorf("invalid amount: %d", amountMinor)
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:         amountMinor,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: true,
	})
	if err != nil {
		return GatewayOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return GatewayOrder{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return GatewayOrder{}, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(raw))
	}

	var out createOrderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return GatewayOrder{}, fmt.Errorf("gateway response parse: %w", err)
	}
	if out.Error != nil {
		return GatewayOrder{}, fmt.Errorf("gateway error: %s", out.Error.Description)
	}
	if out.ID == "" {
		return GatewayOrder{}, fmt.Errorf("gateway returned empty order id")
	}

	return GatewayOrder{ID: out.ID, Amount: out.Amount, Currency: out.Currency}, nil
}
