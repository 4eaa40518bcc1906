package usecase

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"

	"app/internal/cart"
	"app/internal/checkout"
	"app/internal/domain/model"
	"app/internal/payment"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

// 決済フローの状態。ユーザー1人につき同時に1回のチェックアウト。
type PaymentState string

const (
	StateIdle                 PaymentState = "idle"
	StateCreatingGatewayOrder PaymentState = "creating_gateway_order"
	StateAwaitingUserPayment  PaymentState = "awaiting_user_payment"
	StateVerifyingSignature   PaymentState = "verifying_signature"
	StateWritingOrder         PaymentState = "writing_order"
	StateSettled              PaymentState = "settled"
	StateFailed               PaymentState = "failed"
)

type paymentAttempt struct {
	state          PaymentState
	gatewayOrderID string
	amountMinor    int64
	failReason     string
}

type PaymentConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
	// 表示通貨への換算率。最小通貨単位への変換時に1回だけ掛ける。
	CurrencyRate float64
}

// PaymentUsecase はウィジェットのコールバック地獄を明示的な状態機械に
// 置き換えたもの。イベント＝Begin/Complete/Cancel、遷移ごとに失敗辺を持つ。
type PaymentUsecase struct {
	mu       sync.Mutex
	attempts map[string]*paymentAttempt

	gateway     payment.Gateway
	storage     cart.Storage
	staging     checkout.StagingStore
	orders      *OrderUsecase
	productRepo repo.ProductRepository
	cfg         PaymentConfig
}

func NewPaymentUsecase(
	gateway payment.Gateway,
	storage cart.Storage,
	staging checkout.StagingStore,
	orders *OrderUsecase,
	productRepo repo.ProductRepository,
	cfg PaymentConfig,
) *PaymentUsecase {
	if cfg.CurrencyRate <= 0 {
		cfg.CurrencyRate = 1
	}
	return &PaymentUsecase{
		attempts:    map[string]*paymentAttempt{},
		gateway:     gateway,
		storage:     storage,
		staging:     staging,
		orders:      orders,
		productRepo: productRepo,
		cfg:         cfg,
	}
}

type PrefillOutput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// BeginOutput はホスト型ウィジェットを開くためのパラメータ一式。
type BeginOutput struct {
	KeyID          string        `json:"key_id"`
	GatewayOrderID string        `json:"gateway_order_id"`
	Amount         int64         `json:"amount"`
	Currency       string        `json:"currency"`
	Prefill        PrefillOutput `json:"prefill"`
}

type CompleteInput struct {
	PaymentID      string
	GatewayOrderID string
	Signature      string
}

type CompleteOutput struct {
	Order OrderOutput `json:"order"`
}

// Begin: Idle → CreatingGatewayOrder → AwaitingUserPayment。
// 二度押しは進行中の試行があれば409で弾く。
func (u *PaymentUsecase) Begin(ctx context.Context, userID string) (BeginOutput, error) {
	if userID == "" {
		return BeginOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	u.mu.Lock()
	if a, ok := u.attempts[userID]; ok && inFlight(a.state) {
		u.mu.Unlock()
		return BeginOutput{}, NewHTTPError(http.StatusConflict, "payment already in progress")
	}
	u.attempts[userID] = &paymentAttempt{state: StateCreatingGatewayOrder}
	u.mu.Unlock()

	out, err := u.begin(ctx, userID)
	if err != nil {
		u.fail(userID, failReason(err))
		return BeginOutput{}, err
	}
	return out, nil
}

func (u *PaymentUsecase) begin(ctx context.Context, userID string) (BeginOutput, error) {
	// 入口ガード：カートが空／配送先が無いならここまで来てはいけない
	s := cart.NewStore(u.storage, userID)
	if err := s.Restore(ctx); err != nil {
		return BeginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.Len() == 0 {
		return BeginOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	staged, ok := u.staging.Get(userID)
	if !ok {
		return BeginOutput{}, NewHTTPError(http.StatusBadRequest, "shipping details not found")
	}

	// 消えた商品が混ざったまま決済させない
	if err := u.validateProducts(ctx, s.Items()); err != nil {
		return BeginOutput{}, err
	}

	amountMinor := u.minorUnits(s.Subtotal())

	gw, err := u.gateway.CreateOrder(ctx, amountMinor, u.cfg.Currency, fmt.Sprintf("order_%s", userID))
	if err != nil {
		log.Warnf("payment: gateway order creation failed for user %s: %v", userID, err)
		return BeginOutput{}, NewHTTPError(http.StatusBadGateway, "gateway unavailable")
	}

	u.mu.Lock()
	u.attempts[userID] = &paymentAttempt{
		state:          StateAwaitingUserPayment,
		gatewayOrderID: gw.ID,
		amountMinor:    gw.Amount,
	}
	u.mu.Unlock()

	return BeginOutput{
		KeyID:          u.cfg.KeyID,
		GatewayOrderID: gw.ID,
		Amount:         gw.Amount,
		Currency:       gw.Currency,
		Prefill: PrefillOutput{
			Name:    staged.Name,
			Email:   staged.Email,
			Contact: staged.Phone,
		},
	}, nil
}

// Complete はウィジェット成功コールバック。
// AwaitingUserPayment → VerifyingSignature → WritingOrder → Settled。
// 署名不一致は問答無用で失敗（その注文を paid で書いてはいけない）。
// 同じ paymentID の再送は既存の注文を返すだけで二重には作らない。
func (u *PaymentUsecase) Complete(ctx context.Context, userID string, in CompleteInput) (CompleteOutput, error) {
	if userID == "" {
		return CompleteOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.PaymentID == "" || in.GatewayOrderID == "" || in.Signature == "" {
		return CompleteOutput{}, NewHTTPError(http.StatusBadRequest, "invalid callback")
	}

	// ゲートウェイの再送：既に書けているならそれを返す
	if existing, found, err := u.orders.FindByGatewayPaymentID(ctx, in.PaymentID); err == nil && found {
		return CompleteOutput{Order: existing}, nil
	}

	u.mu.Lock()
	a, ok := u.attempts[userID]
	if !ok || a.state != StateAwaitingUserPayment {
		u.mu.Unlock()
		return CompleteOutput{}, NewHTTPError(http.StatusConflict, "no payment awaiting completion")
	}
	if a.gatewayOrderID != in.GatewayOrderID {
		u.mu.Unlock()
		return CompleteOutput{}, NewHTTPError(http.StatusBadRequest, "unknown gateway order")
	}
	a.state = StateVerifyingSignature
	u.mu.Unlock()

	if !payment.VerifyPaymentSignature(in.GatewayOrderID, in.PaymentID, in.Signature, u.cfg.KeySecret) {
		u.fail(userID, "invalid signature")
		return CompleteOutput{}, NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	u.setState(userID, StateWritingOrder)

	s := cart.NewStore(u.storage, userID)
	if err := s.Restore(ctx); err != nil {
		u.fail(userID, "order write failed")
		return CompleteOutput{}, u.reconciliationError(userID, in)
	}
	staged, ok := u.staging.Get(userID)
	if !ok {
		u.fail(userID, "order write failed")
		return CompleteOutput{}, u.reconciliationError(userID, in)
	}

	out, err := u.orders.PlaceOrder(ctx, userID, s.Items(), staged.ShippingDetails, s.Subtotal(), PaymentMeta{
		Method:           model.PaymentMethodGateway,
		GatewayOrderID:   in.GatewayOrderID,
		GatewayPaymentID: in.PaymentID,
	})
	if err != nil {
		// 決済は通っているのに注文が無い。ここだけは絶対に黙らない。
		u.fail(userID, "order write failed")
		return CompleteOutput{}, u.reconciliationError(userID, in)
	}

	// Settled：カートとステージングを片付ける
	if err := s.Clear(ctx); err != nil {
		log.Warnf("payment: cart clear failed after order %s: %v", out.ID, err)
	}
	u.staging.Discard(userID)

	u.mu.Lock()
	delete(u.attempts, userID)
	u.mu.Unlock()

	return CompleteOutput{Order: out}, nil
}

// Cancel はモーダルを閉じた・離脱したとき。エラーではなく独立した辺。
func (u *PaymentUsecase) Cancel(ctx context.Context, userID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	a, ok := u.attempts[userID]
	if !ok {
		return nil
	}
	// 検証・書き込みの途中はキャンセルで放置できない（完了側が片付ける）
	if a.state == StateVerifyingSignature || a.state == StateWritingOrder {
		return NewHTTPError(http.StatusConflict, "payment is being finalized")
	}

	a.state = StateFailed
	a.failReason = "cancelled"
	delete(u.attempts, userID)
	return nil
}

// State は現在の試行状態（無ければ idle）。
func (u *PaymentUsecase) State(userID string) (PaymentState, string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	a, ok := u.attempts[userID]
	if !ok {
		return StateIdle, ""
	}
	return a.state, a.failReason
}

// minorUnits は換算率と最小通貨単位（×100）をここで1回だけ適用する。
// ゲートウェイ注文とローカル注文で同じ規則を使い、1セントのずれを作らない。
func (u *PaymentUsecase) minorUnits(amount int64) int64 {
	return int64(math.Round(float64(amount) * u.cfg.CurrencyRate * 100))
}

func (u *PaymentUsecase) validateProducts(ctx context.Context, items []model.LineItem) error {
	ids := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	found, err := u.productRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	foundSet := map[string]struct{}{}
	for _, id := range found {
		foundSet[id] = struct{}{}
	}

	var missing []string
	for _, it := range items {
		if _, ok := foundSet[it.ProductID]; !ok {
			missing = append(missing, it.Name)
		}
	}
	if len(missing) > 0 {
		return NewHTTPError(http.StatusBadRequest, "products no longer available: "+strings.Join(missing, ", "))
	}
	return nil
}

func (u *PaymentUsecase) reconciliationError(userID string, in CompleteInput) error {
	log.Warnf("payment: captured payment %s (gateway order %s) for user %s has no recorded order — manual follow-up required",
		in.PaymentID, in.GatewayOrderID, userID)
	return NewHTTPError(http.StatusInternalServerError, ErrPaymentCapturedOrderMissing.Error())
}

func (u *PaymentUsecase) setState(userID string, st PaymentState) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if a, ok := u.attempts[userID]; ok {
		a.state = st
	}
}

func (u *PaymentUsecase) fail(userID string, reason string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if a, ok := u.attempts[userID]; ok {
		a.state = StateFailed
		a.failReason = reason
	}
}

func inFlight(st PaymentState) bool {
	switch st {
	case StateCreatingGatewayOrder, StateAwaitingUserPayment, StateVerifyingSignature, StateWritingOrder:
		return true
	default:
		return false
	}
}

func failReason(err error) string {
	if he, ok := AsHTTPError(err); ok && he.Status == http.StatusBadGateway {
		return "gateway unavailable"
	}
	return "begin failed"
}
