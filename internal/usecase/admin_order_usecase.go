package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func NewAdminOrderUsecase(orders repo.OrderRepository, orderItems repo.OrderItemRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, orderItems: orderItems}
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, _, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

// SetStatus は1行のステータス書き換えだけ。明細には触らない。
// 書き込みが確定するまで表示側を先に動かさない（楽観更新しない）。
func (u *AdminOrderUsecase) SetStatus(ctx context.Context, orderID string, status string) error {
	if orderID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(status))
	switch newStatus {
	case model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusConfirmed,
		model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled:
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// すでに同じなら何もしない（200）
	if o.Status == newStatus {
		return nil
	}
	// 終端ガード
	if o.Status.IsTerminal() {
		return NewHTTPError(http.StatusBadRequest, "cannot change "+string(o.Status)+" order")
	}

	if err := u.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// SetShipping は追跡番号とお届け予定を書いて、ステータスを shipped に倒す。
func (u *AdminOrderUsecase) SetShipping(ctx context.Context, orderID string, tracking string, eta string) error {
	if orderID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	tracking = strings.TrimSpace(tracking)
	eta = strings.TrimSpace(eta)
	if tracking == "" || eta == "" {
		return NewHTTPError(http.StatusBadRequest, "tracking and estimated_delivery are required")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.Status.IsTerminal() {
		return NewHTTPError(http.StatusBadRequest, "cannot change "+string(o.Status)+" order")
	}

	if err := u.orders.UpdateShipping(ctx, orderID, tracking, eta); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
