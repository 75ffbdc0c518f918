package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ceethaluxe/internal/domain/model"
	"ceethaluxe/internal/infra/alert"
	"ceethaluxe/internal/payment"
	repo "ceethaluxe/internal/repository"

	"github.com/google/uuid"
)

// deliveryRatesが空のときに使う既定の配送料表。
// 表に無い都市は0（本実装と同じ扱い）。
var defaultDeliveryFees = map[string]float64{
	"Accra":  30,
	"Kumasi": 50,
	"Tema":   40,
	"Other":  100,
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	rates    repo.DeliveryRateRepository
	provider payment.Provider
	alerter  alert.Alerter
	log      *slog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	rates repo.DeliveryRateRepository,
	provider payment.Provider,
	alerter alert.Alerter,
	log *slog.Logger,
) *OrderUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &OrderUsecase{
		tx:       tx,
		orders:   orders,
		rates:    rates,
		provider: provider,
		alerter:  alerter,
		log:      log,
	}
}

// チェックアウト時のカートスナップショット1行
type CheckoutItem struct {
	ProductID int64
	Name      string
	Price     float64
	Image     string
	Quantity  int64
}

type CheckoutInput struct {
	Customer      model.Customer
	Items         []CheckoutItem
	PaymentMethod string
	UserID        *int64
}

type CheckoutOutput struct {
	OrderID       int64   `json:"order_id"`
	Number        string  `json:"number"`
	Subtotal      float64 `json:"subtotal"`
	DeliveryFee   float64 `json:"deliveryFee"`
	Total         float64 `json:"total"`
	PaymentStatus string  `json:"paymentStatus"`
}

type OrderItemOutput struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int64   `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	Number        string            `json:"number"`
	Customer      model.Customer    `json:"customer"`
	Items         []OrderItemOutput `json:"items"`
	Subtotal      float64           `json:"subtotal"`
	DeliveryFee   float64           `json:"deliveryFee"`
	Total         float64           `json:"total"`
	PaymentMethod string            `json:"paymentMethod"`
	PaymentStatus string            `json:"paymentStatus"`
	OrderStatus   string            `json:"orderStatus"`
	PaystackRef   string            `json:"paystackRef,omitempty"`
}

// 注文作成。ここを越えたら注文は必ず残る（決済がどう転んでも）。
// カートが空のままここへ来るのは呼び出し側のバグなので弾くだけ。
func (u *OrderUsecase) Checkout(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	if len(in.Items) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}
	if err := validateCustomer(in.Customer); err != nil {
		return CheckoutOutput{}, err
	}
	if in.PaymentMethod != "paystack" && in.PaymentMethod != "cod" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	var subtotal float64
	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		subtotal += it.Price * float64(it.Quantity)
		items = append(items, model.OrderItem{
			ProductID:         it.ProductID,
			NameSnapshot:      it.Name,
			UnitPriceSnapshot: it.Price,
			ImageSnapshot:     it.Image,
			Quantity:          it.Quantity,
		})
	}

	fee := u.deliveryFeeFor(ctx, in.Customer.City)
	total := subtotal + fee

	paymentStatus := model.PaymentStatusPending
	if in.PaymentMethod == "cod" {
		paymentStatus = model.PaymentStatusCodPending
	}

	order := model.Order{
		Number:        uuid.NewString(),
		UserID:        in.UserID,
		Customer:      in.Customer,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: paymentStatus,
		OrderStatus:   model.OrderStatusPending,
	}

	var orderID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		orderID = id
		return nil
	})
	if err != nil {
		u.log.Error("checkout: create order failed", "err", err)
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to create order")
	}

	return CheckoutOutput{
		OrderID:       orderID,
		Number:        order.Number,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         total,
		PaymentStatus: string(paymentStatus),
	}, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to load order")
	}

	return toOrderOutput(o), nil
}

type PayOutput struct {
	OrderID   int64  `json:"order_id"`
	Paid      bool   `json:"paid"`
	Reference string `json:"reference,omitempty"`
	Reason    string `json:"reason,omitempty"`
	// 決済は成功したが在庫反映に失敗したときだけ入る
	Warning string `json:"warning,omitempty"`
}

// 決済から確定まで。
// 決済成功 → 在庫減算（全件まとめて1トランザクション）→ 支払済みに更新。
// 減算に失敗しても注文は元のまま残し、返金はせず運用対応に回す。
func (u *OrderUsecase) Pay(ctx context.Context, orderID int64) (PayOutput, error) {
	if orderID <= 0 {
		return PayOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return PayOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return PayOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to load order")
	}

	// 二度押し対策。支払済みならそのまま返す。
	if o.PaymentStatus == model.PaymentStatusPaid {
		return PayOutput{OrderID: o.ID, Paid: true, Reference: o.PaystackRef}, nil
	}

	ch := make(chan payment.Result, 1)
	u.provider.Initialize(o, func(r payment.Result) { ch <- r })
	res := <-ch

	if !res.Success {
		return PayOutput{OrderID: o.ID, Paid: false, Reason: res.Reason}, nil
	}

	if err := u.finalize(ctx, o, res.Reference); err != nil {
		// ここからは自動では戻せない。注文IDを残して運用へ。
		u.log.Error("pay: finalize failed after successful payment",
			"order_id", o.ID, "reference", res.Reference, "err", err)
		if alertErr := u.alerter.OrderUnreconciled(ctx, o.ID, err.Error()); alertErr != nil {
			u.log.Error("pay: unreconciled alert failed", "order_id", o.ID, "err", alertErr)
		}
		return PayOutput{
			OrderID:   o.ID,
			Paid:      true,
			Reference: res.Reference,
			Warning:   "payment was successful but we couldn't update your order, our team will contact you",
		}, nil
	}

	return PayOutput{OrderID: o.ID, Paid: true, Reference: res.Reference}, nil
}

// 在庫減算と支払済みへの更新。全部成功か全部無しか。
// 減算記録（注文IDで一意）が既にあれば減算は飛ばして更新だけやり直す。
func (u *OrderUsecase) finalize(ctx context.Context, o model.Order, reference string) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		done, err := r.Inventory().DeductionExists(ctx, o.ID)
		if err != nil {
			return err
		}

		if !done {
			for _, it := range o.Items {
				ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					// 商品が消えたのか在庫不足なのかを分ける
					if _, err := r.Products().FindByID(ctx, it.ProductID); errors.Is(err, repo.ErrNotFound) {
						return repo.ErrNotFound
					}
					return &repo.InsufficientStockError{ProductID: it.ProductID, Name: it.NameSnapshot}
				}
			}
			if err := r.Inventory().CreateDeduction(ctx, model.StockDeduction{OrderID: o.ID}); err != nil {
				return err
			}
		}

		paid := model.PaymentStatusPaid
		processing := model.OrderStatusProcessing
		return r.Orders().Update(ctx, o.ID, repo.OrderPatch{
			PaymentStatus: &paid,
			OrderStatus:   &processing,
			PaystackRef:   &reference,
		})
	})
}

// 配送料の解決。deliveryRatesを優先し、無ければ既定表。
func (u *OrderUsecase) deliveryFeeFor(ctx context.Context, city string) float64 {
	if u.rates != nil {
		rate, err := u.rates.FindByCity(ctx, city)
		if err == nil {
			return rate.Fee
		}
		if !errors.Is(err, repo.ErrNotFound) {
			u.log.Error("checkout: delivery rate lookup failed", "city", city, "err", err)
		}
	}
	return defaultDeliveryFees[city]
}

func validateCustomer(c model.Customer) error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return NewHTTPError(http.StatusBadRequest, "email required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return NewHTTPError(http.StatusBadRequest, "phone required")
	}
	if strings.TrimSpace(c.Address) == "" || strings.TrimSpace(c.City) == "" {
		return NewHTTPError(http.StatusBadRequest, "address required")
	}
	return nil
}

func toOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.NameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Image:     it.ImageSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		Number:        o.Number,
		Customer:      o.Customer,
		Items:         items,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: string(o.PaymentStatus),
		OrderStatus:   string(o.OrderStatus),
		PaystackRef:   o.PaystackRef,
	}
}
