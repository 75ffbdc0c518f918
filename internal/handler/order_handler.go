package handler

import (
	"net/http"
	"strconv"

	"ceethaluxe/internal/domain/model"
	"ceethaluxe/internal/state"
	"ceethaluxe/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout と /orders のHTTP
type OrderHandler struct {
	uc    *usecase.OrderUsecase
	store *state.Store
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase, store *state.Store) *OrderHandler {
	return &OrderHandler{uc: uc, store: store}
}

type CheckoutRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/checkout", h.checkout)
	e.GET("/orders/:id", h.getOrder)
	e.POST("/orders/:id/pay", h.payOrder)
}

// 注文作成。カートはStoreのスナップショットから取る。
// 成功したらカートを空にする。
func (h *OrderHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	st := h.store.Get()

	items := make([]usecase.CheckoutItem, 0, len(st.Cart))
	for _, line := range st.Cart {
		items = append(items, usecase.CheckoutItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
	}

	//ログイン中なら注文にユーザーを紐付ける
	var userID *int64
	if st.User != nil {
		id := st.User.UserID
		userID = &id
	}

	out, err := h.uc.Checkout(c.Request().Context(), usecase.CheckoutInput{
		Customer: model.Customer{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			Address:   req.Address,
			City:      req.City,
		},
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		UserID:        userID,
	})
	if err != nil {
		return writeError(c, err)
	}

	h.store.ClearCart()

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) getOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 決済実行。決済が終わるまでブロックする。
func (h *OrderHandler) payOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Pay(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
