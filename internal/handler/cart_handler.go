package handler

import (
	"net/http"
	"strconv"

	"ceethaluxe/internal/state"
	"ceethaluxe/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP。カートの実体は共有Store。
type CartHandler struct {
	uc    *usecase.CartUsecase
	store *state.Store
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, store *state.Store) *CartHandler {
	return &CartHandler{uc: uc, store: store}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.getCart)
	e.POST("/cart/items", h.addItem)
	e.POST("/cart/items/:id/increase", h.increaseItem)
	e.POST("/cart/items/:id/decrease", h.decreaseItem)
	e.DELETE("/cart/items/:id", h.removeItem)
	e.DELETE("/cart", h.clearCart)

	e.POST("/theme/toggle", h.toggleTheme)
}

func (h *CartHandler) getCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Get(c.Request().Context()))
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	out, err := h.uc.Add(c.Request().Context(), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) increaseItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Increase(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) decreaseItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Decrease(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	return c.JSON(http.StatusOK, h.uc.Remove(c.Request().Context(), productID))
}

func (h *CartHandler) clearCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Clear(c.Request().Context()))
}

func (h *CartHandler) toggleTheme(c echo.Context) error {
	h.store.ToggleTheme()
	return c.JSON(http.StatusOK, map[string]string{
		"theme": string(h.store.Get().Theme),
	})
}
