package server

import (
	"ceethaluxe/internal/config"
	"ceethaluxe/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	//公開
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e)

	//管理（JWT + adminロール必須）
	admin := e.Group("/admin", middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminProduct.RegisterRoutes(admin)
}
