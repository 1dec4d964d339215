package controller

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controllers struct {
	Orders        *OrderController
	Checkout      *CheckoutController
	Notifications *NotificationController
}

func NewRouter(authService *service.AuthService, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.PrometheusMiddleware())

	// Rutas públicas
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.GET("/orders", ctl.Orders.GetMyOrders)
	auth.GET("/orders/:orderId/tracking", ctl.Orders.GetTracking)

	auth.GET("/checkout/view", ctl.Checkout.GetView)
	auth.GET("/checkout/draft", ctl.Checkout.GetDraft)
	auth.PUT("/checkout/items/:productId", ctl.Checkout.SetQuantity)
	auth.POST("/checkout/place", ctl.Checkout.Place)

	auth.GET("/notifications", ctl.Notifications.List)
	auth.GET("/notifications/unread", ctl.Notifications.Unread)
	auth.GET("/notifications/live", ctl.Notifications.Live)
	auth.PUT("/notifications/:id/read", ctl.Notifications.MarkRead)
	auth.PUT("/notifications/:id/unread", ctl.Notifications.MarkUnread)

	// Rutas del dueño de tienda
	owner := auth.Group("/owner")
	owner.Use(middleware.ShopOwnerOnly())
	owner.GET("/orders", ctl.Orders.GetShopOrders)
	owner.GET("/orders/:orderId", ctl.Orders.GetOwnerOrder)
	owner.PUT("/orders/:orderId/status", ctl.Orders.UpdateStatus)

	return r
}
