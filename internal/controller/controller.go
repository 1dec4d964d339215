package controller

import (
	"errors"
	"net/http"

	"storefront/internal/apiclient"
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Tracking *service.TrackingService
	Owner    *service.OwnerService
}

func NewOrderController(t *service.TrackingService, o *service.OwnerService) *OrderController {
	return &OrderController{Tracking: t, Owner: o}
}

// GET /orders/:orderId/tracking
func (ctl *OrderController) GetTracking(c *gin.Context) {
	v, err := ctl.Tracking.Track(c.Request.Context(), middleware.CurrentUser(c), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /orders
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	rows, err := ctl.Tracking.ListOrders(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /owner/orders - shop owner (middleware ShopOwnerOnly)
func (ctl *OrderController) GetShopOrders(c *gin.Context) {
	orders, err := ctl.Owner.ListOrders(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /owner/orders/:orderId - shop owner (middleware ShopOwnerOnly)
func (ctl *OrderController) GetOwnerOrder(c *gin.Context) {
	o, err := ctl.Owner.GetOrder(c.Request.Context(), middleware.CurrentUser(c), c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// PUT /owner/orders/:orderId/status - shop owner
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := ctl.Owner.UpdateStatus(
		c.Request.Context(),
		middleware.CurrentUser(c),
		c.Param("orderId"),
		req.Status,
		req.Reason,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated", "order": o})
}

// writeError traduce los errores de negocio; cualquier otra falla del backend es 502
// con el mensaje genérico para el usuario.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrFinalState),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, apiclient.ErrOwnerMarkUnread):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": apiclient.UserMessage(err)})
	}
}
