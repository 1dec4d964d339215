package controller

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/apiclient"
	"storefront/internal/checkout"
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/service"
	"storefront/internal/summary"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	Service *service.CheckoutService
}

func NewCheckoutController(s *service.CheckoutService) *CheckoutController {
	return &CheckoutController{Service: s}
}

// GET /checkout/view?claim_new_user=true
func (ctl *CheckoutController) GetView(c *gin.Context) {
	claim, _ := strconv.ParseBool(c.Query("claim_new_user"))

	v, err := ctl.Service.View(c.Request.Context(), middleware.CurrentUser(c), claim)
	if err != nil {
		summaryError(c, "view", v, err, v.Message)
		return
	}
	middleware.RecordCheckoutOperation("view", "success")
	c.JSON(http.StatusOK, v)
}

// PUT /checkout/items/:productId
func (ctl *CheckoutController) SetQuantity(c *gin.Context) {
	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := ctl.Service.SetQuantity(c.Request.Context(), middleware.CurrentUser(c), c.Param("productId"), req.Quantity, req.ClaimNewUser)
	if err != nil {
		summaryError(c, "quantity", v, err, apiclient.UserMessage(err))
		return
	}
	middleware.RecordCheckoutOperation("quantity", "success")
	c.JSON(http.StatusOK, v)
}

// summaryError responde 409 con la vista vigente cuando un pedido más nuevo ganó.
func summaryError(c *gin.Context, op string, v pricing.View, err error, msg string) {
	if errors.Is(err, summary.ErrSuperseded) {
		middleware.RecordCheckoutOperation(op, "superseded")
		c.JSON(http.StatusConflict, gin.H{"error": "superseded", "view": v})
		return
	}
	middleware.RecordCheckoutOperation(op, "error")
	c.JSON(http.StatusBadGateway, gin.H{"error": msg, "view": v})
}

// GET /checkout/draft
func (ctl *CheckoutController) GetDraft(c *gin.Context) {
	d, err := ctl.Service.Draft(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /checkout/place
func (ctl *CheckoutController) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := ctl.Service.Place(c.Request.Context(), middleware.CurrentUser(c), service.PlaceInput{
		Method:          model.PaymentMethod(req.PaymentMethod),
		Note:            req.Note,
		DeliveryAddress: req.DeliveryAddress.ToModel(),
		ClaimNewUser:    req.ClaimNewUser,
		Profile:         req.Profile.ToModel(),
	})
	switch {
	case errors.Is(err, checkout.ErrInFlight):
		middleware.RecordCheckoutOperation("place", "in_flight")
		c.JSON(http.StatusConflict, gin.H{"error": checkout.ErrInFlight.Error()})
		return
	case err != nil:
		middleware.RecordCheckoutOperation("place", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.RecordCheckoutOperation("place", string(res.State))
	switch res.State {
	case checkout.StateSuccess:
		c.JSON(http.StatusCreated, res)
	case checkout.StateProfileIncomplete:
		c.JSON(http.StatusConflict, res)
	default:
		c.JSON(http.StatusBadGateway, res)
	}
}
