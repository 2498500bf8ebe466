package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/order"
	"storefront/internal/repository"
)

type stageDeliveryRequest struct {
	DeliveryMethod models.DeliveryMethod `json:"deliveryMethod" binding:"required"`
	PaymentMethod  models.PaymentMethod  `json:"paymentMethod" binding:"required"`
	Address        *models.Address       `json:"address"`
}

type checkoutSummary struct {
	DeliveryMethod models.DeliveryMethod `json:"deliveryMethod,omitempty"`
	PaymentMethod  models.PaymentMethod  `json:"paymentMethod,omitempty"`
	Address        *models.Address       `json:"address,omitempty"`
	Complete       bool                  `json:"complete"`
	Items          []cartLine            `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	Surcharge      decimal.Decimal       `json:"surcharge"`
	Total          decimal.Decimal       `json:"total"`
}

/*
POST /checkout/delivery
- authenticated sessions ship to the stored profile, body address is ignored
- guests must send a full address
*/
func StageDelivery(stager CheckoutStager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/delivery"
		defer handlePanic(c, route)

		var req stageDeliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "deliveryMethod and paymentMethod are required")
			return
		}

		sc := currentSession(c)
		ctx, cancel := requestContext(c)
		defer cancel()

		var source checkout.AddressSource
		if sc.Guest() {
			guest := checkout.Guest{}
			if req.Address != nil {
				guest.Address = *req.Address
			}
			source = guest
		} else {
			source = checkout.Registered{UserID: sc.Identity.UserID}
		}

		selection, err := stager.Stage(ctx, sc.ID, req.DeliveryMethod, req.PaymentMethod, source)
		if err != nil {
			respondWithCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"deliveryMethod": selection.DeliveryMethod,
			"paymentMethod":  selection.PaymentMethod,
			"address":        selection.Address,
			"surcharge":      order.Surcharge(selection.DeliveryMethod),
		})
	}
}

func CheckoutSummary(stager CheckoutStager, carts CartStore, products ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /checkout/summary"
		defer handlePanic(c, route)

		sc := currentSession(c)
		ctx, cancel := requestContext(c)
		defer cancel()

		selection, err := stager.Load(ctx, sc.ID)
		if err != nil {
			respondWithCheckoutError(c, route, err)
			return
		}
		if selection.Empty() {
			respondWithError(c, http.StatusConflict, route, order.ErrIncompleteCheckout.Error())
			return
		}

		view, err := loadCartView(ctx, carts, products, sc.ID)
		if err != nil {
			log.Printf("[%s] load cart failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		surcharge := order.Surcharge(selection.DeliveryMethod)
		c.JSON(http.StatusOK, checkoutSummary{
			DeliveryMethod: selection.DeliveryMethod,
			PaymentMethod:  selection.PaymentMethod,
			Address:        selection.Address,
			Complete:       selection.Complete(),
			Items:          view.Items,
			Subtotal:       view.Total,
			Surcharge:      surcharge,
			Total:          view.Total.Add(surcharge),
		})
	}
}

func ConfirmCheckout(placer OrderPlacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/confirm"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		placed, err := placer.PlaceOrder(ctx, currentSession(c))
		if err != nil {
			respondWithCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"orderId": placed.ID,
			"status":  placed.Status,
			"total":   placed.Total,
		})
	}
}

func AbandonCheckout(stager CheckoutStager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /checkout"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := stager.Clear(ctx, currentSession(c).ID); err != nil {
			respondWithCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "checkout abandoned"})
	}
}

func respondWithCheckoutError(c *gin.Context, route string, err error) {
	var addrErr *checkout.AddressError
	switch {
	case errors.As(err, &addrErr):
		log.Printf("[%s] returning error %d: %v", route, http.StatusBadRequest, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  checkout.ErrInvalidAddress.Error(),
			"fields": addrErr.Fields,
		})
	case errors.Is(err, checkout.ErrInvalidSelection), errors.Is(err, checkout.ErrInvalidAddress):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		respondWithError(c, http.StatusNotFound, route, "user not found")
	case errors.Is(err, order.ErrEmptyCart), errors.Is(err, order.ErrIncompleteCheckout):
		respondWithError(c, http.StatusConflict, route, err.Error())
	case errors.Is(err, order.ErrPersistence):
		respondWithError(c, http.StatusServiceUnavailable, route, order.ErrPersistence.Error())
	default:
		log.Printf("[CHECKOUT] [ERROR] %s: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}
