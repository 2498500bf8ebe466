package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/order"
)

type cartLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items []cartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type adjustCartRequest struct {
	Action string `json:"action" binding:"required,oneof=increase decrease"`
}

// loadCartView prices the session cart at current catalog prices. Lines whose
// product no longer resolves are left out.
func loadCartView(ctx context.Context, carts CartStore, products ProductCatalog, sessionID string) (cartView, error) {
	snapshot, err := carts.Snapshot(ctx, sessionID)
	if err != nil {
		return cartView{}, err
	}
	view := cartView{Items: make([]cartLine, 0, len(snapshot)), Total: decimal.Zero}
	if snapshot.Empty() {
		return view, nil
	}

	resolved, err := products.FindProducts(ctx, snapshot.ProductIDs())
	if err != nil {
		return cartView{}, err
	}

	items, subtotal := order.PriceLines(snapshot, resolved)
	for _, item := range items {
		product := resolved[item.ProductID]
		view.Items = append(view.Items, cartLine{
			ProductID: item.ProductID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}
	view.Total = subtotal
	return view, nil
}

func GetCart(carts CartStore, products ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		view, err := loadCartView(ctx, carts, products, currentSession(c).ID)
		if err != nil {
			log.Printf("[%s] load cart failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

func AddCartItem(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items/:productId"
		defer handlePanic(c, route)

		productID, err := parseIDParam(c, "productId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := carts.Add(ctx, currentSession(c).ID, productID); err != nil {
			respondWithCartError(c, route, err)
			return
		}

		log.Printf("[CART] [INFO] product %d added", productID)
		c.JSON(http.StatusOK, gin.H{"message": "item added"})
	}
}

func AdjustCartItem(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /cart/items/:productId"
		defer handlePanic(c, route)

		productID, err := parseIDParam(c, "productId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		var req adjustCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "action must be increase or decrease")
			return
		}

		delta := 1
		if req.Action == "decrease" {
			delta = -1
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		quantity, err := carts.SetQuantity(ctx, currentSession(c).ID, productID, delta)
		if err != nil {
			respondWithCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"productId": productID, "quantity": quantity})
	}
}

func RemoveCartItem(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		productID, err := parseIDParam(c, "productId")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := carts.Remove(ctx, currentSession(c).ID, productID); err != nil {
			respondWithCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "item removed"})
	}
}

func ClearCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := carts.Clear(ctx, currentSession(c).ID); err != nil {
			respondWithCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

func respondWithCartError(c *gin.Context, route string, err error) {
	if errors.Is(err, cart.ErrInvalidProduct) {
		respondWithError(c, http.StatusBadRequest, route, err.Error())
		return
	}
	log.Printf("[CART] [ERROR] %s: %v", route, err)
	respondWithError(c, http.StatusInternalServerError, route, "cart unavailable")
}
