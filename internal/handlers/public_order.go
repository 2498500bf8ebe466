package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/repository"
)

// GetOrder returns an order with its items. Any caller holding the id may
// view it.
func GetOrder(orders OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		id, err := parseIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		found, err := orders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			log.Printf("[%s] lookup failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, found)
	}
}

func GetMyOrders(orders OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders"
		defer handlePanic(c, route)

		sc := currentSession(c)
		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := orders.ListByUser(ctx, sc.Identity.UserID)
		if err != nil {
			log.Printf("[%s] list failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Orders could not be fetched")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}
