package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/repository"
)

func AdminListOrders(orders OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := orders.ListAll(ctx)
		if err != nil {
			log.Printf("[%s] list failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "Orders could not be fetched")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func AdminDeleteOrder(orders OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		id, err := parseIDParam(c, "id")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		err = orders.Delete(ctx, id)
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			log.Printf("[%s] delete failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[ADMIN] [INFO] order %d deleted by user %d", id, currentSession(c).Identity.UserID)
		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
