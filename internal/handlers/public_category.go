package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetCategories(products ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		categories, err := products.Categories(ctx)
		if err != nil {
			log.Printf("[%s] distinct failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}
