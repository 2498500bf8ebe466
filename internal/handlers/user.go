package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/repository"
)

func GetProfile(profiles ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/profile"
		defer handlePanic(c, route)

		sc := currentSession(c)
		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := profiles.FindUserByID(ctx, sc.Identity.UserID)
		if errors.Is(err, repository.ErrUserNotFound) {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}
		if err != nil {
			log.Printf("[%s] lookup failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfile replaces the stored shipping address. The same rules as guest
// checkout apply, so a saved profile can always be used at checkout.
func UpdateProfile(profiles ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/profile"
		defer handlePanic(c, route)

		sc := currentSession(c)
		var req models.Address
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		address, err := checkout.ValidateAddress(req)
		if err != nil {
			respondWithCheckoutError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := profiles.UpdateProfile(ctx, sc.Identity.UserID, address)
		if errors.Is(err, repository.ErrUserNotFound) {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}
		if err != nil {
			log.Printf("[%s] update failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[USER] [INFO] profile %d updated", user.ID)
		c.JSON(http.StatusOK, user)
	}
}
