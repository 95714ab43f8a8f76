// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/satyamraj1643/pine/internal/application/container"
	"github.com/satyamraj1643/pine/internal/presentation/http/handlers"
	"github.com/satyamraj1643/pine/internal/presentation/http/middleware"
	"github.com/satyamraj1643/pine/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestIDMiddleware())

	// Serve stored avatars
	r.Static("/media", config.MediaDir)

	// Initialize handlers
	identityHandlers := handlers.NewIdentityHandlers(c.IdentityService, c.Broadcaster, c.Logger)
	wsHandlers := handlers.NewWSHandlers(c.Broadcaster, c.Logger)

	// Public identity endpoints
	r.POST("/signup", identityHandlers.PostSignup)
	r.POST("/verify-otp", identityHandlers.PostVerifyOTP)
	r.POST("/login", identityHandlers.PostLogin)

	// Session endpoints
	authGroup := r.Group("/auth")
	{
		// The wire contract names the trailing-slash form; both are served
		// so no client depends on a redirect.
		authGroup.POST("/logout/", identityHandlers.PostLogout)
		authGroup.POST("/logout", identityHandlers.PostLogout)
		authGroup.POST("/jwt/create", identityHandlers.PostLogin)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthRequired(c.IdentityService, config.AuthCookieName))
		{
			protected.GET("/validate", identityHandlers.GetValidate)
			protected.GET("/isActivated", identityHandlers.GetIsActivated)
			protected.PATCH("/update-profile", identityHandlers.PatchUpdateProfile)
		}
	}

	// Live session stats for the ops dashboard
	r.GET("/ws/sessions", wsHandlers.GetSessionSocket)

	return r
}
