package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shiftswap/shiftswap/internal/config"
	"github.com/shiftswap/shiftswap/internal/handlers"
	"github.com/shiftswap/shiftswap/internal/middleware"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.Init(cfg)

	gate := middleware.NewMembershipGate(cfg.BypassGroupAuth)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		api.GET("/users/:user_id", middleware.AuthMiddleware(), handlers.GetUser)

		groups := api.Group("/groups", middleware.AuthMiddleware())
		{
			groups.POST("", handlers.CreateGroup)
			groups.GET("", handlers.ListGroups)

			// Everything under one group requires membership; the gate
			// resolves the caller's status once and stashes it.
			g := groups.Group("/:group_id", gate.RequireMember())
			{
				g.GET("", handlers.GetGroup)

				g.GET("/ws", handlers.GroupFeed)

				g.GET("/memberships", handlers.ListMemberships)
				g.GET("/memberships/:membership_id", handlers.GetMembership)
				g.POST("/memberships/:membership_id", gate.RequireAdmin(), handlers.UpdateMembershipStatus)

				g.POST("/shifts", handlers.CreateShift)
				g.GET("/shifts", handlers.ListShifts)
				g.GET("/shifts/:shift_id", handlers.GetShift)
				g.POST("/shifts/:shift_id", handlers.UpdateShift)

				g.POST("/templates", handlers.CreateTemplate)
				g.GET("/templates", handlers.ListTemplates)
				g.GET("/templates/:template_id", handlers.GetTemplate)
				g.POST("/templates/:template_id", handlers.UpdateTemplate)
				g.DELETE("/templates/:template_id", gate.RequireAdmin(), handlers.DeleteTemplate)

				g.POST("/switches", handlers.ProposeSwitch)
				g.GET("/switches", handlers.ListSwitches)
				g.GET("/switches/:switch_id", handlers.GetSwitch)
				g.POST("/switches/:switch_id/cancel", handlers.CancelSwitch)
				g.POST("/switches/:switch_id/responses", handlers.RespondToSwitch)
				g.GET("/switches/:switch_id/responses", handlers.ListSwitchResponses)
				g.GET("/switches/:switch_id/responses/:response_id", handlers.GetSwitchResponse)
				g.POST("/switches/:switch_id/responses/:response_id/accept", handlers.AcceptSwitchResponse)

				g.POST("/availabilities", handlers.CreateAvailability)
				g.GET("/availabilities", handlers.ListAvailabilities)
				g.GET("/availabilities/:availability_id", handlers.GetAvailability)
				g.POST("/availabilities/:availability_id", handlers.UpdateAvailability)

				g.GET("/calendars/:calendar_id", handlers.GetCalendar)
			}
		}
	}

	return r
}
