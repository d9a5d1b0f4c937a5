package main

import (
	"log"
	"net/http"
	"time"

	"github.com/Balaga-Lokesh/SAVR-sub000/config"
	"github.com/Balaga-Lokesh/SAVR-sub000/database"
	"github.com/Balaga-Lokesh/SAVR-sub000/handlers"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Initialize tables
	if err := db.InitializeTables(); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	// Initialize Cloudinary (optional: product image uploads fail politely
	// without it)
	if config.AppConfig.CloudinaryURL != "" {
		if err := services.InitializeCloudinary(config.AppConfig.CloudinaryURL); err != nil {
			log.Printf("Failed to initialize Cloudinary: %v", err)
		}
	}

	services.InitializeMailer(config.AppConfig.SendgridAPIKey, config.AppConfig.FromEmail)
	handlers.InitializeHandlers(db, services.NewGeocoder(config.AppConfig.GeocoderBaseURL))

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Add CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	router.Use(func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == "OPTIONS" {
			ctx.AbortWithStatus(204)
			return
		}
		ctx.Next()
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "SAVR server is running",
			"timestamp": time.Now().Unix(),
		})
	})

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/request-otp", handlers.RequestOTP)
			auth.POST("/verify-otp", handlers.VerifyOTP)
			auth.POST("/otp/request", handlers.RequestOTP)
			auth.POST("/otp/verify", handlers.VerifyOTP)
			auth.POST("/logout", handlers.TokenAuthMiddleware(), handlers.Logout)
			auth.GET("/me", handlers.TokenAuthMiddleware(), handlers.Me)
		}

		products := api.Group("/products")
		{
			products.GET("", handlers.ListProducts)
			products.GET("/with-images", handlers.ListProductsWithImages)
			products.GET("/:id", handlers.GetProduct)
			products.GET("/:id/reviews", handlers.ListProductReviews)
			products.POST("/:id/reviews", handlers.TokenAuthMiddleware(), handlers.CreateProductReview)
		}
		api.GET("/marts", handlers.ListMarts)
		api.GET("/offers", handlers.ListOffers)

		addresses := api.Group("/addresses", handlers.TokenAuthMiddleware())
		{
			addresses.GET("", handlers.ListAddresses)
			addresses.POST("", handlers.CreateAddress)
			addresses.PUT("/:id", handlers.UpdateAddress)
			addresses.DELETE("/:id", handlers.DeleteAddress)
			addresses.POST("/:id/default", handlers.SetDefaultAddress)
		}

		for _, prefix := range []string{"/basket", "/baskets"} {
			baskets := api.Group(prefix, handlers.TokenAuthMiddleware())
			{
				baskets.GET("", handlers.ListBaskets)
				baskets.POST("", handlers.CreateBasket)
				baskets.POST("/optimize", handlers.OptimizeBasket)
			}
		}

		orders := api.Group("/orders", handlers.TokenAuthMiddleware())
		{
			orders.GET("", handlers.ListOrders)
			orders.GET("/:id", handlers.GetOrder)
			orders.POST("", handlers.CreateOrder)
			orders.POST("/create", handlers.CreateOrder)
			orders.POST("/from-plan", handlers.CreateOrderFromPlan)
			orders.POST("/create-from-plan", handlers.CreateOrderFromPlan)
		}
		api.GET("/payments", handlers.TokenAuthMiddleware(), handlers.ListPayments)
		api.GET("/analytics", handlers.TokenAuthMiddleware(), handlers.SuperuserMiddleware(), handlers.ListAnalyticsLogs)

		partners := api.Group("/partners")
		{
			partners.POST("/register", handlers.PartnerRegister)
			partners.POST("/set-password", handlers.PartnerSetPassword)
			partners.POST("/login", handlers.PartnerLogin)
			partners.GET("/deliveries", handlers.PartnerAuthMiddleware(), handlers.PartnerDeliveries)
			partners.POST("/deliveries/:id/delivered", handlers.PartnerAuthMiddleware(), handlers.PartnerMarkDelivered)
		}

		api.POST("/admin/login", handlers.AdminLogin)
		admin := api.Group("/admin", handlers.AdminJWTMiddleware())
		{
			admin.GET("/dashboard", handlers.AdminDashboard)
			admin.POST("/products", handlers.AdminCreateProduct)
			admin.PUT("/products/:id", handlers.AdminUpdateProduct)
			admin.PATCH("/products/:id/stock", handlers.AdminUpdateStock)
			admin.DELETE("/products/:id", handlers.AdminDeleteProduct)
			admin.POST("/products/:id/image", handlers.AdminUploadProductImage)
			admin.POST("/marts", handlers.AdminCreateMart)
			admin.POST("/marts/:id/approve", handlers.AdminApproveMart)
			admin.GET("/orders", handlers.AdminListOrders)
			admin.PATCH("/orders/:id/status", handlers.AdminUpdateOrderStatus)
			admin.POST("/orders/:id/assign", handlers.AdminAssignDelivery)
			admin.GET("/deliveries", handlers.AdminListDeliveries)
			admin.GET("/admins", handlers.AdminListAdmins)
			admin.POST("/admins", handlers.AdminCreateAdmin)
			admin.DELETE("/admins/:id", handlers.AdminDeleteAdmin)
			admin.GET("/partners", handlers.AdminListPartners)
			admin.GET("/partners/pending", handlers.AdminPendingPartners)
			admin.POST("/partners/:id/approve", handlers.AdminApprovePartner)
			admin.POST("/partners/:id/reject", handlers.AdminRejectPartner)
			admin.POST("/offers", handlers.AdminCreateOffer)
			admin.DELETE("/offers/:id", handlers.AdminDeleteOffer)
			admin.GET("/export/orders", handlers.AdminExportOrders)
			admin.GET("/export/products", handlers.AdminExportProducts)
		}

		api.GET("/ws/orders", handlers.OrderFeedHandler)
	}

	addr := ":" + config.AppConfig.ServerPort
	log.Printf("SAVR server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server failed:", err)
	}
}
