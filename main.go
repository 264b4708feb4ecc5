package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/payment"
	"storefront/internal/store"
)

func main() {
	config.Load()
	if err := config.AppEnv.Validate(); err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureIndexes(db); err != nil {
		log.Printf("index warning: %v", err)
	}

	carts := store.NewCartStore(db)
	orders := store.NewOrderStore(db, config.AppEnv.OrderNumberPrefix)
	profiles := store.NewProfileStore(db)
	catalog := store.NewCatalogStore(db)

	provider := auth.NewProvider(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	)
	authService := auth.NewService(provider, profiles)

	payments := payment.NewInitiator(
		payment.NewRazorpayGateway(config.AppEnv.RazorpayKeyID, config.AppEnv.RazorpayKeySecret),
		config.AppEnv.RazorpayKeyID,
	)

	r := gin.Default()

	r.GET("/health", handlers.Health(db))

	r.POST("/auth/signup", handlers.SignUp(authService))
	r.POST("/auth/signin", handlers.SignIn(authService))
	r.POST("/auth/signout", handlers.SignOut(authService))
	r.POST("/auth/refresh", handlers.Refresh(authService))

	r.GET("/products", handlers.GetProducts(catalog))
	r.GET("/products/:id", handlers.GetProduct(catalog))
	r.GET("/categories", handlers.GetCategories(catalog))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/auth/me", handlers.GetMe(authService))

		user.GET("/profile", handlers.GetProfile(authService))
		user.GET("/profile/addresses", handlers.GetAddresses(profiles))
		user.POST("/profile/addresses", handlers.CreateAddress(profiles))
		user.PUT("/profile/addresses/:id", handlers.UpdateAddress(profiles))
		user.DELETE("/profile/addresses/:id", handlers.DeleteAddress(profiles))

		user.GET("/cart", handlers.GetCart(carts))
		user.DELETE("/cart", handlers.ClearCart(carts))
		user.POST("/cart/items", handlers.AddCartItem(carts, catalog))
		user.PUT("/cart/items/:id", handlers.UpdateCartItem(carts))
		user.DELETE("/cart/items/:id", handlers.RemoveCartItem(carts))

		user.POST("/orders", handlers.Checkout(carts, orders, profiles, payments))
		user.GET("/orders", handlers.GetOrders(orders))
		user.GET("/orders/:id", handlers.GetOrder(orders))

		user.POST("/api/razorpay/create-order", handlers.CreateRazorpayOrder(payments))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
