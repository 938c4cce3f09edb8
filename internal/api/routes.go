package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/pokemarket/internal/api/handlers"
	"github.com/codyseavey/pokemarket/internal/metrics"
	"github.com/codyseavey/pokemarket/internal/services"
)

// RouterConfig carries the HTTP-facing settings
type RouterConfig struct {
	AllowedOrigins   []string
	FrontendDistPath string
}

func SetupRouter(cfg RouterConfig, store *services.GameStore, marketWorker *services.MarketWorker, snapshotService *services.SnapshotService) *gin.Engine {
	router := gin.Default()
	router.Use(metricsMiddleware())

	serveFrontend := cfg.FrontendDistPath != "" && dirExists(cfg.FrontendDistPath)

	// CORS configuration - allow origins from config or use defaults
	config := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		config.AllowOrigins = cfg.AllowedOrigins
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(store)
	collectionHandler := handlers.NewCollectionHandler(store, snapshotService)
	shopHandler := handlers.NewShopHandler(store)
	auctionHandler := handlers.NewAuctionHandler(store, marketWorker)
	notificationHandler := handlers.NewNotificationHandler(store.Notifier())

	// API routes
	api := router.Group("/api")
	{
		// Player state routes
		game := api.Group("/game")
		{
			game.GET("", gameHandler.GetState)
			game.POST("/free-tokens", gameHandler.ClaimFreeTokens)
			game.POST("/theme", gameHandler.ToggleTheme)
			game.GET("/missions", gameHandler.GetMissions)
			game.GET("/achievements", gameHandler.GetAchievements)
			game.GET("/transactions", gameHandler.GetTransactions)
		}

		// Shop routes
		packs := api.Group("/packs")
		{
			packs.GET("", shopHandler.GetPacks)
			packs.POST("/purchase", shopHandler.PurchasePack)
		}

		// Collection routes
		collection := api.Group("/collection")
		{
			collection.GET("", collectionHandler.GetCollection)
			collection.GET("/stats", collectionHandler.GetStats)
			collection.GET("/value-history", collectionHandler.GetValueHistory)
			collection.POST("/snapshot", collectionHandler.TakeSnapshot)
			collection.POST("/:id/sell", collectionHandler.SellCard)
			collection.POST("/:id/favorite", collectionHandler.ToggleFavorite)
			collection.POST("/:id/deck", collectionHandler.ToggleDeck)
			collection.POST("/:id/evolve", collectionHandler.EvolveCard)
			collection.POST("/:id/auction", auctionHandler.StartAuction)
		}

		// Squad and battle routes
		deck := api.Group("/deck")
		{
			deck.GET("", collectionHandler.GetDeck)
			deck.POST("/battle", gameHandler.Battle)
			deck.POST("/battle-win", gameHandler.RecordBattleWin)
		}

		// Auction house routes
		auctions := api.Group("/auctions")
		{
			auctions.GET("", auctionHandler.GetAuctions)
			auctions.GET("/status", auctionHandler.GetMarketStatus)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.DELETE("/:id", notificationHandler.DismissNotification)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend static files
	if serveFrontend {
		indexPath := filepath.Join(cfg.FrontendDistPath, "index.html")

		// Serve static assets
		router.Static("/assets", filepath.Join(cfg.FrontendDistPath, "assets"))

		// Serve other static files (favicon, etc.)
		router.StaticFile("/vite.svg", filepath.Join(cfg.FrontendDistPath, "vite.svg"))

		// Serve root index.html
		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path

			// Don't serve index.html for API routes
			if strings.HasPrefix(path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}

			// Serve index.html for SPA routing
			c.File(indexPath)
		})
	}

	return router
}

// metricsMiddleware records request counts and latency keyed by the route pattern
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
