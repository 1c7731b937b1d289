package controller

import (
	"walrus-extend/conf"
	"walrus-extend/controller/handler"
	"walrus-extend/controller/respond"
	extendDocs "walrus-extend/docs/extend"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupExtendRouter setup extend service router
func SetupExtendRouter(svc handler.Services) *gin.Engine {
	// Set Swagger host from config
	if conf.Cfg != nil {
		extendDocs.SwaggerInfoextend.Host = conf.Cfg.SwaggerBaseUrl
	}

	// Create Gin engine
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Add timing middleware
	r.Use(respond.TimingMiddleware())

	h := handler.NewExtendHandler(svc)

	// API v1 route group
	v1 := r.Group("/api/v1")
	{
		network := v1.Group("/network")
		{
			network.GET("", h.GetNetwork)
			network.POST("/switch", h.SwitchNetwork)
			network.GET("/status", h.GetNetworkStatus)
			network.GET("/gas-price", h.GetGasPrice)
			network.GET("/protocol-config", h.GetProtocolConfig)
		}

		blobs := v1.Group("/blobs")
		{
			// Search: content classification plus funding status
			blobs.GET("/:blobId", h.GetBlob)
			blobs.GET("/:blobId/network-info", h.GetBlobNetworkInfo)
			blobs.GET("/:blobId/content", h.GetBlobContent)
			blobs.GET("/:blobId/view", h.GetBlobView)
			blobs.DELETE("/:blobId/cache", h.ForgetBlob)
		}
		v1.POST("/classify", h.Classify)

		wallet := v1.Group("/wallet")
		{
			wallet.GET("", h.GetWallet)
			wallet.POST("/connect", h.ConnectWallet)
			wallet.POST("/disconnect", h.DisconnectWallet)
			wallet.GET("/balance", h.GetWalBalance)
		}

		tips := v1.Group("/tips")
		{
			tips.POST("", h.SendTip)
			tips.GET("/blob/:blobId", h.ListTipsByBlob)
			tips.GET("/sender/:address", h.ListTipsBySender)
		}

		v1.GET("/preferences", h.GetPreferences)
		v1.PUT("/preferences", h.UpdatePreferences)

		v1.GET("/dialog", h.GetDialog)
		v1.POST("/dialog/close", h.CloseDialog)

		// Hooks for collaborators that changed on-chain state themselves
		v1.POST("/cache/invalidate", h.InvalidateCache)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "extend",
			"network": svc.Provider.Current(),
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName("extend")))

	return r
}
