package handler

import (
	"digitalwallet/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 注册中间件
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	// 创建处理器
	h := NewHandler(db, rdb, cfg)

	// API 路由组，钱包接口全部要求认证
	api := r.Group("/api/v1")
	{
		wallet := api.Group("/wallet")
		wallet.Use(JWTAuthMiddleware(&cfg.JWT))
		{
			wallet.GET("/balance", h.GetBalance)
			wallet.GET("/transaction/:id", h.GetTransaction)
			wallet.GET("/transfers", h.ListTransfers)
			wallet.GET("/statement", h.GetStatement)

			wallet.POST("/deposit", h.Deposit)
			wallet.POST("/withdraw", h.Withdraw)
			wallet.POST("/transfer", h.Transfer)

			wallet.POST("/chargeback", h.Chargeback)
			wallet.POST("/contest", h.Contest)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
