package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/qianlnk/partygames/services"
)

var (
	config           services.Config
	deductionService *services.DeductionService
	rpgService       *services.RPGService
	villageService   *services.VillageService
)

func init() {
	// 设置日志格式，包含文件名和行号
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	config = services.LoadConfig()

	store := services.NewMemoryStore()
	generator := services.NewHTTPGenerator(config.GeneratorURL, config.GeneratorTimeout)

	deductionService = services.NewDeductionService(store, generator, config)
	rpgService = services.NewRPGService(store, generator, config)
	villageService = services.NewVillageService(store, config)

	log.Printf("初始化完成: 存储和游戏服务已配置")
}

func setupRouter() *gin.Engine {
	r := gin.Default()

	// 设置跨域中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// API路由组
	api := r.Group("/api")
	{
		// 推理游戏
		api.POST("/game/deduction/create", createDeductionGame)
		api.GET("/game/deduction/:id", getDeductionGame)
		api.POST("/game/deduction/join", joinDeductionGame)
		api.DELETE("/game/deduction/:id", deleteDeductionGame)

		// RPG游戏
		api.POST("/game/rpg/create", createRPGGame)
		api.GET("/game/rpg/:id", getRPGGame)
		api.POST("/game/rpg/start", startRPGGame)
		api.DELETE("/game/rpg/:id", deleteRPGGame)

		// 村庄模拟
		api.POST("/game/village/create", createVillage)
		api.GET("/game/village/:id", getVillage)
		api.PUT("/game/village/:id", updateVillage)
		api.DELETE("/game/village/:id", deleteVillage)
	}

	return r
}

func main() {
	r := setupRouter()

	log.Printf("服务器启动在 %s", config.ListenAddr)
	if err := r.Run(config.ListenAddr); err != nil {
		log.Fatal("服务器启动失败:", err)
	}
}
