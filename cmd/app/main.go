package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gomodule/redigo/redis"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"shortlink-accounts/internal/handler"
	"shortlink-accounts/internal/i18n"
	"shortlink-accounts/internal/middleware"
	"shortlink-accounts/internal/repository"
	"shortlink-accounts/internal/service"
	"shortlink-accounts/internal/session"
	"shortlink-accounts/internal/store"
	"shortlink-accounts/pkg/logging"
)

func initConfig() {
	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s/config.yaml", wd)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

func startServer(r *gin.Engine, redisPool *redis.Pool) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := redisPool.Close(); err != nil {
		logging.Logger.Warn("Redis pool close failed", zap.Error(err))
	}

	logging.Logger.Info("Server exiting")
}

func main() {

	initConfig()
	// 初始化日志系统
	logging.InitLoggerFromConfig()

	logging.Logger.Info("Application started")

	db := repository.InitDB(logging.Logger, logging.AtomicLevel)
	redisPool := repository.InitRedis(logging.Logger)

	// 初始化 i18n（加载 TOML 文件）
	bundle, err := i18n.InitI18n([]string{
		"./i18n/en.toml",
		"./i18n/zh.toml",
	}, "en")
	if err != nil {
		panic(err)
	}

	// 显式构造并注入各存储实例，不使用包级单例
	linkStore := store.NewGormLinkStore(db)
	userStore := store.NewGormUserStore(db)
	statStore := store.NewGormStatStore(db)

	cookieName := viper.GetString("session.cookie_name")
	if cookieName == "" {
		cookieName = "session"
	}
	sessionTTL := viper.GetDuration("session.ttl")
	if sessionTTL <= 0 {
		sessionTTL = 8 * time.Hour
	}
	sessions := session.NewManager(redisPool, cookieName, sessionTTL)

	statsService := service.NewStatsService(redisPool, statStore)
	linkService := service.NewLinkService(linkStore, userStore, statStore, statsService)
	userService := service.NewUserService(userStore)

	userHandler := handler.NewUserHandler(userService, sessions)
	linkHandler := handler.NewLinkHandler(linkService)

	r := gin.New()
	r.Use(gin.Recovery()) // 显式添加 Recovery 中间件

	// 注册全局错误中间件
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	// 使用 i18n 中间件
	r.Use(middleware.I18nMiddleware(bundle))
	// 每个请求加载会话
	r.Use(middleware.SessionMiddleware(sessions))

	api := r.Group("/api")
	{
		api.POST("/users", userHandler.Register)
		api.POST("/login", userHandler.Login)

		api.POST("/links", linkHandler.Create)
		api.GET("/links/:linkId/stats", linkHandler.Stats)

		api.GET("/users/:targetUserId/links", linkHandler.List)
		api.DELETE("/users/:targetUserId/links/:targetLinkId", linkHandler.Delete)
	}

	// 短链跳转走 NoRoute，根路径通配符会与 /api 路由组冲突
	r.NoRoute(linkHandler.Redirect)

	c := cron.New()

	// 添加定时任务：每十分钟把 Redis 中的访问计数同步到数据库
	_, addErr := c.AddFunc("*/10 * * * *", func() {
		if err := statsService.FlushDailyVisits(context.Background()); err != nil {
			logging.Logger.Error("Failed to flush daily visit stats via cron job", zap.Error(err))
		}
	})

	if addErr != nil {
		logging.Logger.Fatal("Failed to schedule cron job", zap.Error(addErr))
	}

	c.Start()

	startServer(r, redisPool)
}
