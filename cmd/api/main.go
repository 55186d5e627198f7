package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	_ "github.com/xiebiao/coursebook/docs"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/pkg/tracing"
	appvalidator "github.com/xiebiao/coursebook/pkg/validator"
)

// @title           Coursebook API
// @version         1.0
// @description     课程教材评价：课程、教材、评价与投票
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
// @description     Bearer {access_token}
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 链路追踪（otelgin中间件与用例层Span共用全局Provider）
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatalf("初始化链路追踪失败: %v", err)
	}

	// 3. 自定义校验规则（isbn、notblank）
	if err := appvalidator.RegisterGin(); err != nil {
		log.Fatalf("注册校验规则失败: %v", err)
	}

	// 4. 依赖注入（wire_gen.go）
	app, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	logger := app.Logger
	defer logger.Sync()

	// 5. 缓存失效消费者：其他实例写入后清理本实例的热门榜缓存
	if cfg.MQ.Enabled {
		invalidator := events.NewCacheInvalidator(app.Cache, logger, app.Metrics)
		go func() {
			if err := events.RunCacheInvalidator(ctx, cfg, invalidator); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("缓存失效消费者退出", "error", err)
			}
		}()
	}

	// 6. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("HTTP服务启动", "addr", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP服务异常退出", "error", err)
			stop()
		}
	}()

	// 7. 优雅关闭
	<-ctx.Done()
	logger.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP服务关闭超时", "error", err)
	}
	cleanup()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("关闭链路追踪失败", "error", err)
	}
	logger.Info("服务已关闭")
}
