// Package app 提供应用程序的初始化和装配：配置、观测、存储、
// 媒体库集合、资产注册表、定时任务与 HTTP 路由.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/jobs"
	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/registry"
	"github.com/yeisme/mediavault/pkg/internal/router"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/middleware"
	"github.com/yeisme/mediavault/pkg/scheduler"
	"github.com/yeisme/mediavault/pkg/tracing"
)

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	library   *library.Library
	registry  *registry.Registry
	scheduler *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()

	if config.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// 媒体库集合与预览注册表：显式构造、全程注入传递
	lib := library.New(engine.Options{ReclusterAll: config.Library.ReclusterAll})

	var backend registry.Backend
	if s3c := manager.GetS3Client(); s3c != nil {
		backend = registry.NewS3Backend(s3c)
	} else {
		backend = registry.NewMemoryBackend()
	}

	reg := registry.New(backend)

	// 定时任务
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error initializing scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, lib, reg, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	sched.Start()

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	e := gin.New()
	e.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(manager),
		middleware.LibraryMiddleware(lib),
		middleware.RegistryMiddleware(reg),
		middleware.SchedulerMiddleware(sched),
	)

	router.Register(e.Group("/api/v1"))

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, e)
	}

	return &App{
		Engine:    e,
		config:    config,
		manager:   manager,
		library:   lib,
		registry:  reg,
		scheduler: sched,
	}
}

// Run 启动 HTTP 服务并阻塞至收到退出信号，随后优雅关停.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Logger().Info().Str("addr", srv.Addr).Msg("mediavault listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), a.config.Server.GetTimeoutDuration())
	defer cancel()

	var errs []error

	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	a.shutdown(ctx, &errs)

	return errors.Join(errs...)
}

// shutdown 释放应用持有的资源，顺序与依赖方向相反.
func (a *App) shutdown(ctx contextPkg.Context, errs *[]error) {
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			*errs = append(*errs, err)
		}
	}

	if a.registry != nil {
		if err := a.registry.Clear(ctx); err != nil {
			*errs = append(*errs, err)
		}
	}

	if a.manager != nil {
		if err := a.manager.Close(); err != nil {
			*errs = append(*errs, err)
		}
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		*errs = append(*errs, err)
	}
}
