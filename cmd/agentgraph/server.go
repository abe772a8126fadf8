package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/caldera-labs/agentgraph/api/handlers"
	"github.com/caldera-labs/agentgraph/config"
	"github.com/caldera-labs/agentgraph/internal/cache"
	"github.com/caldera-labs/agentgraph/internal/metrics"
	"github.com/caldera-labs/agentgraph/internal/server"
	"github.com/caldera-labs/agentgraph/llm"
	"github.com/caldera-labs/agentgraph/store"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 AgentGraph 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager

	// 依赖组件
	store        store.Store
	cacheManager *cache.Manager // 可为 nil
	backend      llm.Backend

	// Handlers
	healthHandler    *handlers.HealthHandler
	workflowHandler  *handlers.WorkflowHandler
	executionHandler *handlers.ExecutionHandler
	modelsHandler    *handlers.ModelsHandler

	// 指标收集器
	metricsCollector *metrics.Collector

	// Rate limiter 生命周期管理
	rateLimiterCancel context.CancelFunc
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("agentgraph", s.logger)

	// 2. 初始化依赖组件
	if err := s.initComponents(); err != nil {
		return fmt.Errorf("failed to init components: %w", err)
	}

	// 3. 初始化 Handlers
	s.initHandlers()

	// 4. 启动 HTTP 服务器
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// 5. 启动 Metrics 服务器
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.String("store_type", s.cfg.Store.Type),
		zap.Bool("cache_enabled", s.cfg.Cache.Enabled),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initComponents 初始化存储、缓存与 LLM 后端
func (s *Server) initComponents() error {
	// 定义存储
	st, err := store.New(store.Config{
		Type:       store.StoreType(s.cfg.Store.Type),
		SQLitePath: s.cfg.Store.SQLitePath,
		Mongo: store.MongoConfig{
			URI:      s.cfg.Store.MongoURI,
			Database: s.cfg.Store.MongoDatabase,
		},
	}, s.logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	s.store = st

	// 工作流定义缓存（可选）
	if s.cfg.Cache.Enabled {
		mgr, err := cache.NewManager(cache.Config{
			Addr:       s.cfg.Cache.Addr,
			Password:   s.cfg.Cache.Password,
			DB:         s.cfg.Cache.DB,
			DefaultTTL: s.cfg.Cache.DefaultTTL,
			KeyPrefix:  s.cfg.Cache.KeyPrefix,
		}, s.logger)
		if err != nil {
			s.logger.Warn("Cache not available, running without workflow cache", zap.Error(err))
		} else {
			s.cacheManager = mgr
		}
	}

	// LLM 后端
	s.backend = llm.NewClient(llm.Config{
		Host:    s.cfg.Ollama.Host,
		Timeout: s.cfg.Ollama.Timeout,
	}, s.logger).WithMetrics(s.metricsCollector)

	return nil
}

// initHandlers 初始化所有 handlers
func (s *Server) initHandlers() {
	s.healthHandler = handlers.NewHealthHandler(Version, s.logger)
	s.healthHandler.RegisterCheck(handlers.NewPingCheck("store", s.store.Ping))
	if s.cacheManager != nil {
		s.healthHandler.RegisterCheck(handlers.NewPingCheck("cache", s.cacheManager.Ping))
	}

	s.workflowHandler = handlers.NewWorkflowHandler(s.store, s.cacheManager, s.logger)
	s.executionHandler = handlers.NewExecutionHandler(s.store, s.cacheManager, s.metricsCollector, s.backend, s.logger)
	s.modelsHandler = handlers.NewModelsHandler(s.backend, s.cfg.Ollama.Models, s.logger)

	s.logger.Info("Handlers initialized")
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// startHTTPServer 启动 HTTP 服务器
func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	// ========================================
	// 服务信息与健康检查端点
	// ========================================
	mux.HandleFunc("GET /api/{$}", s.healthHandler.HandleRoot)
	mux.HandleFunc("GET /api/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /api/ready", s.healthHandler.HandleReady)

	// ========================================
	// 工作流 API 路由
	// ========================================
	mux.HandleFunc("POST /api/workflows", s.workflowHandler.HandleCreate)
	mux.HandleFunc("GET /api/workflows", s.workflowHandler.HandleList)
	mux.HandleFunc("GET /api/workflows/{id}", s.workflowHandler.HandleGet)
	mux.HandleFunc("DELETE /api/workflows/{id}", s.workflowHandler.HandleDelete)

	// ========================================
	// 执行 API 路由
	// ========================================
	mux.HandleFunc("POST /api/workflows/execute", s.executionHandler.HandleExecute)
	mux.HandleFunc("GET /api/executions/{id}", s.executionHandler.HandleGet)
	mux.HandleFunc("GET /api/executions/workflow/{id}", s.executionHandler.HandleListByWorkflow)

	// ========================================
	// 模型清单
	// ========================================
	mux.HandleFunc("GET /api/models", s.modelsHandler.HandleList)

	// ========================================
	// 构建中间件链
	// ========================================
	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel

	middlewares := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
		CORS(s.cfg.Server.CORSAllowedOrigins),
	}
	if s.cfg.RateLimit.Enabled {
		middlewares = append(middlewares,
			RateLimiter(rateLimiterCtx, s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst, s.logger))
	}
	handler := Chain(mux, middlewares...)

	// ========================================
	// 使用 internal/server.Manager
	// ========================================
	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}

	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	// 1. 停止 rate limiter 清理 goroutine
	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	// 2. 并行关闭 HTTP 与 Metrics 服务器
	var g errgroup.Group
	if s.httpManager != nil {
		g.Go(func() error { return s.httpManager.Shutdown(ctx) })
	}
	if s.metricsManager != nil {
		g.Go(func() error { return s.metricsManager.Shutdown(ctx) })
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Server shutdown error", zap.Error(err))
	}

	// 3. 关闭缓存与存储
	if s.cacheManager != nil {
		if err := s.cacheManager.Close(); err != nil {
			s.logger.Error("Cache shutdown error", zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Store shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("Graceful shutdown completed")
}
