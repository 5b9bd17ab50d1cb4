package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/logger"
)

// HTTPService 对外 JSON API 与追踪事件流
// 停止时先取消请求的基础 ctx，使长连接的事件流尽快结束，再优雅关闭
type HTTPService struct {
	server     *http.Server
	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu   sync.Mutex
	addr net.Addr
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &HTTPService{baseCtx: baseCtx, cancelBase: cancel}
	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}
	return s
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Addr 实际监听地址，Start 之前为 nil
func (s *HTTPService) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start 监听并阻塞提供服务
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.mu.Lock()
	s.addr = listener.Addr()
	s.mu.Unlock()
	logger.Infow("http_listening", "addr", listener.Addr().String())

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 结束事件流并关闭服务
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.cancelBase()
	return s.server.Shutdown(ctx)
}
