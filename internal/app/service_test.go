package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gobox-app/internal/config"
)

// orderLog 记录各服务的停止顺序
type orderLog struct {
	mu    sync.Mutex
	stops []string
}

func (l *orderLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stops = append(l.stops, name)
}

func (l *orderLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.stops...)
}

// blockingService 阻塞到 ctx 结束；startErr 非 nil 时立即失败
type blockingService struct {
	name     string
	startErr error
	log      *orderLog
}

func (s *blockingService) Name() string { return s.name }

func (s *blockingService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *blockingService) Stop(context.Context) error {
	s.log.add(s.name)
	return nil
}

func TestRunnerStopsServicesInReverseOrderOnCancel(t *testing.T) {
	log := &orderLog{}
	runner := NewRunner(
		&blockingService{name: "http", log: log},
		&blockingService{name: "worker", log: log},
		&blockingService{name: "status-consumer", log: log},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx, time.Second, nil) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancel should be a clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not exit")
	}
	got := log.snapshot()
	want := []string{"status-consumer", "worker", "http"}
	if len(got) != len(want) {
		t.Fatalf("stops got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stops got %v want %v", got, want)
		}
	}
}

func TestRunnerReturnsFailingServiceError(t *testing.T) {
	log := &orderLog{}
	boom := errors.New("listen failed")
	runner := NewRunner(
		&blockingService{name: "http", startErr: boom, log: log},
		&blockingService{name: "worker", log: log},
	)

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if len(log.snapshot()) != 2 {
		t.Fatalf("every service should be stopped, got %v", log.snapshot())
	}
}

func TestRunnerRejectsNilService(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil service should be rejected")
	}
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should be rejected")
	}
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]string{"": ModeAll, "API": ModeAPI, " worker ": ModeWorker} {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestHTTPServiceStopEndsOpenRequests(t *testing.T) {
	entered := make(chan struct{})
	released := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
		close(released)
	})
	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "0"}, handler)

	go func() { _ = svc.Start(context.Background()) }()
	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatalf("http service did not listen")
		}
		time.Sleep(5 * time.Millisecond)
	}

	go func() {
		resp, err := http.Get("http://" + svc.Addr().String() + "/stream")
		if err == nil {
			_ = resp.Body.Close()
		}
	}()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("request never reached the handler")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Stop(stopCtx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatalf("open request was not cancelled on stop")
	}
}
