package app

import (
	"errors"

	"github.com/gobox-app/internal/broker/kafka"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/provider"
	"github.com/gobox-app/internal/router"
	"github.com/gobox-app/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// HTTP 服务
	if servesAPI(mode) {
		services = append(services, NewHTTPService(cfg.Server, router.SetupRouter(cfg, container)))
	}

	if servesWorker(mode) {
		// 转发任务与补偿扫描
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container.DispatchService)
			workerService, err := worker.NewService(&cfg.Queue, consumer, container.DispatchService, container.TaskQueue())
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			services = append(services, workerService)
		}

		// 调度状态回推
		if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.StatusTopic != "" {
			statusConsumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.StatusTopic, cfg.Kafka.ConsumerGroup)
			services = append(services, NewStatusConsumerService(statusConsumer, container.DispatchService.ApplyStatusUpdate))
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start", "host", opts.Config.Server.Host, "port", opts.Config.Server.Port, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
