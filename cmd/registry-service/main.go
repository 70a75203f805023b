// cmd/registry-service/main.go
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"giftregistry/internal/pkg/bootstrap"
	"giftregistry/internal/pkg/httpclient"
	"giftregistry/internal/pkg/mq"
	"giftregistry/internal/service/registry/application"
	"giftregistry/internal/service/registry/domain/port"
	"giftregistry/internal/service/registry/infrastructure"
	"giftregistry/internal/service/registry/infrastructure/adapter"
	"giftregistry/internal/service/registry/interfaces"
)

const serviceName = "registry-service"

// main 函数是应用的"组装根" (Composition Root)
// 负责创建并组装所有依赖项，然后交给 bootstrap 启动。
func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	var closers []func() error

	err = bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: cfg.ServiceName,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			httpClient := httpclient.NewClient(appCtx.Tracer, cfg.HTTPTimeout)

			// 1. 构建存储降级链 (优先级从高到低)，本地文件永远是最后一层
			var backends []port.StorageBackend
			if cfg.CommitRelay.Enabled() {
				backends = append(backends, adapter.NewCommitRelayHTTPAdapter(httpClient, cfg.CommitRelay.URL, cfg.CommitRelay.Secret, cfg.GitHub.Path))
			}
			if cfg.GitHub.Enabled() {
				gh, err := adapter.NewGitHubContentsAdapter(httpClient.HTTPClient, appCtx.Tracer, adapter.GitHubRepo{
					Owner:  cfg.GitHub.Owner,
					Name:   cfg.GitHub.Repo,
					Branch: cfg.GitHub.Branch,
					Path:   cfg.GitHub.Path,
					Token:  cfg.GitHub.Token,
					APIURL: cfg.GitHub.APIURL,
				})
				if err != nil {
					return err
				}
				backends = append(backends, gh)
			}
			backends = append(backends, adapter.NewLocalFileAdapter(cfg.ItemsPath))
			repo := infrastructure.NewFallbackItemRepository(appCtx.Tracer, backends...)
			log.Info().Strs("backends", repo.Backends()).Msg("Storage chain assembled.")

			// 2. 预订 webhook；未配置时保持 nil 接口，表示不做校验
			var relay port.ReservationRelay
			if cfg.Webhook.Enabled() {
				relay = adapter.NewWebhookHTTPAdapter(httpClient, cfg.Webhook.URL)
			}

			// 3. ✨ 预订事件 (可选, best effort)
			var events port.ReservationEventPublisher
			if len(cfg.Infra.Kafka.Brokers) > 0 {
				writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topic)
				publisher := adapter.NewReservationKafkaAdapter(writer)
				closers = append(closers, publisher.Close)
				events = publisher
			}

			service := application.NewRegistryApplicationService(repo, relay, events, appCtx.Tracer)
			interfaces.NewRegistryHandler(service, cfg.StaticDir).RegisterRoutes(appCtx.Mux)
			return nil
		},
		OnShutdown: func(ctx context.Context) {
			for _, closeFn := range closers {
				if err := closeFn(); err != nil {
					log.Error().Err(err).Msg("Error closing resource.")
				}
			}
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
}
