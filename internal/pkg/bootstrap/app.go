// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"giftregistry/internal/pkg/logger"
	"giftregistry/internal/pkg/nacos"
	"giftregistry/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

type AppCtx struct {
	Mux    *http.ServeMux
	Config *Config
	Tracer trace.Tracer
}

// AppInfo is everything a service contributes to the shared startup path.
type AppInfo struct {
	ServiceName      string
	Config           *Config
	RegisterHandlers func(appCtx AppCtx) error
	// OnShutdown runs after the HTTP server has drained.
	OnShutdown func(ctx context.Context)
}

// StartService 封装了服务的通用启动和优雅关停逻辑。
// 收到 SIGINT/SIGTERM 后关停；只在关停完成或启动失败时返回。
func StartService(info AppInfo) error {
	cfg := info.Config
	if cfg == nil {
		return errors.New("bootstrap: nil config")
	}
	logger.Init(info.ServiceName, cfg.LogLevel)

	// 1. 初始化 Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		return errors.Wrap(err, "initialize tracer provider")
	}

	// 2. 注册 HTTP 路由
	mux := http.NewServeMux()
	appCtx := AppCtx{Mux: mux, Config: cfg, Tracer: otel.Tracer(info.ServiceName)}
	if info.RegisterHandlers != nil {
		if err := info.RegisterHandlers(appCtx); err != nil {
			return errors.Wrap(err, "register handlers")
		}
	}

	// 3. (可选) 注册到 Nacos
	var (
		namingClient *nacos.Client
		ip           string
	)
	if cfg.Infra.Nacos.ServerAddrs != "" {
		namingClient, ip, err = registerInstance(info.ServiceName, cfg)
		if err != nil {
			// ⚠️ 注册失败不影响服务本身
			log.Error().Err(err).Msg("Nacos registration failed, continuing without it.")
		}
	}

	if cfg.Webhook.Enabled() {
		log.Info().Str("webhook", cfg.Webhook.URL).Msg("Reservation webhook configured.")
	} else {
		log.Warn().Msg("WEBHOOK_URL not set; guest reservations are committed without notification.")
	}

	// 4. 启动 HTTP Server，阻塞直到收到退出信号
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Int("port", cfg.Port).Msgf("%s listening on :%d", info.ServiceName, cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "listen on %s", server.Addr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msgf("Shutting down service %s...", info.ServiceName)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// a. 先从 Nacos 注销，避免新流量进来
		if namingClient != nil {
			if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, cfg.Port); err != nil {
				log.Error().Err(err).Msg("Error deregistering from Nacos.")
			}
			namingClient.Close()
		}
		// b. 关闭 HTTP 服务器
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down http server.")
		}
		// c. 释放服务自身的资源 (kafka writer 等)
		if info.OnShutdown != nil {
			info.OnShutdown(shutdownCtx)
		}
		// d. 最后关闭 Tracer Provider，确保缓冲的 trace 都被发送出去
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down tracer provider.")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
	return nil
}

func registerInstance(serviceName string, cfg *Config) (*nacos.Client, string, error) {
	client, err := nacos.NewNacosClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
	if err != nil {
		return nil, "", err
	}
	ip, err := getOutboundIP()
	if err != nil {
		client.Close()
		return nil, "", errors.Wrap(err, "get outbound IP address")
	}
	if err := client.RegisterServiceInstance(serviceName, ip, cfg.Port); err != nil {
		client.Close()
		return nil, "", err
	}
	return client, ip, nil
}

// getOutboundIP returns the local address used for outbound traffic. No
// packet is sent; UDP dial only selects a route.
func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
