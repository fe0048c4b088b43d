package fx

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"

	"github.com/amityadav/newsexplorer/internal/browser"
	"github.com/amityadav/newsexplorer/internal/config"
	"github.com/amityadav/newsexplorer/internal/core"
	"github.com/amityadav/newsexplorer/internal/health"
	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/server"
	"github.com/amityadav/newsexplorer/internal/summarizer"
	"github.com/amityadav/newsexplorer/internal/ui"
)

// ServerModule provides gRPC and HTTP servers
var ServerModule = fx.Module("server",
	fx.Provide(NewGRPCServer),
	fx.Invoke(
		StartServers,
		StartMonitor,
		StartWarmup,
	),
)

// NewGRPCServer creates the gRPC server with health and reflection
func NewGRPCServer(hs *grpchealth.Server) *grpc.Server {
	srv := server.NewGRPCServer(hs)
	log.Printf("[FX] gRPC Server created")
	return srv
}

// ServerParams groups dependencies for starting servers
type ServerParams struct {
	fx.In
	Lifecycle  fx.Lifecycle
	GRPCServer *grpc.Server
	Controller *core.Controller
	Presenter  *ui.Presenter
	News       *search.Client
	Summarizer *summarizer.Summarizer
	Opener     *browser.Opener
	Config     config.Config
}

// StartServers starts gRPC and HTTP servers with lifecycle management
func StartServers(p ServerParams) {
	var httpServer *http.Server

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			grpcLis, err := net.Listen("tcp", p.Config.GRPCAddr)
			if err != nil {
				return err
			}
			httpLis, err := net.Listen("tcp", p.Config.HTTPAddr)
			if err != nil {
				grpcLis.Close()
				return err
			}

			go func() {
				log.Printf("[FX] gRPC Server listening on %s", grpcLis.Addr())
				if err := p.GRPCServer.Serve(grpcLis); err != nil {
					log.Printf("[FX] gRPC Server error: %v", err)
				}
			}()

			backend, model := p.Summarizer.Backend()
			uiHandler := server.CreateUIHandler(p.Controller, p.Presenter, server.PageInfo{
				Provider:  p.News.ProviderName(),
				Backend:   backend,
				Model:     model,
				Headlines: p.News.SupportsHeadlines(),
			})
			wrapped := server.CreateGRPCWebWrapper(p.GRPCServer)
			handler := server.CreateRecoveryHandler(server.CreateCORSHandler(server.CreateCombinedHandler(wrapped, uiHandler)))

			// no write timeout: a first summary may wait for a model download
			httpServer = &http.Server{
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				log.Printf("[FX] HTTP Server (UI + gRPC-Web) listening on %s", httpLis.Addr())
				if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()

			if p.Config.OpenBrowser {
				if err := p.Opener.Open("http://" + httpLis.Addr().String() + "/"); err != nil {
					log.Printf("[FX] Could not open browser: %v", err)
				}
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down servers...")
			var err error
			if httpServer != nil {
				err = httpServer.Shutdown(ctx)
			}
			p.GRPCServer.GracefulStop()
			return err
		},
	})
}

// StartMonitor runs the health monitor for the lifetime of the app
func StartMonitor(lc fx.Lifecycle, m *health.Monitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Start()
		},
		OnStop: func(ctx context.Context) error {
			m.Stop()
			return nil
		},
	})
}

// StartWarmup loads the model in the background when SUMMARIZER_WARMUP is set
func StartWarmup(lc fx.Lifecycle, s *summarizer.Summarizer, cfg config.Config) {
	if !cfg.SummarizerWarmup {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := s.Warmup(ctx); err != nil {
					log.Printf("[FX] Summarizer warm-up failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
