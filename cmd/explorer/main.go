package main

import (
	"log"

	appfx "github.com/amityadav/newsexplorer/internal/fx"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Run blocks until SIGINT/SIGTERM, then OnStop hooks shut the servers down
	app := fx.New(
		appfx.ConfigModule,     // Provides: config.Config
		appfx.SearchModule,     // Provides: *search.Registry, *search.Client
		appfx.ScraperModule,    // Provides: *scraper.Scraper (nil when disabled)
		appfx.SummarizerModule, // Provides: ai.Backend, *summarizer.Summarizer
		appfx.UIModule,         // Provides: *ui.Presenter, *browser.Opener
		appfx.CoreModule,       // Provides: *core.Controller
		appfx.HealthModule,     // Provides: *health.Server, *health.Monitor
		appfx.ServerModule,     // Starts gRPC + HTTP servers, health monitor, optional warm-up

		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	app.Run()
}
