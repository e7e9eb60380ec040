package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flashlearn/internal/extract"
	"github.com/ziadkadry99/flashlearn/internal/logger"
	"github.com/ziadkadry99/flashlearn/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FlashLearn HTTP API",
	Long:  `Starts the REST API for document ingestion, subject materials and question answering, plus a websocket endpoint for interactive Q&A.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		a, err := openApp(cfg, true)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowAll:       cfg.AllowAllOrigins,
			RequestTimeout: cfg.EmbedTimeout + 2*cfg.GenerateTimeout,
		}, a.svc, extract.New())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info(context.Background(), "shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "flashlearn %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Data dir: %s (ledger %s)\n", dataDirLabel(cfg.DataDir), a.db.Path())
		fmt.Fprintf(os.Stderr, "  Model: %s/%s, embeddings: %s/%s\n", cfg.Provider, cfg.Model, cfg.EmbeddingProvider, cfg.EmbeddingModel)
		fmt.Fprintf(os.Stderr, "  Passages indexed: %d\n", a.index.Total())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func dataDirLabel(dir string) string {
	if dir == "" {
		return "(in memory)"
	}
	return dir
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
