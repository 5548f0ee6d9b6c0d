// Package servecmder provides the serve command running the API server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/api"
	"github.com/UladRH/quotes-assignment-task/pkg/catalog/dummyjson"
	"github.com/UladRH/quotes-assignment-task/pkg/config"
	"github.com/UladRH/quotes-assignment-task/pkg/eventstream/nop"
	"github.com/UladRH/quotes-assignment-task/pkg/logger"
	"github.com/UladRH/quotes-assignment-task/pkg/quotes"
	"github.com/UladRH/quotes-assignment-task/pkg/session"
	"github.com/UladRH/quotes-assignment-task/pkg/similar/sqlitevec"
	statssqlite "github.com/UladRH/quotes-assignment-task/pkg/stats/sqlite"
)

const serveLongDesc string = `Run the quotes API server.

Examples:
  quotes serve
  quotes serve --listen :9090
  quotes serve --stats-sqlite ./stats.db --vector-sqlite ./embeddings.db
  QUOTES_CATALOG_BASE_URL=http://localhost:3001 quotes serve`

const serveShortDesc string = "Run the quotes API server"

type ServeCommander struct {
	debug  bool
	logger *zap.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}

			v, err := config.InitViper(configFile)
			if err != nil {
				return err
			}

			for key, flag := range map[string]string{
				"api.listen":          "listen",
				"catalog.base_url":    "catalog-url",
				"storage.sqlite_path": "stats-sqlite",
				"vector.sqlite_path":  "vector-sqlite",
			} {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return fmt.Errorf("binding %s flag: %w", flag, err)
				}
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			return cmder.run(cfg)
		},
	}

	cmd.Flags().StringP("listen", "l", ":8080", "Address for the API server to listen on")
	cmd.Flags().String("catalog-url", dummyjson.DefaultBaseURL, "Upstream quote catalog URL")
	cmd.Flags().StringP("stats-sqlite", "s", "", "Path to the engagement SQLite database")
	cmd.Flags().String("vector-sqlite", "", "Path to the embeddings SQLite database")

	return cmd
}

func (c *ServeCommander) run(cfg *config.Config) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	catalogClient := dummyjson.NewClient(dummyjson.Config{
		BaseURL: cfg.Catalog.BaseURL,
	}, c.logger)

	statsDriver, err := statssqlite.NewSQLiteDriver(statssqlite.Config{
		DBPath:            cfg.Storage.SQLitePath,
		SmoothingAlpha:    cfg.Engine.SmoothingAlpha,
		SmoothingBeta:     cfg.Engine.SmoothingBeta,
		CandidatePoolSize: cfg.Engine.CandidatePoolSize,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating stats driver: %w", err)
	}
	defer statsDriver.Close()

	similarDriver, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
		DBPath:     cfg.Vector.SQLitePath,
		Dimensions: cfg.Vector.Dimensions,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating similar driver: %w", err)
	}
	defer similarDriver.Close()

	publisher := nop.NewPublisher()
	defer publisher.Close()

	service, err := quotes.NewService(&quotes.Options{
		Catalog: catalogClient,
		Stats:   statsDriver,
		Similar: similarDriver,
		Events:  publisher,
		Engine:  cfg.Engine,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating engine service: %w", err)
	}

	tracker := session.NewTracker(cfg.Engine.RecentHistoryLimit)

	apiServer := api.NewServer(api.Config{
		ListenAddr:      cfg.API.Listen,
		CookieSecret:    cfg.Session.CookieSecret,
		SimilarMaxLimit: cfg.Engine.SimilarMaxLimit,
	}, service, tracker, c.logger)

	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
