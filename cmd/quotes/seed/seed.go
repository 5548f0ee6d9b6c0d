// Package seedcmder provides the seed command loading precomputed quote
// embeddings into the vector store.
package seedcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/UladRH/quotes-assignment-task/pkg/config"
	"github.com/UladRH/quotes-assignment-task/pkg/logger"
	"github.com/UladRH/quotes-assignment-task/pkg/similar"
	"github.com/UladRH/quotes-assignment-task/pkg/similar/sqlitevec"
)

const seedLongDesc string = `Load precomputed quote embeddings into the vector store.

The embeddings file is a JSON array of objects:
  [{"quoteId": "363", "embedding": [0.12, -0.8, ...]}, ...]

Examples:
  quotes seed --embeddings ./embeddings.json
  quotes seed --embeddings ./embeddings.json --vector-sqlite ./embeddings.db`

const seedShortDesc string = "Load quote embeddings"

type seedCommander struct {
	embeddingsPath string
	debug          bool
}

// embeddingRecord is the on-disk form of one quote's vector.
type embeddingRecord struct {
	QuoteID   string    `json:"quoteId"`
	Embedding []float32 `json:"embedding"`
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
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

			if err := v.BindPFlag("vector.sqlite_path", cmd.Flags().Lookup("vector-sqlite")); err != nil {
				return fmt.Errorf("binding vector-sqlite flag: %w", err)
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			return cmder.run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cmder.embeddingsPath, "embeddings", "e", "", "Path to the embeddings JSON file (required)")
	cmd.Flags().String("vector-sqlite", "", "Path to the embeddings SQLite database")
	cmd.MarkFlagRequired("embeddings")

	return cmd
}

func (c *seedCommander) run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(c.debug)
	defer log.Sync()

	raw, err := os.ReadFile(c.embeddingsPath)
	if err != nil {
		return fmt.Errorf("reading embeddings file: %w", err)
	}

	var records []embeddingRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("parsing embeddings file: %w", err)
	}

	embeddings := make([]similar.Embedding, 0, len(records))
	for _, r := range records {
		if r.QuoteID == "" || len(r.Embedding) == 0 {
			return fmt.Errorf("embedding record missing quoteId or embedding")
		}
		embeddings = append(embeddings, similar.Embedding{
			QuoteID: r.QuoteID,
			Vector:  r.Embedding,
		})
	}

	driver, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
		DBPath:     cfg.Vector.SQLitePath,
		Dimensions: cfg.Vector.Dimensions,
	}, log)
	if err != nil {
		return fmt.Errorf("creating similar driver: %w", err)
	}
	defer driver.Close()

	if err := driver.Add(ctx, embeddings); err != nil {
		return fmt.Errorf("storing embeddings: %w", err)
	}

	fmt.Printf("Loaded %d embeddings into %s\n", len(embeddings), cfg.Vector.SQLitePath)
	return nil
}
