package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/memo-cli/internal/ingest"
)

var (
	ingestDir        string
	ingestCollection string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest source documents into the vector knowledge base",
	Long:  "Walks a directory of .txt, .md and .html documents, chunks and embeds them, and upserts the chunks into the Qdrant collection used for memo retrieval.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initMemoEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		dir := ingestDir
		if dir == "" {
			dir = cfg.Ingest.SourceDir
		}
		collection := ingestCollection
		if collection == "" {
			collection = cfg.Qdrant.Collection
		}

		in := ingest.NewIngester(env.Embedder, env.Qdrant, env.Store, collection)
		result, err := in.Run(ctx, dir)
		if err != nil {
			return err
		}

		for _, path := range result.SkippedFiles {
			zap.L().Warn("file skipped", zap.String("path", path))
		}
		cmd.Printf("Ingested %d files (%d chunks) into %s\n", result.Files, result.Chunks, collection)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "source document directory (default from config)")
	ingestCmd.Flags().StringVarP(&ingestCollection, "collection", "c", "", "target collection (default from config)")
	rootCmd.AddCommand(ingestCmd)
}
