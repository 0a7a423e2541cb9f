package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/memo-cli/internal/model"
)

var (
	generateIntakeFile string
	generateOutFile    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a market entry memo from an intake profile",
	Long:  "Reads an intake profile JSON file, plans research tasks, generates each memo section against the knowledge base, and writes the assembled memo as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(generateIntakeFile)
		if err != nil {
			return eris.Wrap(err, "read intake file")
		}

		var profile model.IntakeProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return eris.Wrap(err, "parse intake file")
		}
		if profile.CompanyName == "" {
			return eris.New("intake profile is missing companyName")
		}

		env, err := initMemoEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		memo, run, err := env.Engine.Run(ctx, profile)
		if err != nil {
			return eris.Wrap(err, "generate memo")
		}

		zap.L().Info("memo generated",
			zap.String("run_id", run.ID),
			zap.Int("sections", run.SectionsComplete),
		)

		out, err := json.MarshalIndent(memo, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal memo")
		}

		if generateOutFile == "" || generateOutFile == "-" {
			cmd.Println(string(out))
			return nil
		}
		if err := os.WriteFile(generateOutFile, out, 0o644); err != nil {
			return eris.Wrap(err, "write memo file")
		}
		cmd.Printf("Memo written to %s (run %s)\n", generateOutFile, run.ID)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateIntakeFile, "file", "f", "", "intake profile JSON file (required)")
	generateCmd.Flags().StringVarP(&generateOutFile, "out", "o", "-", "output file, or - for stdout")
	_ = generateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(generateCmd)
}
