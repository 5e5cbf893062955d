package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zcashme/promotebot/internal/archive"
	"github.com/zcashme/promotebot/internal/report"
)

var (
	historyLimit int
	historyShow  int64
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived draft runs",
	Long: `History queries the local run archive written by 'promotebot draft'.

Example:
  promotebot history
  promotebot history --limit 30
  promotebot history --show 12`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of runs to list")
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "print the full structured record of one run by id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	a, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()

	if historyShow > 0 {
		rep, err := a.Payload(ctx, historyShow)
		if err != nil {
			return err
		}
		return report.NewRenderer(true).WriteJSON(rep, os.Stdout)
	}

	runs, err := a.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Printf("%-5s %-20s %-6s %-9s %s\n", "ID", "TIMESTAMP", "USERS", "VERIFIED", "RECORDED")
	for _, r := range runs {
		fmt.Printf("%-5d %-20s %-6d %-9d %s\n", r.ID, r.TimestampUTC, r.UserCount, r.VerifiedCount, r.RecordedAt)
	}
	return nil
}
