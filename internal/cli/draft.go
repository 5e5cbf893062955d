package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zcashme/promotebot/internal/archive"
	"github.com/zcashme/promotebot/internal/llm"
	"github.com/zcashme/promotebot/internal/model"
	"github.com/zcashme/promotebot/internal/pipeline"
	"github.com/zcashme/promotebot/internal/source"
)

var (
	outDir       string
	outJSON      string
	outMD        string
	nowOverride  string
	draftTimeout time.Duration
	linkWorkers  int
	noArchive    bool
	noFooter     bool
	llmEnabled   bool
	llmModel     string
)

// draftCmd represents the draft command
var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate the daily draft pair from the last 24h of activity",
	Long: `Draft runs one aggregation pass:
- Fetch new members and new verifications from the data source (24h window)
- Resolve each member's X/Twitter handle from their profile links
- Compose the two announcement tweets
- Write the deterministic JSON + Markdown artifact pair

The run is all-or-nothing: a data source failure writes no artifacts.

Example:
  promotebot draft
  promotebot draft --out-dir ./drafts --now 2025-06-02T08:00:00Z
  promotebot draft --llm --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runDraft,
}

func init() {
	rootCmd.AddCommand(draftCmd)

	// Output flags
	draftCmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (default: drafts)")
	draftCmd.Flags().StringVar(&outJSON, "json", "", "JSON output path (overrides --out-dir)")
	draftCmd.Flags().StringVar(&outMD, "md", "", "Markdown output path (overrides --out-dir)")
	draftCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in the Markdown report")

	// Run flags
	draftCmd.Flags().StringVar(&nowOverride, "now", "", "override the run timestamp (RFC3339) for reproducible output")
	draftCmd.Flags().DurationVar(&draftTimeout, "timeout", 2*time.Minute, "overall run timeout")
	draftCmd.Flags().IntVar(&linkWorkers, "workers", 0, "concurrent link lookups (default from config)")
	draftCmd.Flags().BoolVar(&noArchive, "no-archive", false, "skip recording the run in the local archive")

	// LLM flags
	draftCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate advisory alternative tweet copy")
	draftCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runDraft(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), draftTimeout)
	defer cancel()

	cfg := loadConfig()
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if linkWorkers > 0 {
		cfg.Concurrency.LinkWorkers = linkWorkers
	}
	if noArchive {
		cfg.Archive.Enabled = false
	}
	cfg.Output.IncludeFooter = !noFooter

	// Config errors are fatal before any network call
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := source.NewClient(cfg.Source)
	if err != nil {
		return fmt.Errorf("create source client: %w", err)
	}

	p := pipeline.New(cfg, src)
	if nowOverride != "" {
		at, err := time.Parse(time.RFC3339, nowOverride)
		if err != nil {
			return fmt.Errorf("parse --now: %w", err)
		}
		p.SetNow(func() time.Time { return at })
	}

	rep, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("draft failed: %w", err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	jsonPath := outJSON
	if jsonPath == "" {
		jsonPath = filepath.Join(cfg.Output.Dir, cfg.Output.JSONName)
	}
	mdPath := outMD
	if mdPath == "" {
		mdPath = filepath.Join(cfg.Output.Dir, cfg.Output.MarkdownName)
	}

	if err := p.Render(rep, jsonPath, mdPath); err != nil {
		return err
	}

	fmt.Printf("Generated %s\n", jsonPath)
	fmt.Printf("Generated %s\n", mdPath)

	// The archive is supplemental; a failure here must not undo a run
	// whose artifacts are already on disk.
	if cfg.Archive.Enabled {
		if err := recordRun(ctx, cfg.Archive.Path, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to archive run: %v\n", err)
		}
	}

	if llmEnabled {
		if err := writeSuggestions(ctx, cfg, rep, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM suggestions failed: %v\n", err)
		}
	}

	return nil
}

func recordRun(ctx context.Context, path string, rep *model.Report) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return a.Record(ctx, rep)
}

func writeSuggestions(ctx context.Context, cfg *model.Config, rep *model.Report, mdPath string) error {
	cfg.LLM.Enabled = true
	cfg.LLM.Model = llmModel
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	suggester, err := llm.NewSuggester(cfg.LLM)
	if err != nil {
		return err
	}

	doc, err := suggester.Generate(ctx, rep)
	if err != nil {
		return err
	}

	llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
	if err := os.WriteFile(llmPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", llmPath, err)
	}

	fmt.Printf("Generated %s\n", llmPath)
	return nil
}
