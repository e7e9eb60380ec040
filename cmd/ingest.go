package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flashlearn/internal/config"
	"github.com/ziadkadry99/flashlearn/internal/extract"
	"github.com/ziadkadry99/flashlearn/internal/ledger"
	"github.com/ziadkadry99/flashlearn/internal/progress"
	"github.com/ziadkadry99/flashlearn/internal/walker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <subject> [file]",
	Short: "Ingest a document as the subject's study material",
	Long: `Extracts the text of a .txt, .md or .pdf file, indexes it for the subject
and generates a summary, quiz and flashcards. The subject's previous
material is replaced.

With --dir every matching file below the directory is read in path order
and ingested together as one document.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("dir", "", "ingest all matching documents below this directory")
	ingestCmd.Flags().StringSlice("include", nil, "glob patterns to include with --dir (overrides config)")
	ingestCmd.Flags().StringSlice("exclude", nil, "glob patterns to exclude with --dir (overrides config)")
	ingestCmd.Flags().Bool("json", false, "print the stored subject as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()
	subject := args[0]

	dir, _ := cmd.Flags().GetString("dir")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if (dir == "") == (len(args) < 2) {
		return fmt.Errorf("provide exactly one of a file argument or --dir")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var text string
	if dir != "" {
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		text, err = readDirectory(cfg, dir, include, exclude)
	} else {
		text, err = readDocument(args[1])
	}
	if err != nil {
		return err
	}

	a, err := openApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.svc.Ingest(ctx, subject, text)
	if err != nil {
		return fmt.Errorf("ingesting %q: %w", subject, err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	printSubjectSummary(entry, a.index.Count(ctx, entry.Name))
	fmt.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text, err := extract.New().Extract(path, data)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", path, err)
	}
	return text, nil
}

// readDirectory concatenates every matching document below dir. Files whose
// text cannot be extracted are reported and skipped.
func readDirectory(cfg *config.Config, dir string, include, exclude []string) (string, error) {
	if len(include) == 0 {
		include = cfg.Include
	}
	if len(exclude) == 0 {
		exclude = cfg.Exclude
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: dir,
		Include: include,
		Exclude: exclude,
	})
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no documents found in %s matching %s", dir, strings.Join(include, ", "))
	}

	ex := extract.New()
	reporter := progress.NewReporter()
	reporter.Start(len(files), "Reading documents")

	var parts []string
	skipped := 0
	for i, f := range files {
		reporter.Update(i+1, f.RelPath)
		data, err := os.ReadFile(f.Path)
		if err == nil {
			var text string
			if text, err = ex.Extract(f.Path, data); err == nil {
				parts = append(parts, text)
				continue
			}
		}
		skipped++
		if verbose {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", f.RelPath, err)
		}
	}
	reporter.Finish(fmt.Sprintf("Read %d of %d documents", len(parts), len(files)))

	if len(parts) == 0 {
		return "", fmt.Errorf("no text could be extracted from %d documents in %s", skipped, dir)
	}
	return strings.Join(parts, "\n\n"), nil
}

func printSubjectSummary(entry *ledger.Subject, passages int) {
	fmt.Printf("Subject: %s\n", entry.Name)
	fmt.Printf("  Passages indexed: %d\n", passages)
	fmt.Printf("  Quiz questions:   %d\n", len(entry.Quiz))
	fmt.Printf("  Flashcards:       %d\n", len(entry.Flashcards))
	fmt.Printf("  Updated:          %s\n", entry.UpdatedAt.Local().Format(time.RFC1123))
	fmt.Printf("\nSummary:\n%s\n", entry.Summary)
}
