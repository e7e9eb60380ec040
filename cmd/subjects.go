package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Inspect ingested subjects",
}

var subjectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all subjects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := openApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		subjects, err := a.svc.Subjects(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{"subjects": subjects})
		}
		if len(subjects) == 0 {
			fmt.Println("No subjects yet. Run `flashlearn ingest <subject> <file>` first.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SUBJECT\tQUIZ\tFLASHCARDS\tUPDATED")
		for _, s := range subjects {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Name, len(s.Quiz), len(s.Flashcards), s.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var subjectsShowCmd = &cobra.Command{
	Use:   "show <subject>",
	Short: "Show a subject's summary, quiz, flashcards and ingestion history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := openApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.svc.Subject(ctx, args[0])
		if apperr.IsKind(err, apperr.KindSubjectNotFound) {
			return fmt.Errorf("%s (run 'flashlearn subjects list' to see ingested subjects)", apperr.PublicMessage(err))
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entry)
		}

		printSubjectSummary(entry, a.index.Count(ctx, entry.Name))

		fmt.Println("\nQuiz:")
		for i, q := range entry.Quiz {
			fmt.Printf("  %d. %s\n", i+1, q.Question)
			for j, opt := range q.Options {
				marker := " "
				if opt == q.Answer {
					marker = "*"
				}
				fmt.Printf("     %s %c) %s\n", marker, 'a'+j, opt)
			}
		}

		fmt.Println("\nFlashcards:")
		for _, f := range entry.Flashcards {
			fmt.Printf("  %s: %s\n", f.Term, f.Definition)
		}

		history, err := a.svc.History(ctx, entry.Name, 5)
		if err != nil {
			return err
		}
		if len(history) > 0 {
			fmt.Println("\nRecent ingestions:")
			for _, h := range history {
				line := fmt.Sprintf("  %s  %-9s  %d words, %d passages, $%.4f",
					h.StartedAt.Local().Format(time.DateTime), h.Status, h.Words, h.Passages, h.CostUSD)
				if h.ErrorKind != "" {
					line += "  (" + h.ErrorKind + ")"
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	subjectsListCmd.Flags().Bool("json", false, "output as JSON")
	subjectsShowCmd.Flags().Bool("json", false, "output as JSON")
	subjectsCmd.AddCommand(subjectsListCmd, subjectsShowCmd)
	rootCmd.AddCommand(subjectsCmd)
}
