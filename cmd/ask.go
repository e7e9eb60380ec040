package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flashlearn/internal/vectordb"
)

var askCmd = &cobra.Command{
	Use:   "ask <subject> <question>",
	Short: "Answer a question from a subject's documents",
	Long:  `Retrieves the passages of the subject most relevant to the question and asks the model to answer from them.`,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Bool("show-context", false, "print the retrieved passages before the answer")
	askCmd.Flags().Bool("json", false, "output the answer and passages as JSON")
	rootCmd.AddCommand(askCmd)
}

type askResultJSON struct {
	Subject  string           `json:"subject"`
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Passages []askPassageJSON `json:"passages,omitempty"`
}

type askPassageJSON struct {
	ID         string  `json:"id"`
	Similarity float32 `json:"similarity"`
	Text       string  `json:"text"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	subject := args[0]
	question := strings.Join(args[1:], " ")

	showContext, _ := cmd.Flags().GetBool("show-context")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := openApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var passages []vectordb.SearchResult
	if showContext || jsonOutput {
		passages, err = a.svc.Retrieve(ctx, subject, question)
		if err != nil {
			return err
		}
	}

	answer, err := a.svc.Answer(ctx, subject, question)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := askResultJSON{Subject: subject, Question: question, Answer: answer}
		for _, p := range passages {
			out.Passages = append(out.Passages, askPassageJSON{
				ID:         p.Passage.ID,
				Similarity: p.Similarity,
				Text:       truncate(p.Passage.Text, 300),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if showContext {
		fmt.Println(vectordb.FormatResults(passages))
	}
	fmt.Println(answer)
	return nil
}
