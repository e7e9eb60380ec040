package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flashlearn/internal/chunker"
	"github.com/ziadkadry99/flashlearn/internal/config"
	"github.com/ziadkadry99/flashlearn/internal/llm"
	"github.com/ziadkadry99/flashlearn/internal/materials"
)

// expectedOutputTokens approximates the size of a generated bundle.
const expectedOutputTokens = 1500

var costCmd = &cobra.Command{
	Use:   "cost <file>",
	Short: "Estimate the API cost of ingesting a document",
	Long:  `Extracts the document, counts passages and tokens, and estimates the generation cost per provider preset without making any API calls.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCost,
}

func init() {
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := readDocument(args[0])
	if err != nil {
		return err
	}

	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	passages := ch.Split(text)
	inputTokens := llm.EstimateTokens(materials.GenerationPrompt(text))

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  Words:             %d\n", len(strings.Fields(text)))
	fmt.Printf("  Passages:          %d (%d words, %d overlap)\n", len(passages), ch.Size(), ch.Overlap())
	fmt.Printf("  Prompt tokens:     ~%d\n", inputTokens)
	fmt.Printf("  Completion tokens: ~%d\n", expectedOutputTokens)
	fmt.Println()

	fmt.Println("  Generation cost by provider:")
	fmt.Println("  ----------------------------------------")
	providers := []config.ProviderType{
		config.ProviderGoogle, config.ProviderOpenAI, config.ProviderAnthropic,
		config.ProviderOpenRouter, config.ProviderMiniMax, config.ProviderOllama,
	}
	for _, p := range providers {
		model := config.GetPreset(p).Model
		if p == cfg.Provider {
			model = cfg.Model
		}

		marker := " "
		if p == cfg.Provider {
			marker = "*"
		}
		cost := "unknown pricing"
		if p == config.ProviderOllama {
			cost = "free (local)"
		} else if c := llm.EstimateCost(model, inputTokens, expectedOutputTokens); c > 0 {
			cost = fmt.Sprintf("~$%.4f", c)
		}
		fmt.Printf("  %s %-10s  %-16s (model: %s)\n", marker, p, cost, model)
	}
	fmt.Println()
	fmt.Println("  * = current configuration")
	return nil
}
