package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/session"
)

var (
	analyzeKeywords int
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <page>",
	Short: "Summarise the content of a page",
	Long: `Reports the title, word count, reading time, headings, links and
images of a page, followed by its most frequent words.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeKeywords, "keywords", "k", 10, "number of keywords to list")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOutput struct {
	Source   string               `json:"source"`
	Facts    domain.PageFacts     `json:"facts"`
	Keywords domain.KeywordReport `json:"keywords"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	sess, err := session.Open(cmd.Context(), pageLoader, args[0], session.Config{Settings: settings})
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	output := analyzeOutput{
		Source:   args[0],
		Facts:    sess.Analyzer.Facts(),
		Keywords: sess.Analyzer.Keywords(analyzeKeywords),
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printFacts(cmd, output.Facts)
	printKeywords(cmd, output.Keywords)
	return nil
}

func printFacts(cmd *cobra.Command, facts domain.PageFacts) {
	if facts.Title != "" {
		cmd.Println(facts.Title)
		cmd.Println()
	}
	cmd.Printf("Words:        %d\n", facts.WordCount)
	cmd.Printf("Reading time: %d min\n", facts.ReadingTime)
	if facts.Frames > 0 {
		cmd.Printf("Frames:       %d\n", facts.Frames)
	}

	if len(facts.Headings) > 0 {
		cmd.Println()
		cmd.Println("Headings:")
		for _, h := range facts.Headings {
			cmd.Printf("  h%d %s\n", h.Level, h.Text)
		}
	}
	if len(facts.Links) > 0 {
		cmd.Println()
		cmd.Println("Links:")
		for _, l := range facts.Links {
			cmd.Printf("  %s <%s>\n", l.Text, l.URL)
		}
	}
	if len(facts.Images) > 0 {
		cmd.Println()
		cmd.Println("Images:")
		for _, img := range facts.Images {
			if img.Alt != "" {
				cmd.Printf("  %s (%s)\n", img.Src, img.Alt)
			} else {
				cmd.Printf("  %s\n", img.Src)
			}
		}
	}
}

func printKeywords(cmd *cobra.Command, report domain.KeywordReport) {
	if len(report.Keywords) == 0 {
		return
	}
	cmd.Println()
	cmd.Printf("Keywords (%d unique of %d words):\n", report.UniqueWords, report.TotalWords)
	for _, k := range report.Keywords {
		cmd.Printf("  %-20s %d\n", k.Word, k.Count)
	}
}
