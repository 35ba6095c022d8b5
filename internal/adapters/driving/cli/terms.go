package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/findable/internal/adapters/driven/semantic"
	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/services"
	"github.com/custodia-labs/findable/internal/page"
)

var (
	termsPage string
	termsAll  bool
	termsJSON bool
)

var termsCmd = &cobra.Command{
	Use:   "terms <term>",
	Short: "List related terms for a query",
	Long: `Asks the configured LLM for synonyms, antonyms and related words of a
term. With --page, the page text is sent as context and only words that
appear in the page are returned.

Terms are filtered by the search settings unless --all is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runTerms,
}

func init() {
	termsCmd.Flags().StringVarP(&termsPage, "page", "p", "", "page to use as context")
	termsCmd.Flags().BoolVarP(&termsAll, "all", "a", false, "list terms the search settings would hide")
	termsCmd.Flags().BoolVar(&termsJSON, "json", false, "output terms as JSON")
	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx := cmd.Context()
	llm, err := newLLM(ctx, &settings.LLM)
	if err != nil {
		return err
	}
	if llm == nil {
		return errors.New("no LLM provider configured. Run 'findable settings llm' to set one up")
	}
	defer llm.Close()

	var pageText string
	if termsPage != "" {
		p, err := pageLoader.Load(ctx, termsPage, page.WithSettings(settings.Highlight))
		if err != nil {
			return fmt.Errorf("failed to load page: %w", err)
		}
		pageText = p.Text()
	}

	cfg := semantic.Config{
		ContextChars:      settings.Find.ContextChars,
		RequestsPerSecond: settings.LLM.RequestsPerSecond,
	}
	if settings.Cache.Enabled {
		cfg.Cache = termCache
	}
	expander := semantic.New(llm, cfg)
	if promptStore != nil {
		expander.SetPromptStore(promptStore)
	}

	related, err := expander.RelatedTerms(ctx, args[0], pageText)
	if err != nil {
		return fmt.Errorf("term expansion failed: %w", err)
	}

	if !termsAll {
		kept := make([]domain.WeightedTerm, 0, len(related.Matches))
		for _, t := range related.Matches {
			if services.AllowsTerm(settings.Find.Options, t) {
				kept = append(kept, t)
			}
		}
		related.Matches = kept
	}

	if termsJSON {
		data, err := json.MarshalIndent(related, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal terms: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputTerms(cmd, args[0], related)
}

func outputTerms(cmd *cobra.Command, term string, related *domain.RelatedTerms) error {
	if related.CorrectedTerm != "" && related.CorrectedTerm != term {
		cmd.Printf("Did you mean %q?\n\n", related.CorrectedTerm)
	}
	if len(related.Matches) == 0 {
		cmd.Println("No related terms found.")
		return nil
	}
	for _, t := range related.Matches {
		cmd.Printf("  %-24s %5.2f  %s\n", t.Text, t.Score, t.EffectiveRelation())
	}
	return nil
}
