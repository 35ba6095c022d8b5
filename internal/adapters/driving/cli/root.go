// Package cli implements the findable command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/core/ports/driving"
	"github.com/custodia-labs/findable/internal/logger"
	"github.com/custodia-labs/findable/internal/page"
	"github.com/custodia-labs/findable/internal/session"
)

// version is set at build time.
var version = "dev"

var verbose bool

// Services used by the commands. Set by SetRuntime before Execute.
var (
	settingsService driving.SettingsService
	configStore     driven.ConfigStore
	promptStore     driven.PromptStore
	termCache       driven.TermCache
	llmFactory      LLMFactory
	pageLoader      session.Loader = &page.Loader{}
)

// LLMFactory creates the LLM service for the given settings. It returns
// nil and no error when no provider is configured.
type LLMFactory func(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error)

// Runtime holds the services wired by main.
type Runtime struct {
	Settings driving.SettingsService
	Config   driven.ConfigStore
	Prompts  driven.PromptStore
	Cache    driven.TermCache
	LLM      LLMFactory
	Loader   session.Loader
}

// SetRuntime installs the services used by the commands.
func SetRuntime(rt Runtime) {
	settingsService = rt.Settings
	configStore = rt.Config
	promptStore = rt.Prompts
	termCache = rt.Cache
	llmFactory = rt.LLM
	if rt.Loader != nil {
		pageLoader = rt.Loader
	}
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "findable",
	Short: "Highlight search terms and related words in web pages",
	Long: `Findable highlights a query in an HTML page together with synonyms,
antonyms and related words suggested by a language model, and lets you
step through the matches.

Pages can be files, http(s) URLs or "-" for stdin.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentSettings returns the stored settings, or the defaults when no
// settings service is configured.
func currentSettings() (domain.AppSettings, error) {
	if settingsService == nil {
		return domain.DefaultAppSettings(), nil
	}
	s, err := settingsService.Get()
	if err != nil {
		return domain.AppSettings{}, err
	}
	return *s, nil
}

// sessionConfig builds a session config. When withLLM is set the LLM
// service is created; a provider that cannot be reached is reported and
// the session runs with literal matching only. The returned func
// releases the LLM service.
func sessionConfig(cmd *cobra.Command, settings domain.AppSettings, withLLM bool) (session.Config, func()) {
	cfg := session.Config{
		Settings: settings,
		Prompts:  promptStore,
	}
	if settings.Cache.Enabled {
		cfg.Cache = termCache
	}
	if !withLLM {
		return cfg, func() {}
	}

	llm, err := newLLM(cmd.Context(), &settings.LLM)
	if err != nil {
		cmd.PrintErrf("Warning: %v\n", err)
		cmd.PrintErrln("Continuing with literal matches only.")
		return cfg, func() {}
	}
	if llm == nil {
		return cfg, func() {}
	}
	cfg.LLM = llm
	return cfg, func() {
		if err := llm.Close(); err != nil {
			logger.Warn("closing LLM service: %v", err)
		}
	}
}

func newLLM(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if llmFactory == nil {
		return nil, errors.New("LLM provider not configured")
	}
	return llmFactory(ctx, settings)
}
