// Command findable highlights search terms and related words in web pages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/custodia-labs/findable/internal/adapters/driven/ai"
	"github.com/custodia-labs/findable/internal/adapters/driven/config/file"
	"github.com/custodia-labs/findable/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/findable/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/findable/internal/adapters/driving/cli"
	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/core/services"
	"github.com/custodia-labs/findable/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	rt := cli.Runtime{
		Settings: settingsService,
		Config:   configStore,
		LLM: func(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
			return ai.CreateAndValidateLLMService(ctx, settings)
		},
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		logger.Warn("Prompt overrides unavailable: %v", err)
	} else {
		rt.Prompts = prompts
	}

	ttl := cacheTTL(settingsService)
	store, err := sqlite.NewStore(dir)
	if err != nil {
		logger.Warn("Term cache unavailable, using memory: %v", err)
		rt.Cache = memory.NewTermCache(ttl)
	} else {
		defer store.Close()
		rt.Cache = store.TermCache(ttl)
	}

	cli.SetVersion(version)
	cli.SetRuntime(rt)
	return cli.Execute(ctx)
}

func cacheTTL(s *services.SettingsService) time.Duration {
	hours := domain.DefaultAppSettings().Cache.TTLHours
	if settings, err := s.Get(); err == nil && settings.Cache.TTLHours > 0 {
		hours = settings.Cache.TTLHours
	}
	return time.Duration(hours) * time.Hour
}
