package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ChamsBouzaiene/codequery/internal/answerer"
	"github.com/ChamsBouzaiene/codequery/internal/chunker"
	"github.com/ChamsBouzaiene/codequery/internal/collector"
	"github.com/ChamsBouzaiene/codequery/internal/config"
	"github.com/ChamsBouzaiene/codequery/internal/docstore"
	"github.com/ChamsBouzaiene/codequery/internal/gitrepo"
	"github.com/ChamsBouzaiene/codequery/internal/index"
	"github.com/ChamsBouzaiene/codequery/internal/llm"
	"github.com/ChamsBouzaiene/codequery/internal/metrics"
	"github.com/ChamsBouzaiene/codequery/internal/resolver"
	"github.com/ChamsBouzaiene/codequery/internal/router"
	"github.com/ChamsBouzaiene/codequery/internal/session"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

type runtimeEnv struct {
	Session     *session.Session
	Router      *router.Router
	Workspace   *gitrepo.Workspace
	Transcripts *session.TranscriptStore
	Analytics   *metrics.AnalyticsClient
	GitHubToken string

	store *docstore.Store
	index *index.BleveIndex
}

func (r *runtimeEnv) Close() {
	if r.index != nil {
		if err := r.index.Close(); err != nil {
			log.Printf("⚠️  Failed to close index: %v", err)
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			log.Printf("⚠️  Failed to close document store: %v", err)
		}
	}
	if r.Workspace != nil {
		if err := r.Workspace.Cleanup(); err != nil {
			log.Printf("⚠️  Failed to clean workspace: %v", err)
		}
	}
}

func prepareRuntimeEnv(ctx context.Context, topKFlag, timeoutFlag int) (*runtimeEnv, error) {
	userConfig, configDir := loadUserConfig()

	// Populate environment variables from config. Config overrides stale
	// shell or .env values so the saved setup always wins.
	applyConfigToEnv(userConfig)

	client, model, err := llm.NewClientFromEnv()
	if err != nil {
		return nil, err
	}
	log.Printf("🤖 Using model: %s", model)

	dataDir := filepath.Join(configDir, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := docstore.Open(ctx, filepath.Join(dataDir, "docs.db"))
	if err != nil {
		return nil, err
	}

	idx, err := index.NewBleveIndex(filepath.Join(dataDir, "chunks.bleve"))
	if err != nil {
		store.Close()
		return nil, err
	}

	sess := session.New(session.Config{
		Collector: collector.New(nil),
		Chunker:   chunker.New(defaultChunkSize, defaultChunkOverlap),
		Store:     store,
		Index:     idx,
	})

	topK := topKFlag
	if topK <= 0 {
		topK = userConfig.TopK
	}
	timeout := time.Duration(timeoutFlag) * time.Second
	if timeoutFlag <= 0 && userConfig.TimeoutSeconds > 0 {
		timeout = time.Duration(userConfig.TimeoutSeconds) * time.Second
	}

	generator := answerer.NewRetrievalChain(idx, client, topK)
	rt := router.New(sess, resolver.New(), generator, timeout)

	workspace, err := gitrepo.NewWorkspace()
	if err != nil {
		log.Printf("⚠️  Remote repositories disabled: %v", err)
		workspace = nil
	}

	return &runtimeEnv{
		Session:     sess,
		Router:      rt,
		Workspace:   workspace,
		Transcripts: session.NewTranscriptStore(configDir),
		Analytics:   metrics.NewAnalyticsClient(analyticsBaseURL(userConfig)),
		GitHubToken: githubToken(userConfig),
		store:       store,
		index:       idx,
	}, nil
}

func loadUserConfig() (*config.Config, string) {
	manager, err := config.NewManager()
	if err != nil {
		log.Printf("⚠️  Failed to initialize config manager: %v", err)
		return &config.Config{}, os.TempDir()
	}

	userConfig, err := manager.Load()
	if err != nil {
		log.Printf("⚠️  Failed to load user config: %v", err)
		return &config.Config{}, manager.Dir()
	}
	if manager.Exists() {
		log.Printf("User config loaded from: %s", manager.GetConfigPath())
	}
	return userConfig, manager.Dir()
}

func applyConfigToEnv(userConfig *config.Config) {
	if userConfig.LLMProvider != "" {
		os.Setenv("LLM_PROVIDER", userConfig.LLMProvider)
	}
	if userConfig.APIKey == "" {
		return
	}

	switch userConfig.LLMProvider {
	case "anthropic":
		os.Setenv("ANTHROPIC_API_KEY", userConfig.APIKey)
		if userConfig.Model != "" {
			os.Setenv("ANTHROPIC_MODEL", userConfig.Model)
		}
	case "kimi":
		os.Setenv("KIMI_API_KEY", userConfig.APIKey)
		if userConfig.Model != "" {
			os.Setenv("KIMI_MODEL", userConfig.Model)
		}
	default:
		os.Setenv("OPENAI_API_KEY", userConfig.APIKey)
		if userConfig.Model != "" {
			os.Setenv("OPENAI_MODEL", userConfig.Model)
		}
		if userConfig.BaseURL != "" {
			os.Setenv("OPENAI_BASE_URL", userConfig.BaseURL)
		}
	}
}

func githubToken(userConfig *config.Config) string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return userConfig.GitHubToken
}

func analyticsBaseURL(userConfig *config.Config) string {
	if url := os.Getenv("ANALYTICS_BASE_URL"); url != "" {
		return url
	}
	return userConfig.AnalyticsBaseURL
}
