package cmd

import (
	"context"
	"database/sql"

	"newstyping/config"
	"newstyping/config/database"
	articleRepo "newstyping/internal/article/repository"
	"newstyping/internal/article/service"
	"newstyping/internal/gateway/claude"
	"newstyping/internal/gateway/guardian"
	"newstyping/internal/gateway/rss"
	"newstyping/internal/gateway/supabase"
	"newstyping/internal/ports"
	testRepo "newstyping/internal/testresult/repository"
	testService "newstyping/internal/testresult/service"
	"newstyping/pkg/logger"
	"newstyping/router"
	"newstyping/socket"
)

// app is the fully wired process. The hub is nil for one-shot commands.
type app struct {
	cfg config.Config
	db  *sql.DB

	articles    ports.ArticleStore
	hub         *socket.Hub
	serving     *service.ServingService
	ingestion   *service.IngestionService
	maintenance *service.MaintenanceService
	tests       *testService.TestResultService
	identity    ports.IdentityProvider
}

func newApp(ctx context.Context, cfg config.Config, withHub bool) (*app, error) {
	db, err := database.Connect(ctx, cfg.Supabase.DatabaseURL)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		db:       db,
		articles: articleRepo.NewArticleRepository(db),
		identity: supabase.NewIdentity(cfg.Supabase, cfg.IdentityTimeout()),
	}

	var notifier ports.ArticleNotifier
	if withHub {
		a.hub = socket.NewHub(a.articles)
		notifier = a.hub
	}

	source := newsSource(cfg)
	var summarizer ports.Summarizer
	if cfg.SummarizerEnabled() {
		summarizer = claude.New(cfg.Summarizer, cfg.SummarizerTimeout())
	} else {
		logger.Sugar.Warn("CLAUDE_API_KEY not set, article ingestion is disabled")
	}

	a.serving = service.NewServingService(a.articles, source, nil)
	a.serving.FallbackPageSize = cfg.Articles.FallbackPageSize

	a.ingestion = service.NewIngestionService(a.articles, source, summarizer, notifier)
	a.ingestion.BatchSize = cfg.Articles.PreloadBatchSize
	a.ingestion.Retention = cfg.RetentionDuration()

	a.maintenance = service.NewMaintenanceService(a.articles, notifier)
	a.tests = testService.NewTestResultService(testRepo.NewTestResultRepository(db))
	return a, nil
}

// newsSource returns the configured provider, or a nil interface when its
// credentials are missing.
func newsSource(cfg config.Config) ports.NewsSource {
	if !cfg.NewsEnabled() {
		logger.Sugar.Warnf("News provider %q is not configured, serving from the store only", cfg.News.Provider)
		return nil
	}
	switch cfg.News.Provider {
	case config.ProviderRSS:
		return rss.New(cfg.News.RSS, cfg.NewsTimeout())
	default:
		return guardian.New(cfg.News.Guardian, cfg.NewsTimeout())
	}
}

func (a *app) routes() *router.Services {
	return &router.Services{
		Serving:     a.serving,
		Ingestion:   a.ingestion,
		Maintenance: a.maintenance,
		Tests:       a.tests,
		Identity:    a.identity,
		Hub:         a.hub,
	}
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logger.Sugar.Errorf("Failed to close database: %v", err)
	}
}
