package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"google.golang.org/api/option"

	"github.com/saatgomi1/secondsense/app/controller"
	"github.com/saatgomi1/secondsense/app/router"
	"github.com/saatgomi1/secondsense/config"
	"github.com/saatgomi1/secondsense/db"
	"github.com/saatgomi1/secondsense/job"
	"github.com/saatgomi1/secondsense/repository"
	"github.com/saatgomi1/secondsense/service"
)

// Initialize wires services and routes from cfg
// The returned cleanup stops background jobs and closes the database
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	repo, err := newSessionRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	describer, err := newDescriptionService(ctx, cfg)
	if err != nil {
		db.CloseDB()
		return nil, nil, err
	}

	// Drive archiving is optional
	var driveService service.DriveServiceInterface
	if cfg.DriveExportFolderID != "" && cfg.GoogleCredentialsPath != "" {
		ds, err := service.NewDriveService(ctx, cfg.GoogleCredentialsPath)
		if err != nil {
			db.CloseDB()
			return nil, nil, err
		}
		driveService = ds
		log.Printf("✓ Drive archiving enabled (folder %s)", cfg.DriveExportFolderID)
	}

	compositor := service.NewImageCompositor(cfg.JPEGQuality)
	formService := service.NewFormService(compositor, describer, repo)
	exportService := service.NewExportService(driveService, cfg.DriveExportFolderID)
	sheetService := service.NewSheetService(cfg.BaseURL, cfg.ChromePath)

	cleanupJob, err := job.StartSessionCleanup(repo, cfg.SessionCleanupSchedule, cfg.SessionTTL)
	if err != nil {
		db.CloseDB()
		return nil, nil, err
	}

	controllers := &router.Controllers{
		Session: controller.NewSessionController(formService, cfg.MaxUploadMB<<20),
		Export:  controller.NewExportController(formService, exportService, sheetService),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	cleanup := func() {
		<-cleanupJob.Stop().Done()
		if err := db.CloseDB(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		}
	}
	return mux, cleanup, nil
}

func newSessionRepository(ctx context.Context, cfg *config.Config) (repository.SessionRepositoryInterface, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("ℹ️  No database configured, sessions are kept in memory")
		return repository.NewMemorySessionRepository(), nil
	}

	if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.NewSessionRepository(db.DB)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.CloseDB()
		return nil, err
	}
	return repo, nil
}

func newDescriptionService(ctx context.Context, cfg *config.Config) (service.DescriptionServiceInterface, error) {
	switch cfg.ModelProvider {
	case config.ProviderOllama:
		log.Printf("✓ Using Ollama model %s at %s", cfg.OllamaModel, cfg.OllamaURL)
		return service.NewOllamaService(cfg.OllamaURL, cfg.OllamaModel, cfg.ModelTimeout), nil
	default:
		var opts []option.ClientOption
		if cfg.GeminiEndpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.GeminiEndpoint))
		}
		log.Printf("✓ Using Gemini model %s", cfg.GeminiModel)
		return service.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ModelTimeout, opts...)
	}
}
