package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"cvbot-backend/internal/delivery"
	"cvbot-backend/internal/engine"
	"cvbot-backend/internal/entitlement"
	"cvbot-backend/internal/llm"
	"cvbot-backend/internal/payment"
	"cvbot-backend/internal/pdfprint"
	"cvbot-backend/internal/reminder"
	"cvbot-backend/internal/sessions"
	"cvbot-backend/internal/shared/config"
	"cvbot-backend/internal/shared/storage/db"
	"cvbot-backend/internal/shared/storage/object"
	localstore "cvbot-backend/internal/shared/storage/object/local"
	s3store "cvbot-backend/internal/shared/storage/object/s3"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/zapi"
)

// App holds shared dependencies for the api, worker, and reminder binaries.
type App struct {
	Config       config.Config
	DB           *sql.DB
	SessionRepo  sessions.Repo
	Store        *sessions.Store
	Ledger       *entitlement.Ledger
	Sender       zapi.Sender
	Objects      object.ObjectStore
	Engine       *engine.Engine
	Orchestrator *delivery.Orchestrator
	Sweeper      *reminder.Sweeper

	gemini *llm.Gemini
}

// Build prepares shared dependencies. The delivery queue is wired separately
// by each binary, since the api enqueues and the worker consumes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, repo, err := buildSessionRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := sessions.NewStore(repo)
	ledger := entitlement.NewLedger(store)

	sender, err := buildSender(cfg)
	if err != nil {
		return nil, err
	}

	objects, err := buildObjects(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		SessionRepo: repo,
		Store:       store,
		Ledger:      ledger,
		Sender:      sender,
		Objects:     objects,
	}

	ext, rew, trans, gen, ver := buildLLM(ctx, cfg, app)

	pix, err := buildPix(cfg)
	if err != nil {
		return nil, err
	}

	app.Orchestrator = &delivery.Orchestrator{
		Store:         store,
		Ledger:        ledger,
		Sender:        sender,
		Printer:       pdfprint.NewChrome(0),
		Translator:    trans,
		Generator:     gen,
		Objects:       objects,
		OperatorPhone: cfg.OperatorPhone,
	}

	bot := engine.New(store, ledger, sender)
	bot.Extractor = ext
	bot.Rewriter = rew
	bot.Verifier = ver
	bot.Generator = gen
	bot.Codes = pix
	bot.TemplateImages = cfg.TemplateImages
	app.Engine = bot

	sweeper := reminder.NewSweeper(repo, sender)
	if cfg.ReminderIdle > 0 {
		sweeper.Idle = cfg.ReminderIdle
	}
	app.Sweeper = sweeper

	return app, nil
}

// Close releases long-lived resources.
func (a *App) Close() {
	if a.gemini != nil {
		_ = a.gemini.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildSessionRepo(ctx context.Context, cfg config.Config) (*sql.DB, sessions.Repo, error) {
	switch cfg.SessionStore {
	case "postgres":
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return sqlDB, &sessions.PGRepo{DB: sqlDB}, nil
	case "redis":
		return nil, sessions.NewRedisRepo(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	default:
		telemetry.Warn("bootstrap: using in-memory session store, state is lost on restart", nil)
		return nil, sessions.NewMemoryRepo(), nil
	}
}

func buildSender(cfg config.Config) (zapi.Sender, error) {
	if cfg.ZAPIInstanceID == "" || cfg.ZAPIToken == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("ZAPI_INSTANCE_ID and ZAPI_TOKEN are required in production")
		}
		telemetry.Warn("bootstrap: zapi credentials unset, logging outbound messages", nil)
		return zapi.Console{}, nil
	}
	sender, err := zapi.NewClient(cfg.ZAPIInstanceID, cfg.ZAPIToken, cfg.ZAPIClientToken)
	if err != nil {
		return nil, fmt.Errorf("build zapi client: %w", err)
	}
	return sender, nil
}

func buildObjects(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("build s3 store: %w", err)
		}
		return store, nil
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

// buildLLM returns the conversational collaborators. Without an API key every
// collaborator degrades to the placeholder, which keeps collection working on
// raw answers.
func buildLLM(ctx context.Context, cfg config.Config, app *App) (llm.Extractor, llm.Rewriter, llm.Translator, llm.Generator, llm.ReceiptVerifier) {
	if cfg.GeminiAPIKey == "" {
		telemetry.Warn("bootstrap: GEMINI_API_KEY unset, llm features degraded", nil)
		p := llm.Placeholder{}
		return p, p, p, p, p
	}
	g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if err != nil {
		telemetry.Error("bootstrap: gemini init failed, llm features degraded", map[string]any{
			"error": err.Error(),
		})
		p := llm.Placeholder{}
		return p, p, p, p, p
	}
	app.gemini = g
	return g, g, g, g, g
}

func buildPix(cfg config.Config) (payment.CodeGenerator, error) {
	if cfg.PixKey == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("PIX_KEY is required in production")
		}
		telemetry.Warn("bootstrap: PIX_KEY unset, payment codes disabled", nil)
		return payment.Disabled{}, nil
	}
	pix, err := payment.NewPix(cfg.PixKey, cfg.PixRecipientName, cfg.PixCity)
	if err != nil {
		return nil, fmt.Errorf("build pix generator: %w", err)
	}
	return pix, nil
}
