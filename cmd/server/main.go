// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"apptrack-backend/internal/cache"
	commonaws "apptrack-backend/internal/common/aws"
	"apptrack-backend/internal/common/auth"
	"apptrack-backend/internal/common/config"
	"apptrack-backend/internal/common/database"
	"apptrack-backend/internal/common/logger"
	"apptrack-backend/internal/common/observability"
	"apptrack-backend/internal/handlers"
	"apptrack-backend/internal/llm"
	"apptrack-backend/internal/mailer"
	"apptrack-backend/internal/models"
	"apptrack-backend/internal/notify"
	"apptrack-backend/internal/scheduler"
	"apptrack-backend/internal/store"
	"apptrack-backend/internal/vector"

	"github.com/gin-gonic/gin"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// observedSweep decorates the deadline notifier with OTel sweep metrics.
type observedSweep struct {
	inner *notify.DeadlineNotifier
	obs   *observability.Observability
}

func (s observedSweep) RunSweep(ctx context.Context) (models.SweepOutcome, models.SweepStats) {
	start := time.Now()
	outcome, stats := s.inner.RunSweep(ctx)
	s.obs.RecordSweep(ctx, outcome.Status)
	s.obs.RecordSweepDuration(ctx, time.Since(start), outcome.Status)
	return outcome, stats
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting apptrack backend...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(ctx, cfg.Database.Redis)
		return err
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init External Service Clients ---
	gotrue := auth.NewGoTrueClient(
		cfg.Auth.GoTrue.URL,
		cfg.Auth.GoTrue.AnonKey,
		cfg.Auth.GoTrue.ServiceKey,
		time.Duration(cfg.Auth.GoTrue.Timeout)*time.Millisecond,
	)

	var sesClient *commonaws.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = commonaws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
	}
	emailer := mailer.NewSESMailer(sesClient, cfg.Integrations, log)

	var llmClient *llm.Client
	if cfg.APIs.OpenAI.APIKey != "" {
		llmClient, err = llm.NewClient(cfg.APIs.OpenAI.APIKey, cfg.APIs, log)
		if err != nil {
			zapLog.Fatal("llm client failed", zap.Error(err))
		}
	} else {
		zapLog.Warn("OPENAI_API_KEY not set, analysis and interview prep disabled")
	}

	zapLog.Info("All external service clients initialized")

	// --- Stores, index, cache ---
	jobStore := store.NewJobStore(pg)
	resumeStore := store.NewResumeStore(pg)

	resumeIndex := vector.NewResumeIndex(esClient, cfg.Database.Elasticsearch.ResumeIndex, 0, log)
	if err := resumeIndex.EnsureIndex(ctx); err != nil {
		zapLog.Warn("resume index setup failed, similarity search degraded", zap.Error(err))
	}

	analysisCache := cache.NewAnalysisCache(
		redisClient.Client,
		time.Duration(cfg.Notifications.AnalysisCache.TTL)*time.Second,
		log,
	)

	// --- Deadline sweep ---
	notifier := notify.NewDeadlineNotifier(jobStore, gotrue, emailer, log, cfg.Notifications.LookaheadDays)
	sweep := observedSweep{inner: notifier, obs: obs}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(sweep, time.Duration(cfg.Scheduler.Interval)*time.Minute, log)
		sched.Start(ctx)
	}

	// --- HTTP API ---
	var analyzer handlers.Analyzer
	var embedder handlers.Embedder
	if llmClient != nil {
		analyzer = llmClient
		embedder = llmClient
	}

	router := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Log:       log,
		Validator: gotrue,
		Auth:      handlers.NewAuthHandler(gotrue, log),
		Jobs:      handlers.NewJobsHandler(jobStore, log),
		Resumes:   handlers.NewResumesHandler(resumeStore, jobStore, embedder, resumeIndex, log),
		Analysis:  handlers.NewAnalysisHandler(analyzer, analysisCache, resumeStore, jobStore, log),
		Admin:     handlers.NewAdminHandler(sweep, log),
		Health: func(c *gin.Context) {
			status := "ok"
			code := http.StatusOK
			if err := pg.Ping(c.Request.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			c.JSON(code, gin.H{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Server stopped gracefully")
}
