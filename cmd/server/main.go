package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bakaevs/cs-gpt/internal/ai"
	"github.com/bakaevs/cs-gpt/internal/chat"
	"github.com/bakaevs/cs-gpt/internal/config"
	"github.com/bakaevs/cs-gpt/internal/db"
	"github.com/bakaevs/cs-gpt/internal/dispatch"
	"github.com/bakaevs/cs-gpt/internal/httpapi"
	"github.com/bakaevs/cs-gpt/internal/httpapi/handlers"
	"github.com/bakaevs/cs-gpt/internal/index"
	"github.com/bakaevs/cs-gpt/internal/ingest"
	"github.com/bakaevs/cs-gpt/internal/store/rabbitmq"
	"github.com/bakaevs/cs-gpt/internal/store/redisstore"
)

func main() {
	cfg := config.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	gdb := db.Connect(cfg.DBDSN)
	db.Migrate(gdb, &chat.Thread{}, &chat.Message{}, &index.Record{}, &ingest.Job{})

	// Provider registry (route by configured provider name)
	reg := ai.NewRegistry()
	reg.Register("openai", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.ChatModel
		}
		return ai.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, m), nil
	})

	provider, err := reg.Get(context.Background(), cfg.AIProvider, cfg.ChatModel)
	if err != nil {
		log.Fatalf("ai provider: %v", err)
	}
	toolProvider, ok := provider.(ai.ToolProvider)
	if !ok {
		log.Fatalf("ai provider %q does not support tool calls", cfg.AIProvider)
	}

	vecCache := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer vecCache.Close()

	embedder := &ai.CachedEmbedder{
		Inner: ai.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension),
		Cache: vecCache,
	}

	idx := index.New(index.NewStore(gdb))
	if err := idx.Load(context.Background()); err != nil {
		log.Printf("index load failed, will retry on first search: %v", err)
	}

	tools, err := ai.LoadFunctions(cfg.FunctionsPath)
	if err != nil {
		log.Fatalf("load function definitions: %v", err)
	}

	investigator := dispatch.NewInvestigationClient(cfg.InvestigationBaseURL, cfg.InvestigationAPIKey, cfg.InvestigationInsecureTLS)
	dispatcher := dispatch.NewDispatcher(investigator, dispatch.DatePolicy{LookbackMonths: cfg.DateLookbackMonths})

	repo := chat.NewRepo(gdb)
	chatSvc := chat.NewService(repo, embedder, toolProvider, dispatcher, idx, tools, cfg.SearchTopK)
	ingestSvc := ingest.NewService(gdb, embedder, idx, cfg.ChunkSize)

	// Job broker is optional; without it document jobs run in-process.
	var pub *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		pub, err = rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Printf("rabbit unavailable, ingestion jobs will run in-process: %v", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	router := httpapi.NewRouter(handlers.NewHandler(chatSvc, ingestSvc, pub))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}
