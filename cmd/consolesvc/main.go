package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"
	"github.com/redis/go-redis/v9"

	config "github.com/avvvet/nobleco-console/configs"
	"github.com/avvvet/nobleco-console/internal/console/api"
	pg "github.com/avvvet/nobleco-console/internal/console/db"
	"github.com/avvvet/nobleco-console/internal/console/events"
	"github.com/avvvet/nobleco-console/internal/console/handlers"
	"github.com/avvvet/nobleco-console/internal/console/notify"
	"github.com/avvvet/nobleco-console/internal/console/service"
	"github.com/avvvet/nobleco-console/internal/console/session"
	"github.com/avvvet/nobleco-console/internal/console/store"
	"github.com/avvvet/nobleco-console/internal/db"
	nats "github.com/avvvet/nobleco-console/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "console"

func init() {
	config.Logging(SERVICE_NAME + "_service")
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	instanceId := config.CreateUniqueInstance(SERVICE_NAME)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, closeBackend := sessionBackend(ctx, cfg)
	defer closeBackend()

	// audit trail is optional; without postgres it only goes to the log
	var recorder service.AuditRecorder
	if cfg.PostgresURL != "" {
		dbpool, err := pg.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer pg.ClosePool()
		log.Printf("pg connection established successfully")

		auditStore := store.NewAuditStore(dbpool)
		if err := auditStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare audit table: %v", err)
		}
		recorder = auditStore
	}

	var notifier service.Notifier
	if tg := notify.Init(cfg.TelegramBotToken, cfg.TelegramChatIDs); tg != nil {
		notifier = tg
	}
	audit := service.NewAuditService(recorder, notifier)

	hub := events.NewHub()

	// NATS fans console events out to the other console instances
	if cfg.NatsURL != "" {
		n, err := nats.Connect(cfg.NatsURL, cfg.NatsToken, SERVICE_NAME+"-"+instanceId)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer n.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		broker := events.NewBroker(n.Conn, hub, instanceId)
		sub, err := broker.Subscribe()
		if err != nil {
			log.Fatalf("Error: unable to subscribe to %s %v", events.Subject, err)
		}
		defer sub.Unsubscribe()
	}

	sessions := session.NewManager(
		backend,
		jwtauth.New("HS256", []byte(cfg.JWTSecret), nil),
		cfg.SessionTTL,
		cfg.SecureCookies,
	)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.AllowedOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the console from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(handlers.Options{
		Client:         api.NewClient(cfg.APIBaseURL, cfg.APITimeout),
		Sessions:       sessions,
		Hub:            hub,
		Audit:          audit,
		SignupBaseURL:  cfg.SignupBaseURL,
		LoginRateLimit: cfg.LoginRateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
		Port:           cfg.Port,
	})
	h.SetRoutes(r)

	// no WriteTimeout: it would cut the websocket streams
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s, upstream %s", SERVICE_NAME, server.Addr, cfg.APIBaseURL)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	h.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

// sessionBackend picks the session store from SESSION_STORE.
func sessionBackend(ctx context.Context, cfg config.Config) (session.Backend, func()) {
	switch cfg.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		log.Printf("redis session store at %s", cfg.RedisAddr)
		return session.NewRedisBackend(client, SERVICE_NAME, cfg.SessionTTL), func() { client.Close() }

	case "mongo":
		database, err := db.ConnectToDB(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to mongo: %v", err)
		}
		if err := db.CreateTTLIndexForCollection(ctx, database, session.MongoCollection); err != nil {
			log.Fatalf("Failed to create session indexes: %v", err)
		}
		log.Printf("mongo session store in %s", database.Name())
		return session.NewMongoBackend(database, cfg.SessionTTL), func() {
			database.Client().Disconnect(context.Background())
		}

	case "memory", "":
		log.Warn("in-memory session store: sessions are lost on restart and not shared between instances")
		return session.NewMemoryBackend(cfg.SessionTTL), func() {}

	default:
		log.Fatalf("Unknown SESSION_STORE %q (memory, redis or mongo)", cfg.SessionStore)
		return nil, nil
	}
}
