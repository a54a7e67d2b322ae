package config

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/gofrs/uuid"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
)

var InstanceId string

// Config is the typed view of the console environment.
type Config struct {
	Port           string        `envconfig:"CONSOLE_SERVICE_PORT" default:"8090"`
	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
	APITimeout     time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	JWTSecret      string        `envconfig:"JWT_SECRET_KEY" required:"true"`
	SessionStore   string        `envconfig:"SESSION_STORE" default:"memory"` // memory | redis | mongo
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	MongoURI       string        `envconfig:"MONGODB_URI"`
	PostgresURL    string        `envconfig:"POSTGRES_URL"`
	NatsURL        string        `envconfig:"NATS_URL"`
	NatsToken      string        `envconfig:"NATS_TOKEN"`
	RateLimit      int           `envconfig:"RATE_LIMIT" default:"300"`
	LoginRateLimit int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	SignupBaseURL  string        `envconfig:"SIGNUP_BASE_URL" default:"http://localhost:5173/signup"`
	SecureCookies  bool          `envconfig:"SECURE_COOKIES" default:"false"`

	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatIDs  []int64 `envconfig:"TELEGRAM_CHAT_IDS"`
}

func LoadEnv(service string) {
	log.Info("service configuration and env variables loading started ...")
	err := godotenv.Load("./.env")
	if err != nil {
		// the console also runs from plain environment variables (containers)
		log.Warnf("no .env file loaded for %s service: %s", service, err)
		return
	}

	log.Info(".env file loaded.")
}

// Load reads the process environment into Config.
func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return c, err
}

func CreateUniqueInstance(service string) string {
	id, err := uuid.NewV4() // instance identifier
	if err != nil {
		log.Errorf("error generating instanceId: %s", err)
		os.Exit(0)
	}
	InstanceId = id.String()
	log.Infof(service+" service with Instance ID: %s is ready", id)
	return id.String()
}

func GetInstanceId() string {
	return InstanceId
}

func CORS(origins []string) *cors.Cors {
	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return corsOptions
}

func Logging(service string) {
	logFolder := ".l_g"

	_, err := os.Stat(logFolder)
	if os.IsNotExist(err) {
		err = os.Mkdir(logFolder, 0755)
		if err != nil {
			log.Warnf("unable to create folder for log %s", err)
			return
		}
	}

	logFilePath := filepath.Join(logFolder, service+".log")

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}

	log.SetOutput(file)

	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.InfoLevel)

	log.Infof("log to file started for service: %s", service)
}

func CustomLoggerMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.WithFields(log.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"instance":   InstanceId,
				}).Infof("%s %s %s %d %s %s",
					r.Method,
					r.RequestURI,
					r.RemoteAddr,
					ww.Status(),
					http.StatusText(ww.Status()),
					time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
