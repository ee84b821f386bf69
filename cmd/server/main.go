package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mediassist/internal/appointment"
	"mediassist/internal/auth"
	"mediassist/internal/config"
	"mediassist/internal/genai"
	"mediassist/internal/logger"
	"mediassist/internal/platform/telegram"
	"mediassist/internal/profile"
	"mediassist/internal/report"
	"mediassist/internal/store"
	"mediassist/internal/symptom"
	"mediassist/internal/transcribe"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	// 1. Infrastructure
	db, err := store.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal(fmt.Sprintf("could not connect to database: %v", err))
	}
	defer db.Close()

	if err := store.Migrate(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
		log.Fatal(fmt.Sprintf("migrations failed: %v", err))
	}

	// 2. Clients
	gen := genai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	stt := transcribe.NewAssemblyAIClient(cfg.AssemblyAIAPIKey)

	var notifier appointment.Notifier
	if cfg.TelegramBotToken != "" {
		notifier = telegram.NewClient(cfg.TelegramBotToken)
	}
	if cfg.ClinicChatID == 0 {
		log.Warn("CLINIC_CHAT_ID is not set; booking notifications are disabled")
	}

	// 3. Services
	profileRepo := profile.NewRepository(db)
	symptomRepo := symptom.NewRepository(db, log)
	symptomSvc := symptom.NewService(symptomRepo, gen, profileRepo, log)
	symptomHandler := symptom.NewHandler(symptomSvc, stt)

	reportRepo := report.NewRepository(db)
	reportSvc := report.NewService(reportRepo, symptomRepo, profileRepo, log)
	reportHandler := report.NewHandler(reportSvc)

	apptRepo := appointment.NewRepository(db)
	apptSvc := appointment.NewService(apptRepo, symptomRepo, profileRepo, notifier, cfg.ClinicChatID, log)
	apptHandler := appointment.NewHandler(apptSvc)

	authHandler := auth.NewHandler(cfg.FirebaseAPIKey, log)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		auth.RegisterRoutes(r, authHandler)

		r.Group(func(r chi.Router) {
			if cfg.RequireAuth {
				r.Use(auth.Middleware(auth.NewGoogleVerifier(cfg.FirebaseAPIKey)))
			}
			symptom.RegisterRoutes(r, symptomHandler)
			report.RegisterRoutes(r, reportHandler)
			appointment.RegisterRoutes(r, apptHandler)
		})
	})

	log.Info(fmt.Sprintf("server starting on port %s", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err.Error())
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info(fmt.Sprintf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}
}
