package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tucanviajes/crm-backend/internal/auth"
	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/infra/cache"
	"github.com/tucanviajes/crm-backend/internal/infra/database"
	"github.com/tucanviajes/crm-backend/internal/infra/http/handlers"
	"github.com/tucanviajes/crm-backend/internal/infra/http/middleware"
	"github.com/tucanviajes/crm-backend/internal/infra/mail"
	"github.com/tucanviajes/crm-backend/internal/infra/queue"
	"github.com/tucanviajes/crm-backend/internal/infra/worker"
	"github.com/tucanviajes/crm-backend/internal/resilient"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitOrigins parte la lista separada por comas de CORS_ORIGINS.
// Sin wildcard: solo los orígenes declarados pueden pegarle a la API.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func main() {
	godotenv.Load()
	ctx := context.Background()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rdb, err := cache.Open(ctx, envOr("REDIS_ADDR", "localhost:6379"))
	if err != nil {
		log.Fatal(err)
	}
	defer rdb.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositorios
	leadRepo := database.NewLeadRepository(db)
	contactRepo := database.NewContactRepository(db)
	historyRepo := database.NewLeadHistoryRepository(db)
	budgetRepo := database.NewBudgetRepository(db)
	branchRepo := database.NewBranchRepository(db)
	rawLeadRepo := database.NewRawLeadRepository(db)
	scheduledRepo := database.NewScheduledEmailRepository(db)
	userRepo := database.NewUserRepository(db)

	// 2. Sesiones
	authClient := auth.NewClient(os.Getenv("AUTH_URL"), os.Getenv("AUTH_API_KEY"))
	sessions := auth.NewManager(authClient, auth.DefaultRefreshTimeout)
	sessions.StartAutoRefresh(auth.DefaultProactiveInterval)
	defer sessions.Stop()

	idle := auth.NewIdleDetector(sessions, auth.IdleConfig{})
	sessions.AddListener(func(e auth.Event) {
		switch e.Kind {
		case auth.EventRemoved, auth.EventExpired:
			idle.Stop()
		}
	})
	defer idle.Stop()

	readCache := cache.New(rdb, 0)
	executor := resilient.New(sessions, readCache)
	verifier := auth.NewVerifier(os.Getenv("JWT_SECRET"))

	// 3. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587,
		os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"), os.Getenv("MAIL_FROM"),
	)

	// 4. UseCases
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, historyRepo)
	changeStatusUC := usecase.NewChangeLeadStatusUseCase(leadRepo, contactRepo, historyRepo)
	assignLeadUC := usecase.NewAssignLeadUseCase(leadRepo, historyRepo)
	createContactUC := usecase.NewCreateContactUseCase(contactRepo)
	sendEmailUC := usecase.NewSendEmailUseCase(mailSender, scheduledRepo)

	// 5. Workers (cola de leads crudos + barrido de mails diferidos)
	leadWorker := queue.NewWorker(rabbitMQ.Ch, createLeadUC, rawLeadRepo)
	go leadWorker.Start(queue.QueueName)

	emailWorker := worker.NewScheduledEmailWorker(scheduledRepo, mailSender)
	go emailWorker.Start(ctx)

	// 6. Handlers
	agencyName := envOr("AGENCY_NAME", "Tucan Viajes")
	leadHandler := handlers.NewLeadHandler(
		leadRepo, historyRepo, createLeadUC, changeStatusUC, assignLeadUC,
		executor, readCache, agencyName,
	)
	contactHandler := handlers.NewContactHandler(contactRepo, createContactUC, executor, readCache)
	budgetHandler := handlers.NewBudgetHandler(budgetRepo, executor, readCache)
	branchHandler := handlers.NewBranchHandler(branchRepo, executor)
	emailHandler := handlers.NewEmailHandler(sendEmailUC, executor)
	userHandler := handlers.NewUserHandler(userRepo, executor)
	sessionHandler := handlers.NewSessionHandler(sessions, idle)
	webhookHandler := handlers.NewWebhookHandler(
		rawLeadRepo, producer,
		os.Getenv("WEBHOOK_SECRET"),
		os.Getenv("WEBHOOK_TRUST_PROXY") == "true",
	)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, rdb)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(envOr("CORS_ORIGINS", "http://localhost:5173")),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Webhook-Secret"},
	}))

	// Públicas
	r.Post("/auth/login", sessionHandler.HandleLogin)
	r.Post("/webhook/leads", webhookHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Protegidas
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccessToken(verifier))

		r.Post("/auth/logout", sessionHandler.HandleLogout)
		r.Post("/auth/refresh", sessionHandler.HandleRefresh)
		r.Post("/auth/activity", sessionHandler.HandleActivity)

		r.Get("/leads", leadHandler.HandleList)
		r.Post("/leads", leadHandler.HandleCreate)
		r.Get("/leads/{leadID}", leadHandler.HandleGet)
		r.Get("/leads/{leadID}/history", leadHandler.HandleHistory)
		r.Patch("/leads/{leadID}/status", leadHandler.HandleChangeStatus)
		r.Get("/leads/{leadID}/whatsapp", leadHandler.HandleWhatsAppLink)

		r.Get("/contacts", contactHandler.HandleList)
		r.Post("/contacts", contactHandler.HandleCreate)
		r.Get("/contacts/{contactID}", contactHandler.HandleGet)

		r.Get("/budgets", budgetHandler.HandleList)
		r.Post("/budgets", budgetHandler.HandleCreate)
		r.Patch("/budgets/{budgetID}/status", budgetHandler.HandleUpdateStatus)

		r.Get("/branches", branchHandler.HandleList)
		r.Get("/branches/{branchID}", branchHandler.HandleGet)

		r.Get("/users", userHandler.HandleListByBranch)

		r.Post("/email/send", emailHandler.HandleSend)

		// Reasignar leads es cosa de coordinación, no de cada agente.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(entity.RoleAdmin, entity.RoleManager))
			r.Patch("/leads/{leadID}/assign", leadHandler.HandleAssign)
		})
	})

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 CRM Tucan Viajes corriendo en el puerto %s", port)
	http.ListenAndServe(port, r)
}
