package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/algo-prep/backend/internal/auth"
	"github.com/algo-prep/backend/internal/database"
	"github.com/algo-prep/backend/internal/events"
	"github.com/algo-prep/backend/internal/insights"
	"github.com/algo-prep/backend/internal/learner"
	"github.com/algo-prep/backend/internal/middleware"
	"github.com/algo-prep/backend/internal/submissions"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	// Initialize databases
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoDB, err := database.ConnectMongo(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// The event publisher is optional: the API stays up without a broker,
	// it just stops emitting learner events.
	var publisher learner.Publisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		exchange := os.Getenv("AMQP_EXCHANGE")
		if exchange == "" {
			exchange = "learner.events"
		}
		p, err := events.NewPublisher(amqpURL, exchange)
		if err != nil {
			log.Printf("WARN: RabbitMQ unavailable, events will not be published: %v", err)
		} else {
			publisher = p
			defer p.Close()
		}
	} else {
		log.Println("AMQP_URL not set, events will not be published")
	}

	// Initialize stores and services
	stateStore := learner.NewStateStore(mongoDB)
	subStore := submissions.NewStore(db)
	labeler := insights.NewClient()

	learnerService := learner.NewService(stateStore, subStore, subStore, publisher)

	if os.Getenv("REVIEW_WORKER") != "false" {
		interval := time.Hour
		if raw := os.Getenv("REVIEW_WORKER_INTERVAL"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil {
				interval = d
			} else {
				log.Printf("WARN: invalid REVIEW_WORKER_INTERVAL %q, using %s", raw, interval)
			}
		}
		go learnerService.StartReviewWorker(ctx, interval)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	learnerHandler := learner.NewHandler(learnerService)
	submissionHandler := submissions.NewHandler(subStore, learnerService, labeler)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	submissionHandler.RegisterRoutes(protected)
	learnerHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
