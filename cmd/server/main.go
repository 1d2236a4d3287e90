package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/python-puzzle/backend/internal/auth"
	"github.com/python-puzzle/backend/internal/database"
	"github.com/python-puzzle/backend/internal/generator"
	"github.com/python-puzzle/backend/internal/grading"
	"github.com/python-puzzle/backend/internal/middleware"
	"github.com/python-puzzle/backend/internal/profile"
	"github.com/python-puzzle/backend/internal/puzzles"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// One LLM client backs both the generator and the judge.
	llm, model := generator.NewClientFromEnv()
	gen := generator.New(llm, model)
	judge := grading.NewLLMJudge(llm)
	engine := grading.NewEngine(judge)

	profileStore := profile.NewStore(db)
	profileService := profile.NewService(profileStore)
	profileHandler := profile.NewHandler(profileService)

	puzzleStore := puzzles.NewStore(db)
	puzzleService := puzzles.NewService(puzzleStore, engine, gen, profileService)
	puzzleHandler := puzzles.NewHandler(puzzleService)

	authHandler := auth.NewHandler(db)

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

	protected.HandleFunc("/puzzles", puzzleHandler.ListPuzzles).Methods("GET")
	protected.HandleFunc("/puzzles/{id:[0-9]+}", puzzleHandler.GetPuzzle).Methods("GET")
	protected.HandleFunc("/puzzles/{id:[0-9]+}/submit", puzzleHandler.Submit).Methods("POST")
	protected.HandleFunc("/puzzles/{id:[0-9]+}/retry", puzzleHandler.GetRetryCode).Methods("GET")

	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile/recompute", profileHandler.Recompute).Methods("POST")
	protected.HandleFunc("/leaderboard", profileHandler.GetLeaderboard).Methods("GET")

	// Admin routes (catalog management)
	protected.HandleFunc("/admin/puzzles/generate", puzzleHandler.Generate).Methods("POST")
	protected.HandleFunc("/admin/puzzles/{id:[0-9]+}", puzzleHandler.Edit).Methods("PUT")
	protected.HandleFunc("/admin/puzzles/{id:[0-9]+}", puzzleHandler.Delete).Methods("DELETE")

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

	log.Printf("Server starting on :%s (model %s)", port, gen.ModelName())
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
