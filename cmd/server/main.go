package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"quizbank/internal/config"
	"quizbank/internal/exam"
	"quizbank/internal/models"
	"quizbank/internal/question"
	"quizbank/pkg/cache"
	"quizbank/pkg/database"
	"quizbank/pkg/logger"
	"quizbank/pkg/websocket"
)

func main() {
	// .env first so viper's env overrides see it. Missing file is fine in
	// containers; config.yaml and real env cover it.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.InitLogger("debug")
		logger.Log.Fatal("loading configuration", zap.Error(err))
	}

	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	db, err := database.NewDB(&database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	})
	if err != nil {
		logger.Log.Fatal("connecting to database", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.Exam{},
		&models.Question{},
		&models.Answer{},
		&models.ExamQuestion{},
	)
	if err != nil {
		logger.Log.Fatal("migrating database", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	examRepo := exam.NewRepository(db)
	examService := exam.NewService(examRepo, redisCache, cfg.Catalog.PageSize)
	examHandler := exam.NewHandler(examService)

	questionRepo := question.NewRepository(db)
	questionService := question.NewService(questionRepo, redisCache, wsHub)
	questionHandler := question.NewHandler(questionService, cfg.Upload.MaxImageBytes)

	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/exams", examHandler.ListExams).Methods("GET")
	api.HandleFunc("/exams/{examId:[0-9]+}", examHandler.GetExam).Methods("GET")
	api.HandleFunc("/questions/{questionId:[0-9]+}", questionHandler.GetQuestion).Methods("GET")
	api.HandleFunc("/questions/{questionId:[0-9]+}/image", questionHandler.GetImage).Methods("GET")
	api.HandleFunc("/questions", questionHandler.CreateQuestion).Methods("POST", "OPTIONS")
	api.HandleFunc("/questions/{questionId:[0-9]+}", questionHandler.UpdateQuestion).Methods("PUT", "OPTIONS")
	api.HandleFunc("/exams/{examId:[0-9]+}/questions/{questionId:[0-9]+}", questionHandler.DeleteQuestion).Methods("DELETE", "OPTIONS")

	router.HandleFunc("/ws", wsHub.HandleWebSocket)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	})
	handler := corsMiddleware.Handler(router)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server startup", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
	logger.Log.Info("server shutdown gracefully")
}
