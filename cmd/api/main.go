package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/examify-api/internal/config"
	"github.com/yourusername/examify-api/internal/handler"
	"github.com/yourusername/examify-api/internal/middleware"
	pgRepo "github.com/yourusername/examify-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/examify-api/internal/repository/redis"
	"github.com/yourusername/examify-api/internal/service"
	"github.com/yourusername/examify-api/internal/service/quizsession"
	"github.com/yourusername/examify-api/pkg/auth"
	"github.com/yourusername/examify-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	recordRepo := pgRepo.NewTestRecordRepo(db)

	stateRepo, err := redisRepo.NewStateRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize StateRepo: %v", err)
		os.Exit(1)
	}

	// Корневой контекст приложения: им управляются таймеры сессий
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем сервисы
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	authService, err := service.NewAuthService(userRepo)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	recordService, err := service.NewRecordService(recordRepo)
	if err != nil {
		log.Printf("Failed to initialize RecordService: %v", err)
		os.Exit(1)
	}

	extractionService := service.NewExtractionService(cfg.Extraction)
	sessionManager := quizsession.NewManager(quizsession.DefaultConfig())

	// Сервис объяснений опционален: без ключа API соответствующий маршрут
	// отвечает 503, остальное приложение работает полностью
	var explanationHandler *handler.ExplanationHandler
	if cfg.OpenAI.APIKey != "" {
		explanationService, err := service.NewExplanationService(cfg.OpenAI.APIKey, cfg.OpenAI.Model, stateRepo)
		if err != nil {
			log.Printf("Failed to initialize ExplanationService: %v", err)
			os.Exit(1)
		}
		explanationHandler = handler.NewExplanationHandler(explanationService)
	} else {
		log.Println("OPENAI_API_KEY не задан: генерация объяснений отключена")
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, jwtService)
	uploadHandler := handler.NewUploadHandler(extractionService, cfg.Extraction)
	sessionHandler := handler.NewSessionHandler(sessionManager, ctx)
	wsHandler := handler.NewWSHandler(sessionManager)
	recordHandler := handler.NewRecordHandler(recordService)
	stateHandler := handler.NewStateHandler(stateRepo)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Проверка живости
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello from backend server. API is running!")
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Конвейер загрузки PDF
		api.POST("/upload-pdf", uploadHandler.UploadPDF)

		// Сессии теста
		sessions := api.Group("/sessions")
		sessions.Use(authMiddleware.RequireAuth())
		{
			sessions.POST("", sessionHandler.StartSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/answer", sessionHandler.SelectAnswer)
			sessions.POST("/:id/mark", sessionHandler.ToggleReviewMark)
			sessions.POST("/:id/navigate", sessionHandler.Navigate)
			sessions.POST("/:id/submit", sessionHandler.SubmitSession)
			sessions.DELETE("/:id", sessionHandler.CloseSession)
			sessions.GET("/:id/ws", wsHandler.SessionEvents)
		}

		// Объяснения ответов
		if explanationHandler != nil {
			api.POST("/explanations", authMiddleware.RequireAuth(), explanationHandler.Explain)
		} else {
			api.POST("/explanations", func(c *gin.Context) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Explanation service is not configured"})
			})
		}

		// История тестов
		records := api.Group("/records")
		records.Use(authMiddleware.RequireAuth())
		{
			records.POST("", recordHandler.AppendRecord)
			records.GET("", recordHandler.ListRecords)
			records.GET("/export", recordHandler.ExportRecords)
		}

		// Именованные слоты состояния
		state := api.Group("/state")
		state.Use(authMiddleware.RequireAuth())
		{
			state.GET("/:slot", stateHandler.GetSlot)
			state.PUT("/:slot", stateHandler.SetSlot)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами.
	// WriteTimeout должен перекрывать таймаут внешнего скрипта: запрос
	// загрузки блокируется на все время его работы.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// После получения сигнала SIGINT или SIGTERM вызываем cancel()
	// для завершения горутин (в том числе таймеров сессий)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
