package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"posture-detector-go/internal/cache"
	"posture-detector-go/internal/client"
	"posture-detector-go/internal/config"
	"posture-detector-go/internal/database"
	"posture-detector-go/internal/handler"
	"posture-detector-go/internal/logger"
	"posture-detector-go/internal/middleware"
	"posture-detector-go/internal/pose"
	"posture-detector-go/internal/report"
	"posture-detector-go/internal/repository"
	"posture-detector-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})

	log.Info("Запуск Posture Detector API Server")
	log.Infof("Пороги классификации: шея %.1f°, спина %.1f°",
		cfg.Posture.NeckAngleThreshold, cfg.Posture.BackAngleThreshold)

	// Инициализируем базу данных
	log.Infof("Подключение к базе данных (%s)...", cfg.Database.Driver)
	db, err := database.Connect(database.Config{
		Driver:     cfg.Database.Driver,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		Database:   cfg.Database.Name,
		Username:   cfg.Database.User,
		Password:   cfg.Database.Password,
		SSLMode:    cfg.Database.SSLMode,
		SQLitePath: cfg.Database.SQLitePath,
	})
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer database.Close(db)

	// Выполняем миграции
	log.Info("Выполнение миграций базы данных...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Ошибка выполнения миграций: %v", err)
	}

	// Проверяем здоровье базы данных
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("База данных недоступна: %v", err)
	}

	log.Info("База данных успешно подключена и готова к работе")

	// Кэш последних вердиктов
	verdictCache := newVerdictCache(cfg, log)
	defer verdictCache.Close()

	// Инициализируем репозитории
	sessionRepo := repository.NewSessionRepository(db)

	// Инициализируем сервисы
	poseClient := client.NewPoseAPIClient(cfg.PoseAPI.BaseURL, cfg.PoseAPITimeout(), log)
	analyzerService := service.NewAnalyzerService(
		poseClient,
		pose.NewExtractor(cfg.Posture.MinVisibility),
		report.NewCalculator(),
		verdictCache,
		service.AnalyzerConfig{Thresholds: cfg.Thresholds(), Workers: cfg.Batch.Workers},
		log,
	)
	sessionService := service.NewSessionService(sessionRepo, log)

	// Инициализируем обработчики
	postureHandler := handler.NewPostureHandler(analyzerService, log)
	sessionHandler := handler.NewSessionHandler(analyzerService, sessionService, log)

	// Настраиваем Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Добавляем middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log))

	// Регистрируем маршруты
	postureHandler.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(router)

	// Добавляем базовый маршрут для проверки
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Posture Detector API Server",
			"version": service.Version,
			"status":  "running",
		})
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запускаем сервер
	go func() {
		log.Infof("Сервер запущен на %s", serverAddr)
		log.Infof("API доступно по адресу: http://localhost:%d/api/v1", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Остановка сервера...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Ошибка остановки сервера: %v", err)
	}
	log.Info("Сервер остановлен")
}

// newVerdictCache подключается к Redis, а если он не настроен или недоступен, хранит вердикты в памяти
func newVerdictCache(cfg *config.Config, log *logrus.Logger) cache.VerdictCache {
	if cfg.Redis.Address == "" {
		log.Info("Redis не настроен, вердикты хранятся в памяти")
		return cache.NewMemoryVerdictCache(cfg.Redis.VerdictTTL)
	}

	redisCache, err := cache.NewRedisVerdictCache(context.Background(), cache.RedisOptions{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.VerdictTTL,
	}, log)
	if err != nil {
		log.Warnf("Redis недоступен, вердикты хранятся в памяти: %v", err)
		return cache.NewMemoryVerdictCache(cfg.Redis.VerdictTTL)
	}
	return redisCache
}
