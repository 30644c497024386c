package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "crewdesk/internal/adapter/db"
	httpadapter "crewdesk/internal/adapter/http"
	"crewdesk/internal/adapter/http/handlers"
	httpmiddleware "crewdesk/internal/adapter/http/middleware"
	"crewdesk/internal/app/service"
	"crewdesk/internal/config"
	"crewdesk/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	store := dbadapter.NewStore(db)
	taskService := service.NewTaskService(store)
	templateService := service.NewTemplateService(store)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		httpmiddleware.RequestIDMiddleware(),
		httpmiddleware.GinZapMiddleware(logger),
		httpmiddleware.MetricsMiddleware(),
	)
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	healthHandler := handlers.NewHealthHandler(db)
	taskHandler := handlers.NewTaskHandler(taskService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler, templateHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
