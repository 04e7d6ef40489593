package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"botworkshop/internal/adapter/repo"
	"botworkshop/internal/http/handlers"
	"botworkshop/internal/http/httpapi"
	"botworkshop/internal/infra"
	"botworkshop/internal/infra/geoip"
	"botworkshop/internal/middleware"
	"botworkshop/internal/providers/bgremover"
	"botworkshop/internal/providers/deepseek"
	"botworkshop/internal/providers/minimax"
	"botworkshop/internal/providers/xai"
	"botworkshop/internal/storage"
	"botworkshop/internal/voicecache"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	uploads, err := storage.NewFileStore(cfg.UploadPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload directory")
	}

	videoGen, err := xai.NewClient(xai.Options{
		APIKey:  cfg.XAIAPIKey,
		BaseURL: cfg.XAIBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build xai client")
	}
	remover, err := bgremover.NewClient(bgremover.Options{
		APIKey:  cfg.BGRemoverAPIKey,
		BaseURL: cfg.BGRemoverBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build background remover client")
	}
	speech, err := minimax.NewClient(minimax.Options{
		Token:   cfg.MiniMaxToken,
		BaseURL: cfg.MiniMaxBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build minimax client")
	}
	chat, err := deepseek.NewClient(deepseek.Options{
		APIKey:  cfg.DeepSeekAPIKey,
		BaseURL: cfg.DeepSeekBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build deepseek client")
	}

	app := &handlers.App{
		Logger:        logger,
		Bots:          repo.NewBotRepository(dbpool),
		Generator:     videoGen,
		Remover:       remover,
		Images:        videoGen,
		Speech:        speech,
		Chat:          chat,
		Uploads:       uploads,
		Voices:        voicecache.New(cfg.RedisURL, 0),
		PublicBaseURL: cfg.PublicBaseURL,
		PollInterval:  cfg.VideoPollInterval,
		PollAttempts:  cfg.VideoPollAttempts,
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, locale falls back to headers")
	} else if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		FrontendURL:    cfg.FrontendURL,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  lookup,
		RateLimitPerIP: cfg.RateLimitPerMin,
		UploadDir:      uploads.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
