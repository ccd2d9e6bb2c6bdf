package main

import (
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"careplan-assistant/internal/config"
	"careplan-assistant/internal/core"
	httpserver "careplan-assistant/internal/http"
	"careplan-assistant/internal/llm"
	"careplan-assistant/internal/session"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Local development reads a .env file; in production the variables are
	// already in the environment, so a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	llmClient := llm.NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.Temperature)
	service := core.NewCarePlanService(llmClient, core.NewKeywordGate(), log)
	sessions := session.NewManager()

	srv, err := httpserver.NewServer(sessions, service, log)
	if err != nil {
		log.Fatalf("failed to construct server: %v", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithFields(logrus.Fields{"addr": addr, "model": cfg.Model}).Info("listening")
	httpSrv := &http.Server{
		Addr:        addr,
		Handler:     srv,
		ReadTimeout: cfg.RequestTimeout,
		// Model calls run inside the handler, so the write timeout must
		// cover the full completion latency.
		WriteTimeout: cfg.RequestTimeout,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
