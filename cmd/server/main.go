package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/maazxd/ai-news-analyzer/internal/api"
	"github.com/maazxd/ai-news-analyzer/internal/classifier"
)

func main() {
	if err := godotenv.Load(); err == nil {
		logrus.Info("loaded environment from .env")
	}

	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.Fatalf("create data directory: %v", err)
	}

	lexicalCfg := classifier.LexicalConfig{
		BaseURL: os.Getenv("LEXICAL_BASE_URL"),
	}
	if timeout := os.Getenv("LEXICAL_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			lexicalCfg.Timeout = d
		}
	}

	zeroshotCfg := classifier.ZeroShotConfig{
		BaseURL: os.Getenv("ZEROSHOT_BASE_URL"),
	}
	if timeout := os.Getenv("ZEROSHOT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			zeroshotCfg.Timeout = d
		}
	}

	var allowedOrigins []string
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	cfg := api.Config{
		DBPath:             filepath.Join(dataDir, "news-analyzer.db"),
		AllowedOrigins:     allowedOrigins,
		Lexical:            lexicalCfg,
		ZeroShot:           zeroshotCfg,
		DisableClassifiers: strings.EqualFold(strings.TrimSpace(os.Getenv("DISABLE_CLASSIFIERS")), "true"),
	}

	if override := strings.TrimSpace(os.Getenv("NEWS_ANALYZER_DB_PATH")); override != "" {
		cfg.DBPath = override
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "2000"
	}

	logrus.Infof("starting ai-news-analyzer backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
