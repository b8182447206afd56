package api

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/maazxd/ai-news-analyzer/internal/classifier"
	"github.com/maazxd/ai-news-analyzer/internal/store"
	"github.com/maazxd/ai-news-analyzer/internal/util"
	"github.com/maazxd/ai-news-analyzer/internal/verify"
)

const excerptLimit = 280

// Config defines server dependencies.
type Config struct {
	DBPath             string
	AllowedOrigins     []string
	SilentDB           bool
	Lexical            classifier.LexicalConfig
	ZeroShot           classifier.ZeroShotConfig
	DisableClassifiers bool
}

// Server wires HTTP handlers with persistence and scoring.
type Server struct {
	db             *store.Database
	scorer         *verify.Scorer
	zeroshot       *classifier.ZeroShotClient
	lexicalEnabled bool
	allowedOrigins []string
	notifier       *VerifyNotifier
	jobMu          sync.Mutex
	activeJob      *batchJob
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	var lexical verify.LexicalClassifier
	var zeroshotHandle verify.ZeroShotClassifier
	var zeroshotClient *classifier.ZeroShotClient

	if cfg.DisableClassifiers {
		logrus.Info("external classifiers disabled via configuration")
	} else {
		if client, err := classifier.NewLexicalClient(cfg.Lexical); err == nil {
			lexical = client
			logrus.WithField("base_url", cfg.Lexical.BaseURL).Info("lexical classifier enabled")
		} else if errors.Is(err, classifier.ErrDisabled) {
			logrus.Info("lexical classifier disabled - no endpoint configured")
		} else {
			return nil, fmt.Errorf("lexical client: %w", err)
		}

		if client, err := classifier.NewZeroShotClient(cfg.ZeroShot); err == nil {
			zeroshotHandle = client
			zeroshotClient = client
			logrus.WithField("base_url", cfg.ZeroShot.BaseURL).Info("zero-shot classifier enabled")
		} else if errors.Is(err, classifier.ErrDisabled) {
			logrus.Info("zero-shot classifier disabled - no endpoint configured")
		} else {
			return nil, fmt.Errorf("zero-shot client: %w", err)
		}
	}

	return &Server{
		db:             db,
		scorer:         verify.NewScorer(lexical, zeroshotHandle),
		zeroshot:       zeroshotClient,
		lexicalEnabled: lexical != nil,
		allowedOrigins: cfg.AllowedOrigins,
		notifier:       NewVerifyNotifier(),
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.POST("/verify", s.handleVerify)
		api.POST("/verify/batch", s.handleBatchVerify)
		api.GET("/verify/status", s.handleBatchStatus)
		api.DELETE("/verify/:jobID", s.handleCancelBatch)
		api.GET("/verify/stream", s.handleStream)
		api.GET("/verifications", s.handleListVerifications)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export.json", s.handleExportJSON)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	total, err := s.db.CountVerifications()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lexical_enabled":      s.lexicalEnabled,
		"zeroshot_enabled":     s.zeroshot.Enabled(),
		"verification_records": total,
	})
}

func (s *Server) handleVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	dto, result, leaningScores, err := s.scoreAndPersist(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	s.notifier.Broadcast(VerifyEvent{Type: "verification", Verification: &dto})

	c.JSON(http.StatusOK, VerifyResponse{
		Verification:  dto,
		Quality:       result.Quality,
		Bias:          result.Bias,
		LeaningScores: leaningScores,
	})
}

// scoreAndPersist runs the scorer on one request and stores the outcome.
func (s *Server) scoreAndPersist(ctx context.Context, req VerifyRequest) (VerificationDTO, verify.Result, map[string]float64, error) {
	text := combinedText(req)
	timer := util.StartTimer()

	result := s.scorer.Score(ctx, verify.Document{
		Text:      text,
		SourceURL: req.SourceURL,
	})

	leaning := ""
	var leaningScores map[string]float64
	if s.zeroshot.Enabled() && !result.Opinion {
		if top, scores, err := s.zeroshot.PoliticalLeaning(ctx, text); err == nil {
			leaning = top
			leaningScores = scores
		} else {
			logrus.WithError(err).Debug("political leaning classification failed")
		}
	}

	row := store.Verification{
		RequestID:           uuid.NewString(),
		TextHash:            store.HashText(text),
		SourceURL:           strings.TrimSpace(req.SourceURL),
		Excerpt:             store.ExcerptOf(text, excerptLimit),
		WordCount:           len(strings.Fields(text)),
		Opinion:             result.Opinion,
		Probability:         result.Probability,
		Verdict:             string(result.Verdict),
		Certainty:           string(result.Certainty),
		ConfidencePct:       result.ConfidencePct,
		BaseProbability:     result.BaseSignal.Probability,
		BaseAvailable:       result.BaseSignal.Available,
		ZeroShotProbability: result.ZeroShotSignal.Probability,
		ZeroShotAvailable:   result.ZeroShotSignal.Available,
		QualityScore:        result.Quality.Score,
		BiasScore:           result.Bias.Score,
		PoliticalLeaning:    leaning,
		Note:                result.Note,
		ProcessingTimeMs:    timer.ElapsedMs(),
	}
	if err := s.db.SaveVerification(&row); err != nil {
		return VerificationDTO{}, result, nil, fmt.Errorf("save verification: %w", err)
	}
	return FromModel(row), result, leaningScores, nil
}

func combinedText(req VerifyRequest) string {
	parts := make([]string, 0, 2)
	if title := strings.TrimSpace(req.Title); title != "" {
		parts = append(parts, title)
	}
	if text := strings.TrimSpace(req.Text); text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, ". ")
}

func (s *Server) handleListVerifications(c *gin.Context) {
	opts := store.VerificationQuery{
		Query:   strings.TrimSpace(c.Query("q")),
		Verdict: strings.TrimSpace(c.Query("verdict")),
		Sort:    c.Query("sort"),
		Offset:  intQuery(c, "offset", 0),
		Limit:   intQuery(c, "limit", 50),
	}
	if v, err := strconv.ParseFloat(c.Query("min_probability"), 64); err == nil {
		opts.MinProbability = v
	}
	if v, err := strconv.ParseFloat(c.Query("max_probability"), 64); err == nil {
		opts.MaxProbability = v
	}
	if c.Query("opinion") == "true" {
		opts.OpinionOnly = true
	}

	rows, total, err := s.db.ListVerifications(opts)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	items := make([]VerificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}
	c.JSON(http.StatusOK, VerificationsResponse{Items: items, Total: total})
}

func (s *Server) handleExportJSON(c *gin.Context) {
	rows, total, err := s.db.ListVerifications(store.VerificationQuery{Sort: "created_desc"})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	items := make([]VerificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}
	c.Header("Content-Disposition", `attachment; filename="verifications.json"`)
	c.JSON(http.StatusOK, VerificationsResponse{Items: items, Total: total})
}

func (s *Server) handleExportCSV(c *gin.Context) {
	rows, _, err := s.db.ListVerifications(store.VerificationQuery{Sort: "created_desc"})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="verifications.csv"`)

	writer := csv.NewWriter(c.Writer)
	header := []string{
		"id", "source_url", "excerpt", "word_count", "opinion", "probability",
		"verdict", "certainty", "confidence_pct", "quality_score", "bias_score",
		"political_leaning", "created_at",
	}
	if err := writer.Write(header); err != nil {
		logrus.WithError(err).Warn("write csv header")
		return
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.SourceURL,
			row.Excerpt,
			strconv.Itoa(row.WordCount),
			strconv.FormatBool(row.Opinion),
			strconv.FormatFloat(row.Probability, 'f', 3, 64),
			row.Verdict,
			row.Certainty,
			strconv.Itoa(row.ConfidencePct),
			strconv.FormatFloat(row.QualityScore, 'f', 3, 64),
			strconv.Itoa(row.BiasScore),
			row.PoliticalLeaning,
			row.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := writer.Write(record); err != nil {
			logrus.WithError(err).Warn("write csv record")
			return
		}
	}
	writer.Flush()
}

func (s *Server) handleStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade")
		return
	}

	client := s.notifier.Register(conn)
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	logrus.WithError(err).WithField("path", c.FullPath()).Warn("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v >= 0 {
		return v
	}
	return fallback
}
