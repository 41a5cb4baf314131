package ws

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"drill"
	"drill/store"
)

// maxAudioBytes bounds speech-to-text uploads.
const maxAudioBytes = 16 << 20

// Server wires the interview gateway and the REST collaborator endpoints
// into one HTTP handler.
type Server struct {
	engine      *gin.Engine
	gateway     *Gateway
	scorer      drill.Scorer
	store       *store.Store
	transcriber drill.Transcriber
	logger      *slog.Logger
}

// NewServer assembles the HTTP surface: the websocket interview endpoint,
// speech-to-text, final summary, and the persistence endpoints guarded by
// the user resolver.
func NewServer(
	gen drill.Generator,
	scorer drill.Scorer,
	st *store.Store,
	transcriber drill.Transcriber,
	resolver drill.UserResolver,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine:      gin.New(),
		gateway:     NewGateway(gen, scorer, logger),
		scorer:      scorer,
		store:       st,
		transcriber: transcriber,
		logger:      logger,
	}

	s.engine.Use(gin.Recovery())

	s.engine.GET("/interview", s.gateway.Handle)
	s.engine.POST("/stt", s.handleTranscribe)
	s.engine.POST("/generate-summary", s.handleSummary)

	authed := s.engine.Group("/", requireUser(resolver))
	authed.POST("/results", s.handleSaveResult)
	authed.GET("/results", s.handleListResults)
	authed.POST("/certificates", s.handleSaveCertificate)
	authed.GET("/certificates", s.handleListCertificates)
	authed.POST("/certificates/:id/mint", s.handleMintCertificate)
	authed.POST("/resume-analyses", s.handleSaveResumeAnalysis)
	authed.GET("/resume-analyses", s.handleListResumeAnalyses)

	return s
}

// Handler returns the assembled HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleTranscribe(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no audio file provided"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transcription failed"})
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transcription failed"})
		return
	}

	text := s.transcriber.Transcribe(c.Request.Context(), audio)
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (s *Server) handleSummary(c *gin.Context) {
	var req struct {
		Scores []drill.ScoreEntry `json:"scores"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	summary := s.scorer.FinalSummary(c.Request.Context(), req.Scores)
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (s *Server) handleSaveResult(c *gin.Context) {
	var req struct {
		Role       string             `json:"role"`
		Transcript []drill.Turn       `json:"transcript"`
		Scores     []drill.ScoreEntry `json:"scores"`
		Summary    string             `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := s.store.SaveResult(c.Request.Context(), store.Result{
		UserID:     currentUser(c),
		Role:       req.Role,
		Transcript: req.Transcript,
		Scores:     req.Scores,
		Summary:    req.Summary,
	})
	if err != nil {
		s.logger.Error("save result failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleListResults(c *gin.Context) {
	results, err := s.store.ListResults(c.Request.Context(), currentUser(c))
	if err != nil {
		s.logger.Error("list results failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if results == nil {
		results = []store.Result{}
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleSaveCertificate(c *gin.Context) {
	var req struct {
		Role  string `json:"role"`
		Score int    `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := s.store.SaveCertificate(c.Request.Context(), store.Certificate{
		UserID: currentUser(c),
		Role:   req.Role,
		Score:  req.Score,
	})
	if err != nil {
		s.logger.Error("save certificate failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleListCertificates(c *gin.Context) {
	certs, err := s.store.ListCertificates(c.Request.Context(), currentUser(c))
	if err != nil {
		s.logger.Error("list certificates failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if certs == nil {
		certs = []store.Certificate{}
	}
	c.JSON(http.StatusOK, certs)
}

func (s *Server) handleMintCertificate(c *gin.Context) {
	err := s.store.MarkCertificateMinted(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"minted": true})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
	default:
		s.logger.Error("mint certificate failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mint failed"})
	}
}

func (s *Server) handleSaveResumeAnalysis(c *gin.Context) {
	var req struct {
		Analysis json.RawMessage `json:"analysis"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	saved, err := s.store.SaveResumeAnalysis(c.Request.Context(), store.ResumeAnalysis{
		UserID:   currentUser(c),
		Analysis: req.Analysis,
	})
	if err != nil {
		s.logger.Error("save resume analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleListResumeAnalyses(c *gin.Context) {
	analyses, err := s.store.ListResumeAnalyses(c.Request.Context(), currentUser(c))
	if err != nil {
		s.logger.Error("list resume analyses failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if analyses == nil {
		analyses = []store.ResumeAnalysis{}
	}
	c.JSON(http.StatusOK, analyses)
}
