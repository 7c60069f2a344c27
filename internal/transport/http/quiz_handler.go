package http

import (
	"errors"
	"net/http"
	"time"

	"capitals-quiz-service/internal/app"
	"capitals-quiz-service/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuizHandler exposes the quiz session operations over REST.
type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// NewRouter builds the HTTP router: CORS for the browser client, a health
// endpoint, and the versioned quiz routes.
func NewRouter(service *app.QuizService, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "Origin"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	NewQuizHandler(service).Register(router)
	return router
}

// Register mounts the quiz routes.
func (h *QuizHandler) Register(r gin.IRouter) {
	quiz := r.Group("/v1/quiz")
	quiz.POST("", h.create)
	quiz.GET("/:sessionId/question", h.question)
	quiz.POST("/:sessionId/answer", h.answer)
	quiz.POST("/:sessionId/hint", h.hint)
	quiz.GET("/:sessionId/result", h.result)
}

type createRequest struct {
	Difficulty    string `json:"difficulty" binding:"required"`
	QuestionCount int    `json:"questionCount" binding:"required"`
}

func (h *QuizHandler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	config, err := h.service.CreateSession(c.Request.Context(), difficulty, req.QuestionCount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, config)
}

func (h *QuizHandler) question(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}
	question, err := h.service.CurrentQuestion(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, question)
}

type answerRequest struct {
	Selected string `json:"selected" binding:"required"`
}

func (h *QuizHandler) answer(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	answer, err := h.service.SubmitAnswer(c.Request.Context(), sessionID, req.Selected)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, answer)
}

type hintRequest struct {
	Kind string `json:"kind" binding:"required"`
}

func (h *QuizHandler) hint(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}
	var req hintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	kind, err := domain.ParseHintKind(req.Kind)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	hint, err := h.service.RequestHint(c.Request.Context(), sessionID, kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, hint)
}

func (h *QuizHandler) result(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}
	result, err := h.service.GetResult(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// parseSessionID validates the path parameter as a UUID before it reaches the engine.
func parseSessionID(c *gin.Context) (string, bool) {
	raw := c.Param("sessionId")
	if _, err := uuid.Parse(raw); err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, "session id must be a valid uuid")
		return "", false
	}
	return raw, true
}

const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeConflict   = "CONFLICT"
	codeBadRequest = "BAD_REQUEST"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, successEnvelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorEnvelope{Success: false, Error: errorBody{Message: message, Code: code}})
}

// respondServiceError maps engine failures onto transport status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrQuizCompleted), errors.Is(err, domain.ErrQuizInProgress):
		respondError(c, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrNoHintsRemaining), errors.Is(err, domain.ErrInsufficientData):
		respondError(c, http.StatusBadRequest, codeBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, codeBadRequest, err.Error())
	}
}
