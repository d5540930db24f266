package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/i18n"
)

// LanguagePreferences resolves and stores each user's UI language.
type LanguagePreferences interface {
	Language(ctx context.Context, userID string) (i18n.Language, error)
	SetLanguage(ctx context.Context, userID, code string) (i18n.Language, error)
}

// LanguageHandler serves the language preference of the current user.
type LanguageHandler struct {
	prefs  LanguagePreferences
	logger *zap.Logger
}

// NewLanguageHandler constructs the HTTP handler adapter.
func NewLanguageHandler(prefs LanguagePreferences, logger *zap.Logger) *LanguageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LanguageHandler{prefs: prefs, logger: logger}
}

type languageBody struct {
	Language string `json:"language" binding:"required"`
}

// Get returns the saved language, English when none. A ?lang= override
// applies to localized views only and is not reported here.
func (h *LanguageHandler) Get(c *gin.Context) {
	lang, err := h.prefs.Language(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Warn("language lookup failed", zap.String("user_id", userID(c)), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"language": lang})
}

// Set saves a new language.
func (h *LanguageHandler) Set(c *gin.Context) {
	var body languageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	lang, err := h.prefs.SetLanguage(c.Request.Context(), userID(c), body.Language)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": lang})
}

// resolveLanguage prefers a valid ?lang= override, then the stored choice.
// Store failures degrade to the default language.
func resolveLanguage(c *gin.Context, prefs LanguagePreferences, logger *zap.Logger) i18n.Language {
	if code := c.Query("lang"); code != "" {
		if lang, err := i18n.ParseLanguage(code); err == nil {
			return lang
		}
	}
	lang, err := prefs.Language(c.Request.Context(), userID(c))
	if err != nil {
		logger.Warn("language lookup failed", zap.String("user_id", userID(c)), zap.Error(err))
	}
	return lang
}
