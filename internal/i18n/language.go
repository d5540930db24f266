// Package i18n localizes user-facing soil health strings and keeps each
// user's language choice behind an explicit store.
package i18n

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Language is a supported UI language code.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Punjabi Language = "pa"
)

// DefaultLanguage is used when a user never picked one.
const DefaultLanguage = English

// ErrUnsupportedLanguage is returned for codes outside en, hi and pa.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ParseLanguage validates a language code.
func ParseLanguage(code string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	switch lang {
	case English, Hindi, Punjabi:
		return lang, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
}

// PreferenceStore persists language choices per user. LoadLanguage returns
// an empty Language and no error when nothing was saved yet.
type PreferenceStore interface {
	LoadLanguage(ctx context.Context, userID string) (Language, error)
	SaveLanguage(ctx context.Context, userID string, lang Language) error
}

// Preferences resolves and updates a user's language through a store.
type Preferences struct {
	store  PreferenceStore
	logger *zap.Logger
}

// NewPreferences wires a preference service on top of store.
func NewPreferences(store PreferenceStore, logger *zap.Logger) *Preferences {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preferences{store: store, logger: logger}
}

// Language returns the saved language of userID, or DefaultLanguage when
// none was saved or the stored value is no longer supported.
func (p *Preferences) Language(ctx context.Context, userID string) (Language, error) {
	saved, err := p.store.LoadLanguage(ctx, userID)
	if err != nil {
		return DefaultLanguage, fmt.Errorf("load language: %w", err)
	}
	if saved == "" {
		return DefaultLanguage, nil
	}
	lang, err := ParseLanguage(string(saved))
	if err != nil {
		p.logger.Warn("stored language no longer supported", zap.String("user_id", userID), zap.String("language", string(saved)))
		return DefaultLanguage, nil
	}
	return lang, nil
}

// SetLanguage validates code and saves it for userID.
func (p *Preferences) SetLanguage(ctx context.Context, userID, code string) (Language, error) {
	lang, err := ParseLanguage(code)
	if err != nil {
		return "", err
	}
	if err := p.store.SaveLanguage(ctx, userID, lang); err != nil {
		return "", fmt.Errorf("save language: %w", err)
	}
	return lang, nil
}
