package i18n

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agricure/internal/soilhealth"
)

type memoryStore struct {
	mu      sync.Mutex
	saved   map[string]Language
	loadErr error
}

func (m *memoryStore) LoadLanguage(_ context.Context, userID string) (Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.saved[userID], nil
}

func (m *memoryStore) SaveLanguage(_ context.Context, userID string, lang Language) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = map[string]Language{}
	}
	m.saved[userID] = lang
	return nil
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage(" HI ")
	require.NoError(t, err)
	assert.Equal(t, Hindi, lang)

	_, err = ParseLanguage("fr")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	prefs := NewPreferences(&memoryStore{}, nil)

	lang, err := prefs.Language(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, English, lang, "default before anything is saved")

	saved, err := prefs.SetLanguage(ctx, "u1", "pa")
	require.NoError(t, err)
	assert.Equal(t, Punjabi, saved)

	lang, err = prefs.Language(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Punjabi, lang)

	_, err = prefs.SetLanguage(ctx, "u1", "de")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestPreferencesFallsBackOnStaleValueAndErrors(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{saved: map[string]Language{"u1": "ta"}}
	prefs := NewPreferences(store, nil)

	lang, err := prefs.Language(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, English, lang)

	store.loadErr = errors.New("boom")
	lang, err = prefs.Language(ctx, "u1")
	assert.Error(t, err)
	assert.Equal(t, English, lang)
}

func TestTranslateFallbacks(t *testing.T) {
	assert.Equal(t, "समग्र मिट्टी स्वास्थ्य", T(Hindi, KeyOverallSoilHealth))
	assert.Equal(t, "Overall Soil Health", T(Language("xx"), KeyOverallSoilHealth))
	assert.Equal(t, "missing.key", T(Punjabi, "missing.key"))
}

func TestEveryLanguageCoversEnglishKeys(t *testing.T) {
	for lang, table := range translations {
		for key := range translations[English] {
			_, ok := table[key]
			assert.True(t, ok, "%s lacks %s", lang, key)
		}
	}
}

func TestSoilHealthLabels(t *testing.T) {
	for _, c := range soilhealth.Categories {
		assert.Equal(t, string(c), CategoryLabel(English, c))
		assert.Equal(t, c.Recommendation(), Advice(English, c))
		assert.NotEqual(t, CategoryLabel(English, c), CategoryLabel(Hindi, c))
	}
	assert.Equal(t, "Moderate", CategoryLabel(Hindi, soilhealth.Category("Moderate")))
	assert.Equal(t, "ਗੰਭੀਰ", StatusLabel(Punjabi, soilhealth.StatusCritical))
	assert.Equal(t, "Needs Attention", StatusLabel(English, soilhealth.StatusNeedsAttention))
}
