package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/internal/i18n"
	"github.com/mamadbah2/agricure/internal/service/auth"
	"github.com/mamadbah2/agricure/internal/service/dashboard"
	"github.com/mamadbah2/agricure/internal/service/farms"
	"github.com/mamadbah2/agricure/internal/service/recommendations"
	"github.com/mamadbah2/agricure/internal/soilhealth"
)

var healthySoil = models.SoilReading{
	Nitrogen: 80, Phosphorus: 25, Potassium: 200, PH: 6.8,
	ElectricalConductivity: 1.0, SoilMoisture: 50, SoilTemperature: 25,
	Source: models.SourceThingSpeak,
}

// engine mounts routes behind a middleware that authenticates as "u1".
func engine(register func(r *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/", func(c *gin.Context) { c.Set(UserIDKey, "u1") })
	register(g)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", farms.ErrInvalidFarm), http.StatusBadRequest},
		{recommendations.ErrInvalidRecommendation, http.StatusBadRequest},
		{i18n.ErrUnsupportedLanguage, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("get farm: %w", models.ErrNotFound), http.StatusNotFound},
		{recommendations.ErrNoEnhancement, http.StatusNotFound},
		{auth.ErrEmailTaken, http.StatusConflict},
		{fmt.Errorf("%w: timeout", recommendations.ErrUpstream), http.StatusBadGateway},
		{recommendations.ErrEnhancementUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

type fakeAuth struct {
	signUpErr error
	lastID    string
}

func (f *fakeAuth) SignUp(_ context.Context, req models.SignUpRequest) (models.AuthResponse, error) {
	if f.signUpErr != nil {
		return models.AuthResponse{}, f.signUpErr
	}
	return models.AuthResponse{Token: "tok", User: models.User{ID: "u1", Email: req.Email}}, nil
}

func (f *fakeAuth) SignIn(_ context.Context, req models.SignInRequest) (models.AuthResponse, error) {
	if req.Password != "correct-horse" {
		return models.AuthResponse{}, auth.ErrInvalidCredentials
	}
	return models.AuthResponse{Token: "tok"}, nil
}

func (f *fakeAuth) Profile(_ context.Context, id string) (models.User, error) {
	f.lastID = id
	return models.User{ID: id, FullName: "Farmer"}, nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, id string, up models.ProfileUpdate) (models.User, error) {
	return models.User{ID: id, FullName: *up.FullName}, nil
}

func (f *fakeAuth) ChangePassword(context.Context, string, models.PasswordChange) error {
	return auth.ErrInvalidCredentials
}

func TestAuthHandler(t *testing.T) {
	svc := &fakeAuth{}
	h := NewAuthHandler(svc, nil)
	r := engine(func(g *gin.RouterGroup) {
		g.POST("/signup", h.SignUp)
		g.POST("/login", h.SignIn)
		g.GET("/me", h.Me)
		g.PUT("/me", h.UpdateMe)
		g.POST("/me/password", h.ChangePassword)
	})

	signUp := models.SignUpRequest{Email: "a@b.c", Password: "correct-horse", FullName: "A", PhoneNumber: "1", ProductKey: "K"}
	w := do(t, r, http.MethodPost, "/signup", signUp)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tok", decode[models.AuthResponse](t, w).Token)

	svc.signUpErr = auth.ErrEmailTaken
	w = do(t, r, http.MethodPost, "/signup", signUp)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, auth.ErrEmailTaken.Error(), decode[map[string]string](t, w)["error"])

	w = do(t, r, http.MethodPost, "/signup", map[string]string{"email": "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/login", models.SignInRequest{Email: "a@b.c", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", svc.lastID)

	name := "B"
	w = do(t, r, http.MethodPut, "/me", models.ProfileUpdate{FullName: &name})
	assert.Equal(t, "B", decode[models.User](t, w).FullName)

	w = do(t, r, http.MethodPost, "/me/password", models.PasswordChange{CurrentPassword: "x", NewPassword: "y"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type memoryPrefs struct{ saved map[string]i18n.Language }

func (m *memoryPrefs) Language(_ context.Context, id string) (i18n.Language, error) {
	if lang, ok := m.saved[id]; ok {
		return lang, nil
	}
	return i18n.DefaultLanguage, nil
}

func (m *memoryPrefs) SetLanguage(_ context.Context, id, code string) (i18n.Language, error) {
	lang, err := i18n.ParseLanguage(code)
	if err != nil {
		return "", err
	}
	m.saved[id] = lang
	return lang, nil
}

func TestLanguageHandler(t *testing.T) {
	prefs := &memoryPrefs{saved: map[string]i18n.Language{}}
	h := NewLanguageHandler(prefs, nil)
	r := engine(func(g *gin.RouterGroup) {
		g.GET("/language", h.Get)
		g.PUT("/language", h.Set)
	})

	w := do(t, r, http.MethodGet, "/language", nil)
	assert.Equal(t, "en", decode[map[string]string](t, w)["language"])

	w = do(t, r, http.MethodPut, "/language", map[string]string{"language": "pa"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, i18n.Punjabi, prefs.saved["u1"])

	w = do(t, r, http.MethodPut, "/language", map[string]string{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLanguageHandlerGetIgnoresQueryOverride(t *testing.T) {
	prefs := &memoryPrefs{saved: map[string]i18n.Language{}}
	h := NewLanguageHandler(prefs, nil)
	r := engine(func(g *gin.RouterGroup) { g.GET("/language", h.Get) })

	w := do(t, r, http.MethodGet, "/language?lang=hi", nil)
	assert.Equal(t, "en", decode[map[string]string](t, w)["language"])

	prefs.saved["u1"] = i18n.Punjabi
	w = do(t, r, http.MethodGet, "/language?lang=hi", nil)
	assert.Equal(t, string(i18n.Punjabi), decode[map[string]string](t, w)["language"])
}

type fakeTelemetry struct{ lastN int }

func (f *fakeTelemetry) LatestSoil(context.Context) models.SoilReading { return healthySoil }

func (f *fakeTelemetry) SoilHistory(_ context.Context, n int) []models.SoilReading {
	f.lastN = n
	return []models.SoilReading{healthySoil, healthySoil}
}

func (f *fakeTelemetry) LatestEnvironment(context.Context) models.EnvironmentReading {
	return models.EnvironmentReading{Temperature: 31, Humidity: 60}
}

func (f *fakeTelemetry) EnvironmentHistory(_ context.Context, n int) []models.EnvironmentReading {
	f.lastN = n
	return make([]models.EnvironmentReading, 3)
}

type fakeDashboard struct{ lang i18n.Language }

func (f *fakeDashboard) Overview(_ context.Context, lang i18n.Language) dashboard.Overview {
	f.lang = lang
	return dashboard.Overview{Language: lang, Soil: healthySoil, Health: dashboard.Localize(healthySoil, lang)}
}

func (f *fakeDashboard) Trend(_ context.Context, n int) []soilhealth.TrendPoint {
	return soilhealth.Trend([]models.SoilReading{healthySoil})
}

type fakeSnapshots struct {
	limit int
	err   error
}

func (f *fakeSnapshots) RecentSnapshots(_ context.Context, limit int) ([]models.HealthSnapshot, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []models.HealthSnapshot{soilhealth.Snapshot(healthySoil, time.Now())}, nil
}

func TestSoilHandler(t *testing.T) {
	tel := &fakeTelemetry{}
	dash := &fakeDashboard{}
	snaps := &fakeSnapshots{}
	prefs := &memoryPrefs{saved: map[string]i18n.Language{"u1": i18n.Hindi}}
	h := NewSoilHandler(dash, tel, prefs, snaps, nil)
	r := engine(func(g *gin.RouterGroup) {
		g.GET("/soil/latest", h.Latest)
		g.GET("/soil/history", h.History)
		g.GET("/soil/trend", h.Trend)
		g.POST("/soil/score", h.Score)
		g.GET("/soil/snapshots", h.Snapshots)
		g.GET("/environment/latest", h.LatestEnvironment)
		g.GET("/environment/history", h.EnvironmentHistory)
	})

	t.Run("latest uses stored language", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/soil/latest", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, i18n.Hindi, dash.lang)
		ov := decode[dashboard.Overview](t, w)
		assert.Equal(t, i18n.T(i18n.Hindi, i18n.KeyOverallSoilHealth), ov.Health.Title)
	})

	t.Run("latest honours query override", func(t *testing.T) {
		do(t, r, http.MethodGet, "/soil/latest?lang=pa", nil)
		assert.Equal(t, i18n.Punjabi, dash.lang)
		do(t, r, http.MethodGet, "/soil/latest?lang=zz", nil)
		assert.Equal(t, i18n.Hindi, dash.lang)
	})

	t.Run("history", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/soil/history?results=12", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 12, tel.lastN)
		assert.Len(t, decode[[]models.SoilReading](t, w), 2)

		do(t, r, http.MethodGet, "/soil/history?results=99999", nil)
		assert.Equal(t, maxHistory, tel.lastN)

		w = do(t, r, http.MethodGet, "/soil/history?results=-1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("trend", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/soil/trend", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]soilhealth.TrendPoint](t, w), 1)
	})

	t.Run("score", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/soil/score?lang=en", healthySoil)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Reading models.SoilReading `json:"reading"`
			Health  dashboard.Health   `json:"health"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, models.SourceManual, body.Reading.Source)
		assert.Equal(t, soilhealth.Score(healthySoil).OverallScore, body.Health.OverallScore)
		assert.Len(t, body.Health.Parameters, 7)

		w = do(t, r, http.MethodPost, "/soil/score", `{"nitrogen": "lots"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, r, http.MethodPost, "/soil/score", `{"nitrogen": 1e999}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("snapshots", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/soil/snapshots", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, defaultSnapshots, snaps.limit)

		snaps.err = errors.New("mongo down")
		w = do(t, r, http.MethodGet, "/soil/snapshots?limit=5", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", decode[map[string]string](t, w)["error"])
	})

	t.Run("environment", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/environment/latest", nil)
		assert.Equal(t, 31.0, decode[models.EnvironmentReading](t, w).Temperature)

		w = do(t, r, http.MethodGet, "/environment/history?results=3", nil)
		assert.Len(t, decode[[]models.EnvironmentReading](t, w), 3)
	})
}

func TestSoilHandlerWithoutSnapshotStore(t *testing.T) {
	h := NewSoilHandler(&fakeDashboard{}, &fakeTelemetry{}, &memoryPrefs{}, nil, nil)
	r := engine(func(g *gin.RouterGroup) { g.GET("/soil/snapshots", h.Snapshots) })

	w := do(t, r, http.MethodGet, "/soil/snapshots", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

type fakeFarms struct{ farms map[string]models.Farm }

func (f *fakeFarms) Create(_ context.Context, uid string, in models.FarmInput) (models.Farm, error) {
	if in.Size <= 0 {
		return models.Farm{}, farms.ErrInvalidFarm
	}
	farm := models.Farm{ID: "f1", UserID: uid, Name: in.Name, Size: in.Size, Unit: in.Unit}
	f.farms[farm.ID] = farm
	return farm, nil
}

func (f *fakeFarms) List(_ context.Context, uid string) ([]models.Farm, error) {
	out := []models.Farm{}
	for _, farm := range f.farms {
		if farm.UserID == uid {
			out = append(out, farm)
		}
	}
	return out, nil
}

func (f *fakeFarms) Get(_ context.Context, uid, id string) (models.Farm, error) {
	farm, ok := f.farms[id]
	if !ok {
		return models.Farm{}, models.ErrNotFound
	}
	if farm.UserID != uid {
		return models.Farm{}, models.ErrForbidden
	}
	return farm, nil
}

func (f *fakeFarms) Update(ctx context.Context, uid, id string, up models.FarmUpdate) (models.Farm, error) {
	farm, err := f.Get(ctx, uid, id)
	if err != nil {
		return models.Farm{}, err
	}
	if up.Name != nil {
		farm.Name = *up.Name
	}
	f.farms[id] = farm
	return farm, nil
}

func (f *fakeFarms) Delete(ctx context.Context, uid, id string) error {
	if _, err := f.Get(ctx, uid, id); err != nil {
		return err
	}
	delete(f.farms, id)
	return nil
}

func (f *fakeFarms) Stats(ctx context.Context, uid string) (models.FarmStats, error) {
	list, _ := f.List(ctx, uid)
	return farms.Summarize(list), nil
}

func TestFarmHandler(t *testing.T) {
	store := &fakeFarms{farms: map[string]models.Farm{
		"other": {ID: "other", UserID: "u2", Name: "Not mine", Size: 1, Unit: models.UnitHectares},
	}}
	h := NewFarmHandler(store, nil)
	r := engine(func(g *gin.RouterGroup) {
		g.GET("/farms", h.List)
		g.POST("/farms", h.Create)
		g.GET("/farms/stats", h.Stats)
		g.GET("/farms/:id", h.Get)
		g.PUT("/farms/:id", h.Update)
		g.DELETE("/farms/:id", h.Delete)
	})

	in := models.FarmInput{Name: "North", Size: 2.5, Unit: models.UnitAcres, CropType: "wheat"}
	w := do(t, r, http.MethodPost, "/farms", in)
	require.Equal(t, http.StatusCreated, w.Code)

	in.Size = -1
	w = do(t, r, http.MethodPost, "/farms", in)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/farms", nil)
	assert.Len(t, decode[[]models.Farm](t, w), 1)

	w = do(t, r, http.MethodGet, "/farms/stats", nil)
	stats := decode[models.FarmStats](t, w)
	assert.Equal(t, 1, stats.TotalFarms)
	assert.InDelta(t, 1.01, stats.TotalSize, 0.001)

	name := "South"
	w = do(t, r, http.MethodPut, "/farms/f1", models.FarmUpdate{Name: &name})
	assert.Equal(t, "South", decode[models.Farm](t, w).Name)

	w = do(t, r, http.MethodGet, "/farms/other", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodDelete, "/farms/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/farms/f1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type fakeRecommendations struct {
	enhanceErr error
	reading    *models.SoilReading
	limit      int
}

func (f *fakeRecommendations) Create(_ context.Context, uid string, in models.RecommendationInput) (models.Recommendation, error) {
	return models.Recommendation{ID: "r1", UserID: uid, FieldName: in.FieldName, Status: models.StatusPending}, nil
}

func (f *fakeRecommendations) List(_ context.Context, _ string, limit int) ([]models.Recommendation, error) {
	f.limit = limit
	return []models.Recommendation{}, nil
}

func (f *fakeRecommendations) Get(_ context.Context, uid, id string) (models.Recommendation, error) {
	if id != "r1" {
		return models.Recommendation{}, models.ErrNotFound
	}
	return models.Recommendation{ID: id, UserID: uid}, nil
}

func (f *fakeRecommendations) UpdateStatus(_ context.Context, uid, id string, status models.RecommendationStatus) (models.Recommendation, error) {
	if !status.Valid() {
		return models.Recommendation{}, recommendations.ErrInvalidRecommendation
	}
	return models.Recommendation{ID: id, UserID: uid, Status: status}, nil
}

func (f *fakeRecommendations) Delete(context.Context, string, string) error { return nil }

func (f *fakeRecommendations) Plan(context.Context, string, string) (models.FertilizerPlan, error) {
	return models.FertilizerPlan{}, recommendations.ErrNoEnhancement
}

func (f *fakeRecommendations) Enhance(_ context.Context, uid, id string, reading *models.SoilReading) (models.Recommendation, models.FertilizerPlan, error) {
	f.reading = reading
	if f.enhanceErr != nil {
		return models.Recommendation{}, models.FertilizerPlan{}, f.enhanceErr
	}
	return models.Recommendation{ID: id, UserID: uid}, models.FertilizerPlan{}, nil
}

func TestRecommendationHandler(t *testing.T) {
	svc := &fakeRecommendations{}
	h := NewRecommendationHandler(svc, &fakeTelemetry{}, nil)
	r := engine(func(g *gin.RouterGroup) {
		g.GET("/recommendations", h.List)
		g.POST("/recommendations", h.Create)
		g.GET("/recommendations/:id", h.Get)
		g.PATCH("/recommendations/:id", h.UpdateStatus)
		g.DELETE("/recommendations/:id", h.Delete)
		g.GET("/recommendations/:id/plan", h.Plan)
		g.POST("/recommendations/:id/enhance", h.Enhance)
	})

	w := do(t, r, http.MethodPost, "/recommendations", models.RecommendationInput{FieldName: "A", CropType: "rice", PrimaryFertilizer: "Urea"})
	assert.Equal(t, http.StatusCreated, w.Code)

	do(t, r, http.MethodGet, "/recommendations", nil)
	assert.Equal(t, defaultRecommendations, svc.limit)

	w = do(t, r, http.MethodGet, "/recommendations/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPatch, "/recommendations/r1", map[string]string{"status": "applied"})
	assert.Equal(t, models.StatusApplied, decode[models.Recommendation](t, w).Status)

	w = do(t, r, http.MethodPatch, "/recommendations/r1", map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/recommendations/r1/plan", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Run("enhance without body", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/recommendations/r1/enhance", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, svc.reading)
	})

	t.Run("enhance with live reading", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/recommendations/r1/enhance", map[string]bool{"useLiveReading": true})
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.reading)
		assert.Equal(t, healthySoil.Nitrogen, svc.reading.Nitrogen)
	})

	t.Run("enhance upstream failure", func(t *testing.T) {
		svc.enhanceErr = fmt.Errorf("%w: 529 overloaded", recommendations.ErrUpstream)
		w := do(t, r, http.MethodPost, "/recommendations/r1/enhance", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		svc.enhanceErr = recommendations.ErrEnhancementUnavailable
		w = do(t, r, http.MethodPost, "/recommendations/r1/enhance", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	w = do(t, r, http.MethodDelete, "/recommendations/r1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
