package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/helleenlara/Plataformalivros/backend/config"
	"github.com/helleenlara/Plataformalivros/backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubAI struct {
	response string
}

func (s *stubAI) GenerateText(context.Context, string) (string, error) {
	return s.response, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{JWTSecret: "testsecret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateDB(db))

	app := fiber.New()
	SetupRoutes(app, db, &stubAI{response: "Perfil literário da Ana."}, cfg)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]interface{}
	if len(raw) > 0 {
		json.Unmarshal(raw, &result)
	}
	return resp.StatusCode, result
}

func register(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"nome":     username,
		"senha":    "password123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	token, _ := result["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	register(t, app, "ana")

	// Duplicate username is rejected.
	status, _ := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"username": "ana",
		"nome":     "Ana",
		"senha":    "password123",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": "ana",
		"senha":    "password123",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, result["token"])

	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"username": "ana",
		"senha":    "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, "GET", "/api/gamification/status", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = doJSON(t, app, "POST", "/api/survey/", "bogus-token", map[string]interface{}{
		"answers": map[string]string{"idade": "18 a 24"},
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestReadingFlow(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana")

	status, result := doJSON(t, app, "POST", "/api/gamification/reading", token, map[string]interface{}{
		"paginas_lidas":    60,
		"livro_finalizado": false,
	})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	readerStatus := data["status"].(map[string]interface{})
	assert.EqualValues(t, 60, readerStatus["points"])
	assert.Equal(t, "Iniciante", readerStatus["level"])

	// Same-day resubmission overwrites, and finishing a book adds 50 points.
	status, result = doJSON(t, app, "POST", "/api/gamification/reading", token, map[string]interface{}{
		"paginas_lidas":    120,
		"livro_finalizado": true,
	})
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	readerStatus = data["status"].(map[string]interface{})
	assert.EqualValues(t, 170, readerStatus["points"])
	assert.Equal(t, "Aprendiz", readerStatus["level"])

	status, _ = doJSON(t, app, "POST", "/api/gamification/reading", token, map[string]interface{}{
		"paginas_lidas": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, result = doJSON(t, app, "GET", "/api/gamification/status", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	challenge := data["challenge"].(map[string]interface{})
	assert.Equal(t, true, challenge["done"])

	status, result = doJSON(t, app, "GET", "/api/gamification/achievements", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	achievements := result["data"].([]interface{})
	assert.Len(t, achievements, 2)

	status, result = doJSON(t, app, "GET", "/api/gamification/leaderboard", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	entries := result["data"].([]interface{})
	require.Len(t, entries, 1)
	first := entries[0].(map[string]interface{})
	assert.Equal(t, "ana", first["username"])
	assert.EqualValues(t, 170, first["points"])
}

func TestSurveyAndInsightsFlow(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana")

	status, result := doJSON(t, app, "POST", "/api/survey/", token, map[string]interface{}{
		"answers": map[string]interface{}{
			"idade":            "18 a 24",
			"formato_livro":    "Físicos",
			"objetivo_leitura": "Relaxar",
			"sentimento_livro": "Inspirado",
			"generos":          "Fantasia, Romance",
		},
	})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Perfil literário da Ana.", data["perfil_gerado"])

	status, result = doJSON(t, app, "GET", "/api/survey/", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, "Perfil literário da Ana.", data["perfil_gerado"])

	status, result = doJSON(t, app, "POST", "/api/survey/regenerate", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, result = doJSON(t, app, "GET", "/api/insights/", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["respondents"])
	genres := data["genres"].(map[string]interface{})
	assert.EqualValues(t, 1, genres["Fantasia"])

	status, result = doJSON(t, app, "GET", "/api/insights/suggestions", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, "Perfil literário da Ana.", data["analise"])
}

func TestInsightsExport(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ana")

	status, _ := doJSON(t, app, "POST", "/api/survey/", token, map[string]interface{}{
		"answers": map[string]interface{}{"idade": "18 a 24", "formato_livro": "Físicos"},
	})
	require.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("GET", "/api/insights/export", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "dados_filtrados.csv")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "usuario")
	assert.Contains(t, string(raw), "ana")
}
