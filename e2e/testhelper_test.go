package e2e

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/tapedeck/api/internal/codec"
	"github.com/tapedeck/api/internal/config"
	"github.com/tapedeck/api/internal/dsp"
	"github.com/tapedeck/api/internal/handler"
	"github.com/tapedeck/api/internal/middleware"
	"github.com/tapedeck/api/internal/model"
	"github.com/tapedeck/api/internal/service"
	"github.com/tapedeck/api/internal/store"
)

const testJWTSecret = "test-secret-for-e2e"

// testApp holds all components needed for testing
type testApp struct {
	app *fiber.App
}

// setupApp creates a Fiber app identical to main.go but without the
// worker server, so submitted jobs stay pending. Requires a local
// Redis; skips the test otherwise.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	// Redis DB 15 to avoid collision with a dev instance
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: "localhost:6379",
		DB:   15,
	})
	t.Cleanup(func() { asynqClient.Close() })

	validate := validator.New()

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: testJWTSecret},
		Audio: config.AudioConfig{
			MaxUploadMB:        25,
			MaxDurationSeconds: 600,
			RetentionSeconds:   300,
		},
		Styles: testStyles(),
	}

	retention := time.Duration(cfg.Audio.RetentionSeconds) * time.Second
	jobStore := store.NewRedisStore(redisClient, retention)
	buffers := service.NewBufferCache(retention)
	// storage nil → results served from the job store
	processService := service.NewProcessService(jobStore, asynqClient, buffers, nil, cfg)

	processHandler := handler.NewProcessHandler(processService, validate, cfg.Audio.MaxUploadMB)

	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Audio.MaxUploadMB * 1024 * 1024,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis":   redisClient.Ping(c.Context()).Err() == nil,
				"storage": false,
			},
		})
	})

	api := app.Group("/api", authMiddleware.Authenticate())

	api.Get("/styles", processHandler.Styles)

	// Very high rate limits so tests don't get blocked
	process := api.Group("/process")
	process.Post("/", rateLimiter.ProcessLimit(10000), processHandler.Submit)
	process.Get("/status/:taskId/:style", rateLimiter.QueryLimit(10000), processHandler.Status)
	process.Get("/result/:taskId/:style", rateLimiter.QueryLimit(10000), processHandler.Result)

	return &testApp{app: app}
}

func testStyles() map[model.Style]dsp.StylePreset {
	return map[model.Style]dsp.StylePreset{
		model.StyleDilla:  {TimeStretchFactor: 0.98, LofiAmount: 0.4, SwingAmount: 0.3},
		model.StyleAlbini: {TimeStretchFactor: 1.0, LofiAmount: 0.15},
		model.StyleBurns:  {TimeStretchFactor: 1.05, LofiAmount: 0.7, SwingAmount: 0.1},
	}
}

// testWAV returns a short valid mono WAV clip.
func testWAV(t *testing.T) []byte {
	t.Helper()
	buf := dsp.NewSampleBuffer(8000, 8000)
	for i := range buf.Data {
		buf.Data[i] = 0.3 * math.Sin(2*math.Pi*440*float64(i)/8000)
	}
	data, err := codec.EncodeWAV(buf)
	if err != nil {
		t.Fatalf("failed to build test WAV: %v", err)
	}
	return data
}

// generateToken creates an HMAC JWT token for test requests.
func generateToken(t *testing.T) string {
	t.Helper()
	signed, err := middleware.NewAuthMiddleware(testJWTSecret).GenerateToken("test-user-123", "test@example.com")
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return signed
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs an authenticated request.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token := generateToken(t)
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
