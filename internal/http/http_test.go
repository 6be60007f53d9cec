// Package http provides HTTP server implementation and request handlers.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/dmvault/internal/auth/domain"
	authMocks "github.com/allisson/dmvault/internal/auth/usecase/mocks"
	"github.com/allisson/dmvault/internal/config"
	messagingDomain "github.com/allisson/dmvault/internal/messaging/domain"
	messagingHTTP "github.com/allisson/dmvault/internal/messaging/http"
	messagingMocks "github.com/allisson/dmvault/internal/messaging/usecase/mocks"
	"github.com/allisson/dmvault/internal/metrics"
	userDomain "github.com/allisson/dmvault/internal/user/domain"
	userHTTP "github.com/allisson/dmvault/internal/user/http"
	userMocks "github.com/allisson/dmvault/internal/user/usecase/mocks"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer creates a test server with a discarding logger.
func createTestServer(readiness ReadinessCheck) *Server {
	return NewServer(readiness, "localhost", 0, newDiscardLogger())
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name           string
		readiness      ReadinessCheck
		expectedCode   int
		expectedStatus string
		expectedStore  string
	}{
		{
			name:           "Success_StorageReachable",
			readiness:      func(ctx context.Context) error { return nil },
			expectedCode:   http.StatusOK,
			expectedStatus: "ready",
			expectedStore:  "ok",
		},
		{
			name:           "Error_StorageUnreachable",
			readiness:      func(ctx context.Context) error { return errors.New("disk gone") },
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "not_ready",
			expectedStore:  "error",
		},
		{
			name:           "Error_NoCheckConfigured",
			readiness:      nil,
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "not_ready",
			expectedStore:  "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer(tt.readiness)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

			server.readinessHandler(c)

			assert.Equal(t, tt.expectedCode, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedStatus, response["status"])

			components, ok := response["components"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.expectedStore, components["storage"])
		})
	}
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return "req-1"
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?secret=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "/test", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.NotContains(t, buf.String(), "secret=1")
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(newDiscardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type routerEnv struct {
	auth     *authMocks.MockAuthUseCase
	users    *userMocks.MockUserUseCase
	messages *messagingMocks.MockMessageUseCase
	handler  http.Handler
}

func newRouterEnv(t *testing.T, cfg *config.Config) *routerEnv {
	t.Helper()

	logger := newDiscardLogger()
	env := &routerEnv{
		auth:     &authMocks.MockAuthUseCase{},
		users:    &userMocks.MockUserUseCase{},
		messages: &messagingMocks.MockMessageUseCase{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := createTestServer(func(ctx context.Context) error { return nil })
	server.SetupRouter(
		ctx,
		cfg,
		env.auth,
		userHTTP.NewUserHandler(env.users, "admin", logger),
		messagingHTTP.NewMessageHandler(env.messages, env.users, logger),
		nil,
	)
	env.handler = server.GetHandler()
	return env
}

func (e *routerEnv) do(method, path, login, password string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if login != "" {
		req.SetBasicAuth(login, password)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicEndpoints(t *testing.T) {
	env := newRouterEnv(t, &config.Config{})

	w := env.do(http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/ready", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/nonexistent", "", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/metrics", "", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Authentication(t *testing.T) {
	t.Run("Error_MissingCredentials", func(t *testing.T) {
		env := newRouterEnv(t, &config.Config{})

		w := env.do(http.MethodGet, "/v1/me", "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
	})

	t.Run("Error_BadCredentials", func(t *testing.T) {
		env := newRouterEnv(t, &config.Config{})
		env.auth.On("Authenticate", mock.Anything, "alice", "wrong").
			Return(nil, authDomain.ErrInvalidCredentials).
			Once()

		w := env.do(http.MethodGet, "/v1/me", "alice", "wrong", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success_Me", func(t *testing.T) {
		env := newRouterEnv(t, &config.Config{})
		env.auth.On("Authenticate", mock.Anything, "alice", "pw1").
			Return(&authDomain.Principal{Login: "alice", DisplayName: "Alice"}, nil).
			Once()

		w := env.do(http.MethodGet, "/v1/me", "alice", "pw1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":{"login":"alice","displayName":"Alice","admin":false}}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})
}

func TestRouter_SendAndRead(t *testing.T) {
	env := newRouterEnv(t, &config.Config{})
	env.auth.On("Authenticate", mock.Anything, "alice", "pw1").
		Return(&authDomain.Principal{Login: "alice", DisplayName: "Alice"}, nil)

	msg := &messagingDomain.Message{
		ID:        uuid.Must(uuid.NewV7()),
		From:      "alice",
		To:        "bob",
		Text:      "hi",
		CreatedAt: time.UnixMilli(1000),
	}
	env.messages.On("Append", mock.Anything, "alice", "bob", "hi").Return(msg, nil).Once()
	env.messages.On("ReadConversation", mock.Anything, "alice", "bob").
		Return([]*messagingDomain.Message{msg}, nil).
		Once()

	w := env.do(http.MethodPost, "/v1/messages", "alice", "pw1", []byte(`{"to":"bob","text":"hi"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodGet, "/v1/messages/bob", "alice", "pw1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []map[string]interface{} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "hi", resp.Messages[0]["text"])
	env.messages.AssertExpectations(t)
}

func TestRouter_AdminRoutes(t *testing.T) {
	t.Run("Error_NotAdmin", func(t *testing.T) {
		env := newRouterEnv(t, &config.Config{})
		env.auth.On("Authenticate", mock.Anything, "alice", "pw1").
			Return(&authDomain.Principal{Login: "alice"}, nil).
			Once()

		w := env.do(http.MethodGet, "/v1/admin/users", "alice", "pw1", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		env.users.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("Success_Admin", func(t *testing.T) {
		env := newRouterEnv(t, &config.Config{})
		env.auth.On("Authenticate", mock.Anything, "admin", "root-pw").
			Return(&authDomain.Principal{Login: "admin", DisplayName: authDomain.AdminDisplayName, Admin: true}, nil).
			Once()
		env.users.On("List", mock.Anything).
			Return([]userDomain.UserSummary{{Login: "alice", DisplayName: "Alice"}}, nil).
			Once()

		w := env.do(http.MethodGet, "/v1/admin/users", "admin", "root-pw", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users":[{"login":"alice","displayName":"Alice"}]}`, w.Body.String())
	})
}

func TestRouter_RateLimit(t *testing.T) {
	env := newRouterEnv(t, &config.Config{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 0.001,
		RateLimitBurst:          1,
	})
	env.auth.On("Authenticate", mock.Anything, "alice", "pw1").
		Return(&authDomain.Principal{Login: "alice"}, nil)

	w := env.do(http.MethodGet, "/v1/me", "alice", "pw1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/v1/me", "alice", "pw1", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := createTestServer(nil)
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := createTestServer(nil)
	server.SetupRouter(
		context.Background(),
		&config.Config{},
		&authMocks.MockAuthUseCase{},
		userHTTP.NewUserHandler(&userMocks.MockUserUseCase{}, "admin", server.logger),
		messagingHTTP.NewMessageHandler(&messagingMocks.MockMessageUseCase{}, &userMocks.MockUserUseCase{}, server.logger),
		nil,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	assert.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 0, newDiscardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
