package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tutor-portal/config"
	"tutor-portal/internal/delivery/http/handler"
	"tutor-portal/internal/delivery/http/middleware"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/repository/memory"
	"tutor-portal/internal/service"
	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/jwt"
	"tutor-portal/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeviceKey = "device-secret"

type testServer struct {
	*httptest.Server
	hub *service.EventHub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	store := memory.NewStore()
	transactor := memory.NewTransactor(store)
	userRepo := memory.NewUserRepository(store)
	tutorRepo := memory.NewTutorRepository(store)
	idosoRepo := memory.NewIdosoRepository(store)
	medicacaoRepo := memory.NewMedicacaoRepository(store)
	exameRepo := memory.NewExameRepository(store)
	eventoRepo := memory.NewEventoRepository(store)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	v := validator.NewValidator()
	audit := service.NewAuditService(log, memory.NewAuditLogRepository(store))
	sessions := service.NewSessionService(redisClient, log, 5, time.Minute)
	notifier := service.NewNotificationService(nil, log, tutorRepo, entity.SeveridadeAlta)
	hub := service.NewEventHub(log)

	authUsecase := usecase.NewAuthUsecase(log, transactor, userRepo, tutorRepo, idosoRepo, jwtService, sessions, audit, 3)
	tutorUsecase := usecase.NewTutorUsecase(log, transactor, tutorRepo, audit, 3)
	eventoUsecase := usecase.NewEventoUsecase(log, transactor, eventoRepo, audit, notifier, hub, 100)

	router := NewRouter(
		handler.NewAuthHandler(authUsecase, v),
		handler.NewTutorHandler(tutorUsecase, v),
		handler.NewAuditLogHandler(tutorUsecase),
		handler.NewIdosoHandler(
			usecase.NewIdosoUsecase(log, transactor, idosoRepo, audit),
			usecase.NewMedicacaoUsecase(log, transactor, idosoRepo, medicacaoRepo, audit),
			usecase.NewExameUsecase(log, transactor, idosoRepo, exameRepo, audit),
			v,
		),
		handler.NewEventoHandler(eventoUsecase, v, 100),
		handler.NewStreamHandler(hub, log, "*"),
		handler.NewPainelHandler(usecase.NewPainelUsecase(log, idosoRepo, eventoRepo)),
		handler.NewEmergenciaHandler(usecase.NewEmergenciaUsecase(log, transactor, tutorRepo, idosoRepo, eventoRepo, audit, hub, 100), v),
		middleware.NewAuthMiddleware(jwtService, sessions),
		middleware.NewCORSMiddleware("*"),
		middleware.NewDeviceKeyMiddleware(testDeviceKey),
		middleware.NewLoggingMiddleware(log),
	)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers ...string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

// signUp registers a tutor and returns the access token and tutor id.
func (s *testServer) signUp(t *testing.T, email string) (string, string) {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email": email,
		"senha": "segredo123",
		"tutorData": map[string]interface{}{
			"nome": "Ana Souza",
			"contatosEmergencia": []map[string]string{
				{"nome": "Carlos", "telefone": "81999990000"},
			},
		},
	})
	require.Equal(t, http.StatusCreated, status, body)

	tokens := body["tokens"].(map[string]interface{})
	tutor := body["tutor"].(map[string]interface{})
	return tokens["accessToken"].(string), tutor["id"].(string)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = srv.do(t, http.MethodGet, "/api/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestPreflightIsAnswered(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/eventos", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), middleware.DeviceKeyHeader)
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	token, _ := srv.signUp(t, "ana@example.com")

	status, body := srv.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email": "ana@example.com", "senha": "segredo123", "tutorData": map[string]string{"nome": "Ana"},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Este email já está cadastrado", body["error"])

	status, body = srv.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["details"], "senha")

	status, _ = srv.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "senha": "errada"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = srv.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "senha": "segredo123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["tokens"])

	status, body = srv.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", body["user"].(map[string]interface{})["email"])

	status, _ = srv.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = srv.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEventoRoutes(t *testing.T) {
	srv := newTestServer(t)
	token, tutorID := srv.signUp(t, "ana@example.com")
	evento := map[string]interface{}{
		"tutorId":    tutorID,
		"idosoId":    "idoso-1",
		"tipo":       "queda",
		"severidade": "critica",
		"titulo":     "Queda detectada",
		"dados": map[string]interface{}{
			"acelerometro": map[string]float64{"x": 0.1, "y": 9.8, "z": 0.3},
			"firmware":     "1.2.0",
		},
	}

	status, _ := srv.do(t, http.MethodPost, "/api/eventos", "", evento)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := srv.do(t, http.MethodPost, "/api/eventos", "", map[string]string{"tutorId": tutorID}, middleware.DeviceKeyHeader, testDeviceKey)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Dados incompletos", body["error"])

	status, body = srv.do(t, http.MethodPost, "/api/eventos", "", evento, middleware.DeviceKeyHeader, testDeviceKey)
	require.Equal(t, http.StatusCreated, status, body)
	created := body["data"].(map[string]interface{})
	assert.Equal(t, false, created["lido"])
	assert.Equal(t, "1.2.0", created["dados"].(map[string]interface{})["firmware"])

	status, _ = srv.do(t, http.MethodGet, "/api/eventos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = srv.do(t, http.MethodGet, "/api/eventos?tipo=queda&busca=QUEDA", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["data"], 1)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, float64(100), meta["retention"])

	status, _ = srv.do(t, http.MethodGet, "/api/eventos?tutorId=outro", token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = srv.do(t, http.MethodPatch, "/api/eventos", token, map[string]string{"eventoId": created["id"].(string), "tutorId": tutorID})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, _ = srv.do(t, http.MethodPatch, "/api/eventos", token, map[string]string{"eventoId": "missing"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = srv.do(t, http.MethodGet, "/api/eventos/resumo", token, nil)
	require.Equal(t, http.StatusOK, status)
	resumo := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), resumo["total"])
	assert.Equal(t, float64(0), resumo["naoLidos"])
}

func TestIdosoAndPainelRoutes(t *testing.T) {
	srv := newTestServer(t)
	token, tutorID := srv.signUp(t, "ana@example.com")

	status, body := srv.do(t, http.MethodPost, "/api/idoso", token, map[string]interface{}{"tutorId": tutorID})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Dados incompletos", body["error"])

	status, body = srv.do(t, http.MethodPost, "/api/idoso", token, map[string]interface{}{
		"tutorId": tutorID,
		"nome":    "Dona Maria",
		"idade":   82,
		"medicacoes": []map[string]interface{}{
			{"nome": "Losartana", "horarios": []string{"8h"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["details"], "horarios[0]")

	status, body = srv.do(t, http.MethodPost, "/api/idoso", token, map[string]interface{}{
		"tutorId": tutorID,
		"nome":    "Dona Maria",
		"idade":   82,
	})
	require.Equal(t, http.StatusCreated, status, body)
	idosoID := body["data"].(map[string]interface{})["id"].(string)

	status, body = srv.do(t, http.MethodPost, "/api/idoso/"+idosoID+"/medicacoes", token, map[string]interface{}{
		"nome": "Losartana", "horarios": []string{"08:00"},
	})
	require.Equal(t, http.StatusCreated, status, body)
	medicacaoID := body["data"].(map[string]interface{})["id"].(string)

	status, body = srv.do(t, http.MethodGet, "/api/idoso?id="+idosoID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].(map[string]interface{})["medicacoes"], 1)

	status, _ = srv.do(t, http.MethodPut, "/api/idoso", token, map[string]interface{}{"id": "missing", "nome": "X"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = srv.do(t, http.MethodDelete, "/api/medicacoes/"+medicacaoID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = srv.do(t, http.MethodGet, "/api/painel", token, nil)
	require.Equal(t, http.StatusOK, status)
	painel := body["data"].(map[string]interface{})
	assert.Equal(t, entity.StatusNormal, painel["statusGeral"])
	assert.Equal(t, idosoID, painel["idoso"].(map[string]interface{})["id"])

	status, body = srv.do(t, http.MethodPost, "/api/emergencia/chamadas", token, map[string]string{"numero": "192", "servico": "SAMU"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "tel:192", body["data"].(map[string]interface{})["uri"])

	status, body = srv.do(t, http.MethodGet, "/api/tutor/atividade", token, nil)
	require.Equal(t, http.StatusOK, status)
	atividade := body["data"].([]interface{})
	require.NotEmpty(t, atividade)
	assert.Equal(t, entity.AuditActionEmergenciaCall, atividade[0].(map[string]interface{})["action"])
}

func TestStreamDeliversNewEventos(t *testing.T) {
	srv := newTestServer(t)
	token, tutorID := srv.signUp(t, "ana@example.com")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/eventos/stream?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.hub.SubscriberCount(tutorID) == 1 }, time.Second, 10*time.Millisecond)

	status, _ := srv.do(t, http.MethodPost, "/api/eventos", "", map[string]string{
		"tutorId": tutorID, "idosoId": "idoso-1", "tipo": "agua",
	}, middleware.DeviceKeyHeader, testDeviceKey)
	require.Equal(t, http.StatusCreated, status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg service.StreamMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, service.StreamEventoCreated, msg.Type)
	assert.Equal(t, tutorID, msg.TutorID)
}

func TestStreamRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/eventos/stream"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
