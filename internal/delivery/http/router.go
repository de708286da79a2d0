package http

import (
	"net/http"

	"tutor-portal/internal/delivery/http/handler"
	"tutor-portal/internal/delivery/http/middleware"
	"tutor-portal/pkg/response"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	tutorHandler        *handler.TutorHandler
	auditLogHandler     *handler.AuditLogHandler
	idosoHandler        *handler.IdosoHandler
	eventoHandler       *handler.EventoHandler
	streamHandler       *handler.StreamHandler
	painelHandler       *handler.PainelHandler
	emergenciaHandler   *handler.EmergenciaHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	deviceKeyMiddleware *middleware.DeviceKeyMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	tutorHandler *handler.TutorHandler,
	auditLogHandler *handler.AuditLogHandler,
	idosoHandler *handler.IdosoHandler,
	eventoHandler *handler.EventoHandler,
	streamHandler *handler.StreamHandler,
	painelHandler *handler.PainelHandler,
	emergenciaHandler *handler.EmergenciaHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	deviceKeyMiddleware *middleware.DeviceKeyMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		tutorHandler:        tutorHandler,
		auditLogHandler:     auditLogHandler,
		idosoHandler:        idosoHandler,
		eventoHandler:       eventoHandler,
		streamHandler:       streamHandler,
		painelHandler:       painelHandler,
		emergenciaHandler:   emergenciaHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		deviceKeyMiddleware: deviceKeyMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even for paths without an OPTIONS route.
func (r *Router) Setup() http.Handler {
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.NotFoundHandler = http.HandlerFunc(r.notFound)

	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Event ingestion from the companion app (device key, no tutor session)
	api.Handle("/eventos", r.deviceKeyMiddleware.Handle(http.HandlerFunc(r.eventoHandler.Create))).Methods(http.MethodPost)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	protected.HandleFunc("/tutor", r.tutorHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/tutor", r.tutorHandler.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/tutor/atividade", r.auditLogHandler.ListOwn).Methods(http.MethodGet)

	protected.HandleFunc("/idoso", r.idosoHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/idoso", r.idosoHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/idoso", r.idosoHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/idoso/{id}/medicacoes", r.idosoHandler.ListMedicacoes).Methods(http.MethodGet)
	protected.HandleFunc("/idoso/{id}/medicacoes", r.idosoHandler.AddMedicacao).Methods(http.MethodPost)
	protected.HandleFunc("/medicacoes/{id}", r.idosoHandler.UpdateMedicacao).Methods(http.MethodPut)
	protected.HandleFunc("/medicacoes/{id}", r.idosoHandler.DeleteMedicacao).Methods(http.MethodDelete)
	protected.HandleFunc("/idoso/{id}/exames", r.idosoHandler.ListExames).Methods(http.MethodGet)
	protected.HandleFunc("/idoso/{id}/exames", r.idosoHandler.AddExame).Methods(http.MethodPost)
	protected.HandleFunc("/exames/{id}", r.idosoHandler.UpdateExame).Methods(http.MethodPut)
	protected.HandleFunc("/exames/{id}", r.idosoHandler.DeleteExame).Methods(http.MethodDelete)

	protected.HandleFunc("/eventos", r.eventoHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/eventos", r.eventoHandler.MarkRead).Methods(http.MethodPatch)
	protected.HandleFunc("/eventos/resumo", r.eventoHandler.Resumo).Methods(http.MethodGet)
	protected.HandleFunc("/eventos/stream", r.streamHandler.Connect).Methods(http.MethodGet)

	protected.HandleFunc("/painel", r.painelHandler.Get).Methods(http.MethodGet)

	protected.HandleFunc("/emergencia", r.emergenciaHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/emergencia/chamadas", r.emergenciaHandler.Call).Methods(http.MethodPost)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	response.NotFound(w, "Rota não encontrada")
}
