package middleware

import (
	"context"
	"net/http"
	"strings"

	"tutor-portal/internal/service"
	"tutor-portal/pkg/jwt"
	"tutor-portal/pkg/response"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	TutorIDKey   contextKey = "tutor_id"
	UserEmailKey contextKey = "user_email"
	TokenIDKey   contextKey = "token_id"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID  string
	TutorID string
	Email   string
	TokenID string
}

type AuthMiddleware struct {
	jwtService     *jwt.JWTService
	sessionService service.SessionService
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessionService service.SessionService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:     jwtService,
		sessionService: sessionService,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Token de acesso ausente ou mal formatado")
			return
		}

		// Validate JWT token
		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Token inválido ou expirado")
			return
		}

		// Check if it's an access token
		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Tipo de token inválido")
			return
		}

		// Check if token exists in Redis (not revoked)
		valid, err := m.sessionService.IsAccessValid(r.Context(), claims.UserID, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Falha ao validar o token")
			return
		}
		if !valid {
			response.Unauthorized(w, "Sessão encerrada")
			return
		}

		ctx := WithIdentity(r.Context(), Identity{
			UserID:  claims.UserID,
			TutorID: claims.TutorID,
			Email:   claims.Email,
			TokenID: claims.TokenID,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken reads "Authorization: Bearer <token>". Browsers cannot set headers on a
// websocket upgrade, so the stream endpoint may pass the token as ?token= instead.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("token"); token != "" && isWebsocketUpgrade(r) {
			return token, true
		}
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// WithIdentity stores the caller in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id.UserID)
	ctx = context.WithValue(ctx, TutorIDKey, id.TutorID)
	ctx = context.WithValue(ctx, UserEmailKey, id.Email)
	ctx = context.WithValue(ctx, TokenIDKey, id.TokenID)
	return ctx
}

// GetIdentity extracts the caller from context
func GetIdentity(ctx context.Context) (Identity, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return Identity{}, false
	}
	tutorID, _ := GetTutorIDFromContext(ctx)
	email, _ := GetUserEmailFromContext(ctx)
	tokenID, _ := GetTokenIDFromContext(ctx)
	return Identity{UserID: userID, TutorID: tutorID, Email: email, TokenID: tokenID}, true
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetTutorIDFromContext extracts tutor ID from context
func GetTutorIDFromContext(ctx context.Context) (string, bool) {
	tutorID, ok := ctx.Value(TutorIDKey).(string)
	return tutorID, ok && tutorID != ""
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
