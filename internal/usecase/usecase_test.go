package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"tutor-portal/config"
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/delivery/http/middleware"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"
	"tutor-portal/internal/infrastructure/push"
	"tutor-portal/internal/repository/memory"
	"tutor-portal/internal/service"
	"tutor-portal/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMaxContacts    = 3
	testRetentionLimit = 5
	testLoginAttempts  = 3
)

type fakePusher struct {
	mu   sync.Mutex
	sent []push.Message
}

func (p *fakePusher) Send(_ context.Context, msg push.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakePusher) messages() []push.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]push.Message(nil), p.sent...)
}

type testEnv struct {
	store    *memory.Store
	mr       *miniredis.Miniredis
	jwt      *jwt.JWTService
	sessions service.SessionService
	audit    service.AuditService
	hub      *service.EventHub
	pusher   *fakePusher

	auth       AuthUsecase
	tutor      TutorUsecase
	idoso      IdosoUsecase
	medicacao  MedicacaoUsecase
	exame      ExameUsecase
	evento     EventoUsecase
	painel     PainelUsecase
	emergencia EmergenciaUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := memory.NewStore()
	transactor := memory.NewTransactor(store)
	userRepo := memory.NewUserRepository(store)
	tutorRepo := memory.NewTutorRepository(store)
	idosoRepo := memory.NewIdosoRepository(store)
	medicacaoRepo := memory.NewMedicacaoRepository(store)
	exameRepo := memory.NewExameRepository(store)
	eventoRepo := memory.NewEventoRepository(store)
	auditRepo := memory.NewAuditLogRepository(store)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	sessions := service.NewSessionService(client, log, testLoginAttempts, time.Minute)
	audit := service.NewAuditService(log, auditRepo)
	hub := service.NewEventHub(log)
	pusher := &fakePusher{}
	notifier := service.NewNotificationService(pusher, log, tutorRepo, entity.SeveridadeAlta)

	return &testEnv{
		store:      store,
		mr:         mr,
		jwt:        jwtService,
		sessions:   sessions,
		audit:      audit,
		hub:        hub,
		pusher:     pusher,
		auth:       NewAuthUsecase(log, transactor, userRepo, tutorRepo, idosoRepo, jwtService, sessions, audit, testMaxContacts),
		tutor:      NewTutorUsecase(log, transactor, tutorRepo, audit, testMaxContacts),
		idoso:      NewIdosoUsecase(log, transactor, idosoRepo, audit),
		medicacao:  NewMedicacaoUsecase(log, transactor, idosoRepo, medicacaoRepo, audit),
		exame:      NewExameUsecase(log, transactor, idosoRepo, exameRepo, audit),
		evento:     NewEventoUsecase(log, transactor, eventoRepo, audit, notifier, hub, testRetentionLimit),
		painel:     NewPainelUsecase(log, idosoRepo, eventoRepo),
		emergencia: NewEmergenciaUsecase(log, transactor, tutorRepo, idosoRepo, eventoRepo, audit, hub, testRetentionLimit),
	}
}

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email: email,
		Senha: "segredo123",
		TutorData: &dto.TutorDataRequest{
			Nome:  "Ana Souza",
			Idade: 45,
			Endereco: dto.EnderecoDTO{
				Rua:    "Rua das Flores",
				Numero: "10",
				Cidade: "Recife",
				Estado: "PE",
			},
			ContatosEmergencia: []dto.ContatoEmergenciaDTO{
				{Nome: "Carlos", Telefone: "(81) 99999-0000"},
			},
		},
	}
}

// signUp registers a tutor and returns a context authenticated as them.
func (e *testEnv) signUp(t *testing.T, email string) (context.Context, *dto.AuthResponse) {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), registerRequest(email))
	require.NoError(t, err)

	claims, err := e.jwt.ValidateToken(resp.Tokens.AccessToken)
	require.NoError(t, err)

	ctx := middleware.WithIdentity(context.Background(), middleware.Identity{
		UserID:  resp.User.ID,
		TutorID: resp.Tutor.ID,
		Email:   resp.User.Email,
		TokenID: claims.TokenID,
	})
	return ctx, resp
}

func (e *testEnv) createIdoso(t *testing.T, ctx context.Context, tutorID string) *dto.IdosoResponse {
	t.Helper()

	idoso, err := e.idoso.Create(ctx, &dto.CreateIdosoRequest{
		TutorID:       tutorID,
		Nome:          "Dona Maria",
		Idade:         82,
		Altura:        155,
		Doencas:       []string{"hipertensão"},
		TemPlanoSaude: true,
		PlanoSaude:    &dto.PlanoSaudeDTO{Nome: "Unimed", NumeroCarteira: "123"},
		Medicacoes: []dto.MedicacaoRequest{
			{Nome: "Losartana", Dosagem: "50mg", Horarios: []string{"08:00", "20:00"}},
		},
		Exames: []dto.ExameRequest{
			{Nome: "Hemograma", Data: "2024-05-10"},
		},
	})
	require.NoError(t, err)
	return idoso
}

func TestRegisterSignsTutorIn(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Register(context.Background(), registerRequest("  Ana@Example.com "))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, resp.User.ID, resp.Tutor.UserID)
	require.Len(t, resp.Tutor.ContatosEmergencia, 1)
	assert.NotEmpty(t, resp.Tutor.ContatosEmergencia[0].ID)
	require.NotNil(t, resp.Tokens)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)

	claims, err := env.jwt.ValidateToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	ok, err := env.sessions.IsAccessValid(context.Background(), resp.User.ID, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(context.Background(), registerRequest("ana@example.com"))
	require.NoError(t, err)

	_, err = env.auth.Register(context.Background(), registerRequest("ANA@example.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterRollsBackWhenSessionStoreFails(t *testing.T) {
	env := newTestEnv(t)

	env.mr.SetError("LOADING redis down")
	_, err := env.auth.Register(context.Background(), registerRequest("ana@example.com"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)

	env.mr.SetError("")
	resp, err := env.auth.Register(context.Background(), registerRequest("ana@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)

	_, err = env.auth.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Senha: "segredo123"})
	require.NoError(t, err)
}

// commitFailingTransactor runs fn and then fails as a failed commit would.
type commitFailingTransactor struct {
	inner repository.Transactor
	err   error
}

func (c commitFailingTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.inner.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return c.err
	})
}

func TestRegisterRevokesSessionWhenCommitFails(t *testing.T) {
	env := newTestEnv(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	commitErr := errors.New("commit failed")

	auth := NewAuthUsecase(log,
		commitFailingTransactor{inner: memory.NewTransactor(env.store), err: commitErr},
		memory.NewUserRepository(env.store),
		memory.NewTutorRepository(env.store),
		memory.NewIdosoRepository(env.store),
		env.jwt, env.sessions, env.audit, testMaxContacts)

	_, err := auth.Register(context.Background(), registerRequest("ana@example.com"))
	assert.ErrorIs(t, err, commitErr)
	assert.Empty(t, env.mr.Keys())

	_, err = env.auth.Register(context.Background(), registerRequest("ana@example.com"))
	require.NoError(t, err)
}

func TestRegisterRejectsTooManyContacts(t *testing.T) {
	env := newTestEnv(t)
	req := registerRequest("ana@example.com")
	for i := 0; i < testMaxContacts; i++ {
		req.TutorData.ContatosEmergencia = append(req.TutorData.ContatosEmergencia,
			dto.ContatoEmergenciaDTO{Nome: "Extra", Telefone: "81999990000"})
	}

	_, err := env.auth.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooManyContacts)

	_, err = env.auth.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Senha: "segredo123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginThrottlesRepeatedFailures(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "ana@example.com")
	ctx := context.Background()

	_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Senha: "segredo123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	for i := 0; i < testLoginAttempts; i++ {
		_, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Senha: "errada"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Senha: "segredo123"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	env.mr.FastForward(2 * time.Minute)
	resp, err := env.auth.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Senha: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.Tutor.Email)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	_, resp := env.signUp(t, "ana@example.com")
	ctx := context.Background()

	tokens, err := env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.Tokens.AccessToken, tokens.AccessToken)

	_, err = env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.Tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.Tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")

	require.NoError(t, env.auth.Logout(ctx, &dto.LogoutRequest{RefreshToken: resp.Tokens.RefreshToken}))

	id, _ := middleware.GetIdentity(ctx)
	ok, err := env.sessions.IsAccessValid(ctx, id.UserID, id.TokenID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.Tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.ErrorIs(t, env.auth.Logout(context.Background(), nil), ErrUnauthenticated)
}

func TestGetCurrentUserIncludesIdoso(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")

	me, err := env.auth.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, me.User.ID)
	assert.Nil(t, me.Idoso)

	idoso := env.createIdoso(t, ctx, resp.Tutor.ID)

	me, err = env.auth.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, me.Idoso)
	assert.Equal(t, idoso.ID, me.Idoso.ID)
	assert.Len(t, me.Idoso.Medicacoes, 1)
}

func TestUpdateProfileMergesAndAudits(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")

	nome := "Ana Lima"
	token := "fcm-token"
	updated, err := env.tutor.UpdateProfile(ctx, &dto.UpdateTutorRequest{Nome: &nome, DeviceToken: &token})
	require.NoError(t, err)

	assert.Equal(t, "Ana Lima", updated.Nome)
	assert.Equal(t, 45, updated.Idade)
	assert.Equal(t, "Recife", updated.Endereco.Cidade)
	assert.Len(t, updated.ContatosEmergencia, 1)
	assert.True(t, updated.PushAtivo)
	assert.Equal(t, resp.User.Email, updated.Email)

	atividade, err := env.tutor.GetActivity(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, atividade)
	assert.Equal(t, entity.AuditActionTutorUpdate, atividade[0].Action)
	assert.Equal(t, "Perfil atualizado", atividade[0].Descricao)
}

func TestUpdateProfileRejectsTooManyContacts(t *testing.T) {
	env := newTestEnv(t)
	ctx, _ := env.signUp(t, "ana@example.com")

	contatos := make([]dto.ContatoEmergenciaDTO, testMaxContacts+1)
	for i := range contatos {
		contatos[i] = dto.ContatoEmergenciaDTO{Nome: "Contato", Telefone: "81999990000"}
	}
	_, err := env.tutor.UpdateProfile(ctx, &dto.UpdateTutorRequest{ContatosEmergencia: contatos})
	assert.ErrorIs(t, err, ErrTooManyContacts)

	profile, err := env.tutor.GetProfile(ctx)
	require.NoError(t, err)
	assert.Len(t, profile.ContatosEmergencia, 1)
}

func TestUsecasesRequireIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tutor.GetProfile(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.painel.Get(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.evento.List(ctx, dto.EventoQuery{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
