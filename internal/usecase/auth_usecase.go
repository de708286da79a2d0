package usecase

import (
	"context"
	"errors"
	"fmt"

	"tutor-portal/internal/converter"
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"
	"tutor-portal/internal/infrastructure/metrics"
	"tutor-portal/internal/service"
	"tutor-portal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrTooManyContacts    = errors.New("too many emergency contacts")
)

const tokenTypeBearer = "Bearer"

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.AuthResponse, error)
}

type authUsecase struct {
	log            *logrus.Logger
	transactor     repository.Transactor
	userRepo       repository.UserRepository
	tutorRepo      repository.TutorRepository
	idosoRepo      repository.IdosoRepository
	jwtService     *jwt.JWTService
	sessionService service.SessionService
	auditService   service.AuditService
	maxContacts    int
}

func NewAuthUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	tutorRepo repository.TutorRepository,
	idosoRepo repository.IdosoRepository,
	jwtService *jwt.JWTService,
	sessionService service.SessionService,
	auditService service.AuditService,
	maxContacts int,
) AuthUsecase {
	return &authUsecase{
		log:            log,
		transactor:     transactor,
		userRepo:       userRepo,
		tutorRepo:      tutorRepo,
		idosoRepo:      idosoRepo,
		jwtService:     jwtService,
		sessionService: sessionService,
		auditService:   auditService,
		maxContacts:    maxContacts,
	}
}

// Register creates the credential and the tutor profile in one transaction and
// signs the new tutor in.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := entity.NormalizeEmail(req.Email)

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	contatos, err := buildContatos(req.TutorData.ContatosEmergencia, u.maxContacts)
	if err != nil {
		return nil, err
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hashedPassword),
	}
	tutor := &entity.Tutor{
		ID:                 uuid.NewString(),
		UserID:             user.ID,
		Email:              email,
		Nome:               req.TutorData.Nome,
		Documento:          req.TutorData.Documento,
		Idade:              req.TutorData.Idade,
		Endereco:           converter.EnderecoFromDTO(req.TutorData.Endereco),
		ContatosEmergencia: contatos,
		Foto:               req.TutorData.Foto,
		DeviceToken:        req.TutorData.DeviceToken,
	}

	// Tokens are issued inside the transaction so a session store failure also
	// rolls back the account.
	var tokens *dto.TokenResponse
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrEmailAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		if err := u.tutorRepo.Create(ctx, tutor); err != nil {
			return fmt.Errorf("create tutor: %w", err)
		}
		if err := u.auditService.LogCreate(ctx, user.ID, entity.AuditActionTutorRegister, "tutor", tutor.ID, converter.TutorToResponse(tutor)); err != nil {
			return err
		}

		issued, err := u.issueTokens(ctx, jwt.Subject{UserID: user.ID, TutorID: tutor.ID, Email: user.Email})
		if err != nil {
			return fmt.Errorf("issue tokens: %w", err)
		}
		tokens = issued
		return nil
	})
	if err != nil {
		if tokens != nil {
			// The commit failed after the session was stored.
			if revokeErr := u.sessionService.RevokeAll(ctx, user.ID); revokeErr != nil {
				u.log.Warnf("Failed to revoke tokens of rolled back account: %+v", revokeErr)
			}
		}
		if !errors.Is(err, ErrEmailAlreadyExists) {
			u.log.Warnf("Failed to register tutor: %+v", err)
		}
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "Conta criada com sucesso!",
		User:    converter.UserToResponse(user),
		Tutor:   converter.TutorToResponse(tutor),
		Tokens:  tokens,
	}, nil
}

// Login checks the credential. Unknown emails and wrong passwords are
// indistinguishable to the caller, and repeated failures lock the email for a window.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := entity.NormalizeEmail(req.Email)

	blocked, err := u.sessionService.LoginBlocked(ctx, email)
	if err != nil {
		return nil, err
	}
	if blocked {
		metrics.LoginAttempts.WithLabelValues(metrics.ResultThrottled).Inc()
		return nil, ErrTooManyAttempts
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Senha)) != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.ResultFailure).Inc()
		if _, err := u.sessionService.RecordLoginFailure(ctx, email); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := u.sessionService.ResetLoginFailures(ctx, email); err != nil {
		u.log.Warnf("Failed to reset login failures: %+v", err)
	}

	tutor, err := u.tutorRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		u.log.Warnf("Failed to find tutor by user id: %+v", err)
		return nil, err
	}
	if tutor == nil {
		return nil, ErrUserNotFound
	}

	tokens, err := u.issueTokens(ctx, jwt.Subject{UserID: user.ID, TutorID: tutor.ID, Email: user.Email})
	if err != nil {
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
	if err := u.auditService.LogAction(ctx, user.ID, entity.AuditActionTutorLogin, entity.JSON{"entity": "tutor", "entity_id": tutor.ID}); err != nil {
		u.log.Warnf("Failed to audit login: %+v", err)
	}

	return &dto.AuthResponse{
		Success: true,
		User:    converter.UserToResponse(user),
		Tutor:   converter.TutorToResponse(tutor),
		Tokens:  tokens,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	refreshID := ""
	if req != nil && req.RefreshToken != "" {
		if claims, err := u.jwtService.ValidateToken(req.RefreshToken); err == nil &&
			claims.TokenType == jwt.RefreshToken && claims.UserID == identity.UserID {
			refreshID = claims.TokenID
		}
	}

	if err := u.sessionService.Revoke(ctx, identity.UserID, identity.TokenID, refreshID); err != nil {
		return err
	}

	if err := u.auditService.LogAction(ctx, identity.UserID, entity.AuditActionTutorLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout: %+v", err)
	}
	return nil
}

// RefreshToken rotates the pair. A refresh token can be used once.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	valid, err := u.sessionService.ConsumeRefresh(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, u.jwtService.Subject(claims))
}

// GetCurrentUser rehydrates the session: credential, tutor profile and the first idoso.
func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.AuthResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	tutor, err := u.tutorRepo.FindByID(ctx, identity.TutorID)
	if err != nil {
		u.log.Warnf("Failed to find tutor by ID: %+v", err)
		return nil, err
	}
	if tutor == nil {
		return nil, ErrUserNotFound
	}

	idosos, err := u.idosoRepo.FindByTutorID(ctx, tutor.ID)
	if err != nil {
		u.log.Warnf("Failed to list idosos: %+v", err)
		return nil, err
	}

	response := &dto.AuthResponse{
		Success: true,
		User:    converter.UserToResponse(user),
		Tutor:   converter.TutorToResponse(tutor),
	}
	if len(idosos) > 0 {
		response.Idoso = converter.IdosoToResponse(&idosos[0])
	}
	return response, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, sub jwt.Subject) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	err = u.sessionService.Store(ctx, sub.UserID, accessTokenID, refreshTokenID,
		u.jwtService.GetAccessExpiry(), u.jwtService.GetRefreshExpiry())
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// buildContatos assigns ids to new contacts and enforces the per-tutor bound.
func buildContatos(in []dto.ContatoEmergenciaDTO, max int) (entity.ContatoList, error) {
	if max > 0 && len(in) > max {
		return nil, ErrTooManyContacts
	}
	contatos := make(entity.ContatoList, len(in))
	for i, c := range in {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		contatos[i] = entity.ContatoEmergencia{ID: id, Nome: c.Nome, Telefone: c.Telefone}
	}
	return contatos, nil
}
