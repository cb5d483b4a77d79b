package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rinov1/WorkWave/internal/account"
	accounterrors "github.com/rinov1/WorkWave/internal/account/errors"
	autherrors "github.com/rinov1/WorkWave/internal/auth/errors"
	"github.com/rinov1/WorkWave/internal/auth/token"
	"github.com/rinov1/WorkWave/internal/credential"
	"github.com/rinov1/WorkWave/internal/domain"
	"github.com/rinov1/WorkWave/internal/employee"
	"github.com/rinov1/WorkWave/internal/shared/contextutil"

	"go.uber.org/zap"
)

// Bootstrap is the credential that provisions the first HR account on login.
type Bootstrap struct {
	Email    string
	Password string
}

func (b Bootstrap) matches(email, password string) bool {
	return b.Email != "" && email == account.NormalizeEmail(b.Email) && password == b.Password
}

// DirectoryInvalidator drops the cached HR employee list after a new profile appears.
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, accountID int64) (*AuthResponse, error)
	// Register creates the account and its empty profile in one transaction. The live roster is
	// left alone until HR adds the account.
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	db        *sql.DB
	accounts  account.Repository
	profiles  employee.Repository
	hasher    credential.Hasher
	tokens    *token.Manager
	directory DirectoryInvalidator
	bootstrap Bootstrap
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	accounts account.Repository,
	profiles employee.Repository,
	hasher credential.Hasher,
	tokens *token.Manager,
	directory DirectoryInvalidator,
	bootstrap Bootstrap,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:        db,
		accounts:  accounts,
		profiles:  profiles,
		hasher:    hasher,
		tokens:    tokens,
		directory: directory,
		bootstrap: bootstrap,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error) {
	email = account.NormalizeEmail(email)
	log := contextutil.GetLogger(ctx, s.logger)

	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	if acc == nil {
		if !s.bootstrap.matches(email, password) {
			return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		acc, err = s.provisionBootstrapHR(ctx, email, password)
		if err != nil {
			return TokenPair{}, AuthResponse{}, err
		}
	}

	if !s.hasher.Verify(password, acc.PasswordSalt, acc.PasswordHash) {
		log.Info("login rejected", zap.Int64("account_id", acc.ID))
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	pair, err := s.issue(acc)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	log.Info("login success", zap.Int64("account_id", acc.ID), zap.Bool("is_hr", acc.IsHR))
	return pair, mapToResponse(*acc), nil
}

// provisionBootstrapHR creates the HR account; a concurrent login that won the insert is re-read.
func (s *service) provisionBootstrapHR(ctx context.Context, email, password string) (*account.Account, error) {
	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	acc := &account.Account{
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		IsHR:         true,
		CreatedAt:    s.now(),
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		if !errors.Is(err, accounterrors.ErrDuplicateEmail) {
			return nil, err
		}
		existing, findErr := s.accounts.FindByEmail(ctx, email)
		if findErr != nil || existing == nil {
			return nil, err
		}
		return existing, nil
	}

	s.logger.Info("bootstrap hr account provisioned", zap.Int64("account_id", acc.ID))
	return acc, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := s.tokens.Parse(refreshToken, token.Refresh)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	acc, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	if acc == nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	pair, err := s.issue(acc)
	if err != nil {
		return TokenPair{}, AuthResponse{}, err
	}
	return pair, mapToResponse(*acc), nil
}

func (s *service) GetMe(ctx context.Context, accountID int64) (*AuthResponse, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, accounterrors.ErrAccountNotFound
	}
	resp := mapToResponse(*acc)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	email := account.NormalizeEmail(req.Email)

	hash, salt, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	now := s.now()
	acc := &account.Account{
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    now,
	}
	if err := s.accounts.WithTx(tx).Create(ctx, acc); err != nil {
		s.logger.Warn("register create account failed", zap.String("request_id", rid), zap.Error(err))
		return AuthResponse{}, err
	}

	profile := &employee.Profile{
		AccountID: acc.ID,
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.WithTx(tx).Upsert(ctx, profile); err != nil {
		s.logger.Error("register create profile failed", zap.Int64("account_id", acc.ID), zap.Error(err))
		return AuthResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register commit failed", zap.String("request_id", rid), zap.Error(err))
		return AuthResponse{}, err
	}

	s.directory.Invalidate(ctx)

	s.logger.Info("register success", zap.String("request_id", rid), zap.Int64("account_id", acc.ID))
	return mapToResponse(*acc), nil
}

func (s *service) issue(acc *account.Account) (TokenPair, error) {
	role := domain.RoleFor(acc.IsHR)
	access, err := s.tokens.Issue(acc.ID, role, token.Access)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.Issue(acc.ID, role, token.Refresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.tokens.TTL(token.Access),
		RefreshTTL:   s.tokens.TTL(token.Refresh),
	}, nil
}

func mapToResponse(a account.Account) AuthResponse {
	return AuthResponse{
		AccountID: a.ID,
		Email:     a.Email,
		Role:      domain.RoleFor(a.IsHR),
		IsHR:      a.IsHR,
		CreatedAt: a.CreatedAt,
	}
}
