// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// tokenTypeBearer is the fixed token_type returned with every issued session token.
const tokenTypeBearer = "bearer"

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the account registration process.
// The password length precondition is enforced by the hasher before anything
// touches the store, so a rejected registration leaves no account behind.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	hashedPassword, err := srv.hashPassword(ctx, input.Password)
	if err != nil {
		return nil, err
	}

	newAccount := &entity.Account{
		Username:     input.Username,
		Email:        input.Email,
		Number:       input.Number,
		PasswordHash: hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if err := accountRepo.Insert(ctx, newAccount); err != nil {
			if errors.Is(err, repository.ErrDuplicateAccount) {
				return domainerrors.ErrAccountExists.WrapMessage("registration failed")
			}

			return errors.Wrap(err, "failed to insert account during registration")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}
	srv.log(ctx).Debug("Account registered", slog.Any("accountID", newAccount.ID))

	return &usecase.RegisterOutput{Username: newAccount.Username}, nil
}

// Login orchestrates the login process.
// A lookup miss and a password mismatch return the same generic credential
// error; the two outcomes must stay observably identical to the caller.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	account, err := srv.loadLoginAccount(ctx, input.Username)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", err))

		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			return nil, errors.Wrap(err, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	// Check the password outside the transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, expiresAt, err := srv.tokenService.Issue(account.Username)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}
	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
	}, nil
}

// ResetPassword orchestrates the password reset process.
func (srv *accountService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	srv.log(ctx).Info("Starting password reset", slog.String("username", input.Username))

	newHash, err := srv.hashPassword(ctx, input.NewPassword)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		rowsAffected, err := accountRepo.UpdatePasswordHash(ctx, input.Username, newHash)
		if err != nil {
			return errors.Wrap(err, "failed to update password hash")
		}
		if rowsAffected == 0 {
			return domainerrors.ErrAccountNotFound.WrapMessage("password reset failed")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Password reset failed", slog.String("username", input.Username), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute password reset transaction")
	}
	srv.log(ctx).Info("Password reset completed", slog.String("username", input.Username))

	return nil
}

// hashPassword applies the length precondition and hashing, translating
// hasher failures into the domain error taxonomy.
func (srv *accountService) hashPassword(ctx context.Context, password string) (string, error) {
	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, domainerrors.ErrPasswordTooShort) {
			srv.log(ctx).Warn("Password below minimum length")

			return "", errors.Wrap(err, "password validation failed")
		}
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return "", domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	return hashedPassword, nil
}

// loadLoginAccount loads the account from the primary in a short transaction
// to avoid stale reads on replicas. A lookup miss is already translated to
// the generic credential error here.
func (srv *accountService) loadLoginAccount(ctx context.Context, username string) (*entity.Account, error) {
	var account *entity.Account

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		var findErr error
		account, findErr = accountRepo.FindByUsername(ctx, username)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAccountNotFound) {
				return domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
			}

			return errors.Wrap(findErr, "failed to find account")
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return account, nil
}
