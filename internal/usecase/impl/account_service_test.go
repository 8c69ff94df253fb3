package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	mockRepo "passport/internal/mocks/repository"
	mockSvc "passport/internal/mocks/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	txManager    *mockRepo.MockTransactionManager
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       logger,
	})

	return accountServiceFixtures{
		service:      service,
		txManager:    txManager,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Username: "alice",
		Password: "wonderland",
		Email:    "alice@example.com",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				Insert(ctx, mock.AnythingOfType("*entity.Account")).
				Run(func(ctx context.Context, account *entity.Account) {
					assert.Equal(t, "hashed_password", account.PasswordHash)
					account.ID = uuid.New()
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, input.Username, output.Username)
}

func TestAccountService_Register_PasswordTooShort(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Username: "alice",
		Password: "short",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("", domainerrors.ErrPasswordTooShort)

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordTooShort))
}

func TestAccountService_Register_DuplicateAccount(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Username: "alice",
		Password: "wonderland",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				Insert(ctx, mock.AnythingOfType("*entity.Account")).
				Return(repository.ErrDuplicateAccount)

			_ = fn(mockFactory)
		}).
		Return(domainerrors.ErrAccountExists.WrapMessage("registration failed"))

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountExists))
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Username: "alice",
		Password: "wonderland",
	}

	account := &entity.Account{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "hashed_password",
	}
	expiresAt := time.Now().Add(time.Hour)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				FindByUsername(ctx, input.Username).
				Return(account, nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(true)
	fx.tokenService.EXPECT().Issue(account.Username).Return("signed.token.value", expiresAt, nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "signed.token.value", output.AccessToken)
	assert.Equal(t, "bearer", output.TokenType)
	assert.Equal(t, expiresAt, output.ExpiresAt)
}

func TestAccountService_Login_UnknownAccount(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Username: "nobody",
		Password: "wonderland",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				FindByUsername(ctx, input.Username).
				Return(nil, repository.ErrAccountNotFound)

			_ = fn(mockFactory)
		}).
		Return(domainerrors.ErrInvalidCredentials.WrapMessage("login failed"))

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Username: "alice",
		Password: "not-wonderland",
	}

	account := &entity.Account{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "hashed_password",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				FindByUsername(ctx, input.Username).
				Return(account, nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(false)

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

// Unknown-account and wrong-password logins must be indistinguishable: the
// caller sees the same sentinel either way.
func TestAccountService_Login_FailuresAreIndistinguishable(t *testing.T) {
	unknownFx := createTestAccountService(t)
	wrongFx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "hashed_password",
	}

	unknownFx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)
			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockAccountRepo.EXPECT().FindByUsername(ctx, "nobody").Return(nil, repository.ErrAccountNotFound)
			_ = fn(mockFactory)
		}).
		Return(domainerrors.ErrInvalidCredentials.WrapMessage("login failed"))

	wrongFx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)
			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockAccountRepo.EXPECT().FindByUsername(ctx, "alice").Return(account, nil)
			_ = fn(mockFactory)
		}).
		Return(nil)
	wrongFx.hasher.EXPECT().Check("bad-password", account.PasswordHash).Return(false)

	_, unknownErr := unknownFx.service.Login(ctx, &usecase.LoginInput{Username: "nobody", Password: "whatever1"})
	_, wrongErr := wrongFx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "bad-password"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	var unknownApp, wrongApp domainerrors.AppError
	require.True(t, errors.As(unknownErr, &unknownApp))
	require.True(t, errors.As(wrongErr, &wrongApp))

	assert.Equal(t, unknownApp.HTTPCode(), wrongApp.HTTPCode())
	assert.Equal(t, unknownApp.ErrorCode(), wrongApp.ErrorCode())
	assert.Equal(t, unknownApp.Message(), wrongApp.Message())
}

func TestAccountService_ResetPassword_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.ResetPasswordInput{
		Username:    "alice",
		NewPassword: "looking-glass",
	}

	fx.hasher.EXPECT().Hash(input.NewPassword).Return("new_hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				UpdatePasswordHash(ctx, input.Username, "new_hashed_password").
				Return(int64(1), nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	err := fx.service.ResetPassword(ctx, input)

	require.NoError(t, err)
}

func TestAccountService_ResetPassword_AccountNotFound(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.ResetPasswordInput{
		Username:    "nobody",
		NewPassword: "looking-glass",
	}

	fx.hasher.EXPECT().Hash(input.NewPassword).Return("new_hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().
				UpdatePasswordHash(ctx, input.Username, "new_hashed_password").
				Return(int64(0), nil)

			_ = fn(mockFactory)
		}).
		Return(domainerrors.ErrAccountNotFound.WrapMessage("password reset failed"))

	err := fx.service.ResetPassword(ctx, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_ResetPassword_PasswordTooShort(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.ResetPasswordInput{
		Username:    "alice",
		NewPassword: "short",
	}

	fx.hasher.EXPECT().Hash(input.NewPassword).Return("", domainerrors.ErrPasswordTooShort)

	err := fx.service.ResetPassword(ctx, input)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordTooShort))
}
