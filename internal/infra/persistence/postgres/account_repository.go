// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Insert persists a new account record.
// The unique indexes on username, email and number make the uniqueness check
// and the insert a single atomic statement: concurrent colliding inserts
// resolve to one success and one ErrDuplicateAccount.
func (repo *accountRepository) Insert(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateAccount
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required account fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to insert account")
	}

	// Propagate generated values back to the entity.
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// FindByUsername retrieves a single account by its canonical login key.
func (repo *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&accountM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by username")
	}

	return toAccountDomain(&accountM), nil
}

// UpdatePasswordHash replaces the stored hash for the account matching username.
// A zero row count signals that the account does not exist; the caller decides
// how to surface it.
func (repo *accountRepository) UpdatePasswordHash(ctx context.Context, username, newHash string) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("username = ?", username).
		Update("password_hash", newHash)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to update password hash")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	account := &entity.Account{
		ID:           data.ID,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
	if data.Email != nil {
		account.Email = *data.Email
	}
	if data.Number != nil {
		account.Number = *data.Number
	}

	return account
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	accountM := &model.AccountModel{
		ID:           data.ID,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
	}
	if data.Email != "" {
		accountM.Email = &data.Email
	}
	if data.Number != "" {
		accountM.Number = &data.Number
	}

	return accountM
}
