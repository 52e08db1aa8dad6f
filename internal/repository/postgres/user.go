package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{pool: config.Pool}
}

// GetBySubject looks a user up by identity provider subject.
func (r *PostgresUserRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, `
		SELECT id, subject, email, is_admin
		FROM users
		WHERE subject = $1
	`, subject).Scan(&user.ID, &user.Subject, &user.Email, &user.IsAdmin)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", subject, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
