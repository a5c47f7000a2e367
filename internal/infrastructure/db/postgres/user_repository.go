package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

// UserRepository reads usuarios without assuming its column set: the row is
// fetched as a JSON document and only id and status are interpreted.
type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT to_jsonb(u) FROM usuarios u WHERE u.id::text = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find usuario: %w", err)
	}
	return decodeUser(raw)
}

func decodeUser(raw []byte) (*domain.User, error) {
	profile := map[string]any{}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode usuario: %w", err)
	}

	user := &domain.User{Profile: profile}
	switch v := profile["id"].(type) {
	case string:
		user.ID = v
	case float64:
		user.ID = fmt.Sprintf("%.0f", v)
	}
	if s, ok := profile["status"].(string); ok {
		user.Status = s
	}
	return user, nil
}
