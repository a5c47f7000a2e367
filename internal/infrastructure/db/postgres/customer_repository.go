package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

const codeUniqueViolation = "23505"

const customerColumns = `id::text, codigo, codigo_crm, nome, email, telefone, status`

// keyColumns whitelists the business keys that may be interpolated into SQL.
var keyColumns = map[domain.BusinessKey]string{
	domain.KeyCodigoCRM: "codigo_crm",
	domain.KeyEmail:     "email",
}

var orderColumns = map[string]string{
	"codigo":     "codigo",
	"nome":       "nome",
	"codigo_crm": "codigo_crm",
	"email":      "email",
}

// CustomerRepository implements ports.CustomerRepository on the clientes table.
type CustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) List(ctx context.Context, orderBy string) ([]*domain.Customer, error) {
	column, ok := orderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("list clientes: unsupported order %q", orderBy)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM clientes ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("list clientes: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	if !validID(id) {
		return nil, domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c, err := scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM clientes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find cliente: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) FindIDByKey(ctx context.Context, key domain.BusinessKey, value, excludeID string) (string, error) {
	column, ok := keyColumns[key]
	if !ok {
		return "", fmt.Errorf("find cliente by key: unsupported key %q", key)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT id::text FROM clientes WHERE ` + column + ` = $1`
	args := []any{value}
	if excludeID != "" && validID(excludeID) {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`

	var id string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		// No match is the expected outcome of a uniqueness check.
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find cliente by %s: %w", column, err)
	}
	return id, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created, err := scanCustomer(r.db.QueryRow(ctx, `
		INSERT INTO clientes (codigo_crm, nome, email, telefone, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+customerColumns,
		c.CodigoCRM, c.Nome, c.Email, c.Telefone, string(c.Status),
	))
	if err != nil {
		if key, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("insert cliente: %w", &domain.DuplicateError{Key: key})
		}
		return nil, fmt.Errorf("insert cliente: %w", err)
	}
	return created, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id string, c *domain.Customer) (*domain.Customer, error) {
	if !validID(id) {
		return nil, domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var status *string
	if c.Status != "" {
		s := string(c.Status)
		status = &s
	}

	updated, err := scanCustomer(r.db.QueryRow(ctx, `
		UPDATE clientes
		SET codigo_crm = $1, nome = $2, email = $3, telefone = $4, status = COALESCE($5, status)
		WHERE id = $6
		RETURNING `+customerColumns,
		c.CodigoCRM, c.Nome, c.Email, c.Telefone, status, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		if key, ok := uniqueViolation(err); ok {
			return nil, fmt.Errorf("update cliente: %w", &domain.DuplicateError{Key: key})
		}
		return nil, fmt.Errorf("update cliente: %w", err)
	}
	return updated, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrCustomerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c      domain.Customer
		status string
	)
	if err := row.Scan(&c.ID, &c.Codigo, &c.CodigoCRM, &c.Nome, &c.Email, &c.Telefone, &status); err != nil {
		return nil, err
	}
	c.Status = domain.CustomerStatus(status)
	return &c, nil
}

// validID rejects ids that are not UUIDs so a malformed path parameter reads
// as "not found" rather than a store syntax error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// uniqueViolation reports whether err is a unique violation and which
// business key it hit, judged by the constraint name. The key is empty when
// the constraint is not one of ours.
func uniqueViolation(err error) (domain.BusinessKey, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return "", false
	}
	for key, column := range keyColumns {
		if strings.Contains(pgErr.ConstraintName, column) {
			return key, true
		}
	}
	return "", true
}
