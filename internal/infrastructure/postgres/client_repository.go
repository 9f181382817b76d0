package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, siret, vat_number, address, postal_code, city, country_code, email, created_at, updated_at`

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente. SIRET repetido devuelve ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.SIRET, c.VATNumber, c.Address, c.PostalCode, c.City, c.CountryCode, c.Email,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetBySIRET obtiene un cliente por SIRET.
func (r *ClientRepo) GetBySIRET(ctx context.Context, siret string) (*entity.Client, error) {
	return r.getOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE siret = $1`, siret)
}

// Search filtra por nombre (contiene, sin distinguir mayúsculas) o prefijo de SIRET.
func (r *ClientRepo) Search(ctx context.Context, q string, limit, offset int) ([]*entity.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE $1 = '' OR LOWER(name) LIKE '%' || LOWER($1) || '%' OR siret LIKE $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Upsert crea el cliente o actualiza sus datos si el SIRET ya existe.
func (r *ClientRepo) Upsert(ctx context.Context, c *entity.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (siret) DO UPDATE SET
			name         = EXCLUDED.name,
			vat_number   = EXCLUDED.vat_number,
			address      = EXCLUDED.address,
			postal_code  = EXCLUDED.postal_code,
			city         = EXCLUDED.city,
			country_code = EXCLUDED.country_code,
			email        = CASE WHEN EXCLUDED.email = '' THEN clients.email ELSE EXCLUDED.email END,
			updated_at   = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		c.ID, c.Name, c.SIRET, c.VATNumber, c.Address, c.PostalCode, c.City, c.CountryCode, c.Email, now,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) getOne(ctx context.Context, query string, arg any) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(
		&c.ID, &c.Name, &c.SIRET, &c.VATNumber, &c.Address, &c.PostalCode, &c.City, &c.CountryCode, &c.Email,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
