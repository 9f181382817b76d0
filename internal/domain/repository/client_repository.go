package repository

import (
	"context"

	"github.com/jhoicas/facturx-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia del directorio de clientes.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetBySIRET(ctx context.Context, siret string) (*entity.Client, error)
	// Search filtra por nombre o SIRET (vacío = todos), ordenado por nombre.
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.Client, error)
	// Upsert crea o actualiza por SIRET y deja en c el ID persistido.
	Upsert(ctx context.Context, c *entity.Client) error
}
