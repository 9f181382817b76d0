package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturx-api/internal/domain/repository"
)

var _ repository.InvoiceCounterRepository = (*InvoiceCounterRepo)(nil)

// InvoiceCounterRepo contador de numeración por prefijo y año.
type InvoiceCounterRepo struct {
	q Querier
}

// NewInvoiceCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceCounterRepository(q Querier) *InvoiceCounterRepo {
	return &InvoiceCounterRepo{q: q}
}

// Next incrementa el contador con un upsert atómico; la fila queda bloqueada
// hasta el fin de la transacción, lo que serializa emisiones concurrentes.
func (r *InvoiceCounterRepo) Next(ctx context.Context, prefix string, year int) (int64, error) {
	query := `
		INSERT INTO invoice_counters (prefix, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET last_value = invoice_counters.last_value + 1
		RETURNING last_value`
	var next int64
	if err := r.q.QueryRow(ctx, query, prefix, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("next invoice counter: %w", err)
	}
	return next, nil
}
