package repository

import "context"

// InvoiceCounterRepository numeración correlativa por prefijo y año.
type InvoiceCounterRepository interface {
	// Next reserva y devuelve el siguiente valor (1, 2, …) para el par prefijo/año.
	Next(ctx context.Context, prefix string, year int) (int64, error)
}
