// Package storage archiva los artefactos de cada factura (XML, PDF, ZIP)
// en disco local o en un bucket S3.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/facturx-api/pkg/config"
)

// ErrObjectNotFound el objeto no existe en el archivo.
var ErrObjectNotFound = errors.New("storage: objeto no encontrado")

// ArchiveStore almacén de artefactos direccionado por clave ("2026/FA-2026-0001.xml").
type ArchiveStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// New elige la implementación según ARCHIVE_DRIVER.
func New(ctx context.Context, cfg config.ArchiveConfig) (ArchiveStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.Dir)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}
