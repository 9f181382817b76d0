package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
)

var _ repository.SentInvoiceRepository = (*SentInvoiceRepo)(nil)

// SentInvoiceRepo implementación de SentInvoiceRepository (usable con pool o tx).
type SentInvoiceRepo struct {
	q Querier
}

// NewSentInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSentInvoiceRepository(q Querier) *SentInvoiceRepo {
	return &SentInvoiceRepo{q: q}
}

// Create persiste la factura emitida con su XML y el documento original.
func (r *SentInvoiceRepo) Create(ctx context.Context, inv *entity.SentInvoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = inv.CreatedAt
	if inv.Status == "" {
		inv.Status = entity.InvoiceStatusGenerated
	}

	query := `
		INSERT INTO sent_invoices (
			id, number, type_code, currency, profile, issue_date, due_date, client_id,
			recipient_name, recipient_siret, total_ht, total_vat, total_ttc,
			xml, xml_hash, document_json, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.TypeCode, inv.Currency, inv.Profile, inv.IssueDate, inv.DueDate,
		nullIfEmpty(inv.ClientID), inv.RecipientName, inv.RecipientSIRET,
		inv.TotalHT, inv.TotalVAT, inv.TotalTTC,
		inv.XML, inv.XMLHash, inv.DocumentJSON, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de factura %s ya emitido: %w", inv.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert sent invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la factura completa (incluye XML y documento).
func (r *SentInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.SentInvoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `
		SELECT id, number, type_code, currency, profile, issue_date, due_date, client_id,
		       recipient_name, recipient_siret, total_ht, total_vat, total_ttc,
		       xml, xml_hash, document_json, status, track_id, gateway_errors,
		       created_at, updated_at
		FROM sent_invoices WHERE id = $1`
	var inv entity.SentInvoice
	var clientID, trackID, gatewayErrors *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.TypeCode, &inv.Currency, &inv.Profile, &inv.IssueDate, &inv.DueDate, &clientID,
		&inv.RecipientName, &inv.RecipientSIRET, &inv.TotalHT, &inv.TotalVAT, &inv.TotalTTC,
		&inv.XML, &inv.XMLHash, &inv.DocumentJSON, &inv.Status, &trackID, &gatewayErrors,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sent invoice: %w", err)
	}
	inv.ClientID = derefStr(clientID)
	inv.TrackID = derefStr(trackID)
	inv.GatewayErrors = derefStr(gatewayErrors)
	return &inv, nil
}

// List devuelve la cabecera de las facturas según el filtro (sin XML ni documento).
func (r *SentInvoiceRepo) List(ctx context.Context, f repository.SentInvoiceFilter) ([]*entity.SentInvoice, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if !f.From.IsZero() {
		add("issue_date >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("issue_date <= $%d", f.To)
	}

	query := `
		SELECT id, number, type_code, currency, profile, issue_date, due_date, client_id,
		       recipient_name, recipient_siret, total_ht, total_vat, total_ttc,
		       xml_hash, status, track_id, gateway_errors, created_at, updated_at
		FROM sent_invoices`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY issue_date DESC, number DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sent invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.SentInvoice
	for rows.Next() {
		var inv entity.SentInvoice
		var clientID, trackID, gatewayErrors *string
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.TypeCode, &inv.Currency, &inv.Profile, &inv.IssueDate, &inv.DueDate, &clientID,
			&inv.RecipientName, &inv.RecipientSIRET, &inv.TotalHT, &inv.TotalVAT, &inv.TotalTTC,
			&inv.XMLHash, &inv.Status, &trackID, &gatewayErrors, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sent invoice: %w", err)
		}
		inv.ClientID = derefStr(clientID)
		inv.TrackID = derefStr(trackID)
		inv.GatewayErrors = derefStr(gatewayErrors)
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// MarkSending transición condicional a SENDING: la comprobación del estado y
// el cambio ocurren en la misma sentencia, así dos envíos simultáneos no pasan ambos.
func (r *SentInvoiceRepo) MarkSending(ctx context.Context, id string) error {
	query := `
		UPDATE sent_invoices
		SET status     = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)`
	tag, err := r.q.Exec(ctx, query, id, entity.InvoiceStatusSending, entity.SendableStatuses)
	if err != nil {
		return fmt.Errorf("mark sent invoice sending: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("factura %s no reenviable: %w", id, domain.ErrConflict)
	}
	return nil
}

// UpdateStatus actualiza el estado frente a la plataforma. Un track ID vacío
// conserva el anterior; los errores siempre se reemplazan (vacío = sin errores).
func (r *SentInvoiceRepo) UpdateStatus(ctx context.Context, id, status, trackID, gatewayErrors string) error {
	query := `
		UPDATE sent_invoices
		SET status         = $2,
		    track_id       = COALESCE($3, track_id),
		    gateway_errors = $4,
		    updated_at     = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status, nullIfEmpty(trackID), nullIfEmpty(gatewayErrors))
	if err != nil {
		return fmt.Errorf("update sent invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
