package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// ClientUseCase casos de uso del directorio de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un nuevo cliente. SIRET ya registrado devuelve ErrDuplicate.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	in.SIRET = pkgfacturx.NormalizeIdentifier(in.SIRET)
	if v := dto.Validate(in); len(v) > 0 {
		return nil, &domain.ValidationError{Violations: v}
	}
	existing, err := uc.repo.GetBySIRET(ctx, in.SIRET)
	if err != nil {
		return nil, fmt.Errorf("clients: buscar SIRET: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("cliente con SIRET %s: %w", in.SIRET, domain.ErrDuplicate)
	}

	c := &entity.Client{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		SIRET:       in.SIRET,
		VATNumber:   strings.TrimSpace(in.VATNumber),
		Address:     strings.TrimSpace(in.Address),
		PostalCode:  strings.TrimSpace(in.PostalCode),
		City:        strings.TrimSpace(in.City),
		CountryCode: orDefault(in.CountryCode, pkgfacturx.DefaultCountry),
		Email:       strings.TrimSpace(in.Email),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := toClientResponse(c)
	return &resp, nil
}

// GetByID obtiene un cliente.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("clients: obtener: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	resp := toClientResponse(c)
	return &resp, nil
}

// List busca clientes por nombre o SIRET, paginado.
func (uc *ClientUseCase) List(ctx context.Context, in dto.ClientListRequest) ([]dto.ClientResponse, error) {
	in.DefaultPage()
	if v := dto.Validate(in); len(v) > 0 {
		return nil, &domain.ValidationError{Violations: v}
	}
	list, err := uc.repo.Search(ctx, strings.TrimSpace(in.Query), in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("clients: listar: %w", err)
	}
	return lo.Map(list, func(c *entity.Client, _ int) dto.ClientResponse { return toClientResponse(c) }), nil
}
