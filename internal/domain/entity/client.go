package entity

import "time"

// Client destinatario guardado en el directorio de clientes.
type Client struct {
	ID          string
	Name        string
	SIRET       string
	VATNumber   string
	Address     string
	PostalCode  string
	City        string
	CountryCode string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToParty convierte el cliente en la parte compradora de una factura.
func (c *Client) ToParty() Party {
	return Party{
		Name:        c.Name,
		SIRET:       c.SIRET,
		VATNumber:   c.VATNumber,
		Address:     c.Address,
		PostalCode:  c.PostalCode,
		City:        c.City,
		CountryCode: c.CountryCode,
	}
}
