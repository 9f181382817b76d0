package facturx

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ucarion/c14n"
)

// ContentHash SHA-256 (hex) del XML canonicalizado (C14N). Se guarda junto a la
// factura para detectar cualquier alteración del XML almacenado.
func ContentHash(xmlDoc string) (string, error) {
	canon, err := canonicalizeXML(xmlDoc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyContentHash compara el XML con una huella guardada.
func VerifyContentHash(xmlDoc, expected string) (bool, error) {
	got, err := ContentHash(xmlDoc)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(got, expected), nil
}

func canonicalizeXML(xmlDoc string) ([]byte, error) {
	// C14N descarta la declaración XML; se quita antes de decodificar.
	body := strings.TrimSpace(xmlDoc)
	if strings.HasPrefix(body, "<?xml") {
		if end := strings.Index(body, "?>"); end != -1 {
			body = strings.TrimSpace(body[end+2:])
		}
	}
	dec := xml.NewDecoder(strings.NewReader(body))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("facturx: canonicalizar XML: %w", err)
	}
	return canon, nil
}
