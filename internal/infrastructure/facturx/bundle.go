package facturx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Artifact archivo generado para una factura (XML CII, PDF legible).
type Artifact struct {
	Name string
	Data []byte
}

// BundleArtifacts empaqueta los artefactos en un ZIP en memoria, en el orden recibido.
// La fecha de cada entrada es fija para que el ZIP sea reproducible.
func BundleArtifacts(modified time.Time, files ...Artifact) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// ArtifactBaseName nombre de archivo seguro a partir del número de factura.
// Ejemplo: "FA 2026/0001" → "FA_2026_0001".
func ArtifactBaseName(number string) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(number), "_"), "_.")
	if base == "" {
		return "facture"
	}
	return base
}

// ArtifactFilenames nombres del XML, PDF y ZIP de una factura.
func ArtifactFilenames(number string) (xmlName, pdfName, zipName string) {
	base := ArtifactBaseName(number)
	return base + ".xml", base + ".pdf", base + ".zip"
}
