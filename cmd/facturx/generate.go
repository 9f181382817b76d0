package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturx-api/internal/application/billing"
	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
	infrapdf "github.com/jhoicas/facturx-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturx-api/pkg/config"
)

var (
	generateInput   string
	generateProfile string
	generateOutDir  string
	generateEmitter string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Genera el XML CII y el PDF de una factura",
	Example: `  facturx generate -i factura.json -p en16931 -o ./out
  facturx generate -i factura.json --emitter resources/config/ma-conf.txt`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "JSON de la factura (obligatorio)")
	generateCmd.Flags().StringVarP(&generateProfile, "profile", "p", "", "Perfil: basic | en16931 (por defecto el del JSON o en16931)")
	generateCmd.Flags().StringVarP(&generateOutDir, "out", "o", ".", "Directorio de salida")
	generateCmd.Flags().StringVar(&generateEmitter, "emitter", "resources/config/ma-conf.txt", "Archivo clave=valor con los datos del emisor")
	_ = generateCmd.MarkFlagRequired("input")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req, err := readRequest(generateInput)
	if err != nil {
		return err
	}
	if generateProfile != "" {
		req.Profile = generateProfile
	}
	if req.InvoiceNumber == "" {
		return errors.New("invoice_number es obligatorio fuera del servidor (no hay numeración automática)")
	}

	emitterCfg, err := config.LoadEmitter(generateEmitter)
	if err != nil {
		return err
	}

	uc := billing.NewGenerateInvoiceUseCase(
		nil, nil, infrafacturx.NewXMLBuilderService(), infrapdf.NewMarotoPDFGenerator(), nil,
		billing.EmitterParty(emitterCfg), billing.GenerateConfig{}, cliLogger(),
	)
	out, err := uc.Preview(context.Background(), dto.PreviewRequest{InvoiceRequest: req, IncludePDF: true})
	if err != nil {
		return describe(err)
	}
	pdf, err := base64.StdEncoding.DecodeString(out.PDFBase64)
	if err != nil {
		return fmt.Errorf("decodificar PDF: %w", err)
	}

	if err := os.MkdirAll(generateOutDir, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", generateOutDir, err)
	}
	xmlName, pdfName, _ := infrafacturx.ArtifactFilenames(out.InvoiceNumber)
	xmlPath := filepath.Join(generateOutDir, xmlName)
	pdfPath := filepath.Join(generateOutDir, pdfName)
	if err := os.WriteFile(xmlPath, []byte(out.XML), 0o644); err != nil {
		return fmt.Errorf("escribir XML: %w", err)
	}
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return fmt.Errorf("escribir PDF: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Factura %s (%s)\n", out.InvoiceNumber, out.Profile)
	fmt.Fprintf(w, "  XML: %s\n  PDF: %s\n", xmlPath, pdfPath)
	fmt.Fprintf(w, "  SHA-256: %s\n", out.XMLHash)
	fmt.Fprintf(w, "  Total TTC: %s\n", out.Totals.TotalTTC)
	return nil
}

func readRequest(path string) (dto.InvoiceRequest, error) {
	var req dto.InvoiceRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("leer %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("JSON inválido en %s: %w", path, err)
	}
	return req, nil
}

// describe lista las violaciones de validación, una por línea.
func describe(err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	msg := "factura inválida:"
	for _, v := range verr.Violations {
		msg += fmt.Sprintf("\n  - %s: %s", v.Field, v.Message)
	}
	return errors.New(msg)
}
