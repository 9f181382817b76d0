package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturx-api/internal/domain"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

var totalsInput string

var totalsCmd = &cobra.Command{
	Use:     "totals",
	Short:   "Muestra los totales y el desglose de IVA de una factura",
	Example: `  facturx totals -i factura.json`,
	RunE:    runTotals,
}

func init() {
	totalsCmd.Flags().StringVarP(&totalsInput, "input", "i", "", "JSON de la factura (obligatorio)")
	_ = totalsCmd.MarkFlagRequired("input")
}

func runTotals(cmd *cobra.Command, _ []string) error {
	req, err := readRequest(totalsInput)
	if err != nil {
		return err
	}
	lines, err := domfacturx.ParseInvoiceLines(req.Lines)
	if err != nil {
		return err
	}
	if v := domfacturx.ValidateLines(lines); len(v) > 0 {
		return describe(&domain.ValidationError{Violations: v})
	}
	totals, err := domfacturx.ComputeInvoiceTotals(lines)
	if err != nil {
		return err
	}

	currency := req.Currency
	if currency == "" {
		currency = pkgfacturx.DefaultCurrency
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Línea\tDescripción\tNeto HT\tIVA\tTTC\t")
	for i, lt := range totals.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", i+1, lines[i].Description,
			domfacturx.FormatAmountFR(lt.NetHT), domfacturx.FormatAmountFR(lt.VATAmount), domfacturx.FormatAmountFR(lt.TotalTTC))
	}
	fmt.Fprintln(tw, "\t\t\t\t\t")
	fmt.Fprintln(tw, "IVA\tCategoría\tBase HT\tImporte\t\t")
	for _, g := range totals.VATBreakdown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\t\n", domfacturx.VATLabel(g.Rate, g.Category), g.Category,
			domfacturx.FormatAmountFR(g.BaseHT), domfacturx.FormatAmountFR(g.VATAmount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\nTotal HT:  %s\n", domfacturx.FormatMoneyFR(totals.TotalHT, currency))
	fmt.Fprintf(w, "Total TVA: %s\n", domfacturx.FormatMoneyFR(totals.TotalVAT, currency))
	fmt.Fprintf(w, "Total TTC: %s\n", domfacturx.FormatMoneyFR(totals.TotalTTC, currency))
	return nil
}
