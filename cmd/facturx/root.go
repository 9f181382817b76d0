package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturx-api/pkg/logger"
)

var version = "1.0.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "facturx",
	Short: "Generador de facturas Factur-X (CII D16B) en línea de comandos",
	Long: `facturx calcula totales y genera el XML CII y el PDF de una factura
descrita en JSON (mismo formato que POST /api/invoices), sin base de datos.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute ejecuta el comando raíz.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Registro detallado en stderr")
	rootCmd.AddCommand(generateCmd, totalsCmd)
}

func cliLogger() *logger.Logger {
	if !verbose {
		return logger.Nop()
	}
	return logger.New(logger.Config{Env: "development", Level: "debug", Output: os.Stderr})
}
