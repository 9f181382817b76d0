// migrate aplica o revierte las migraciones embebidas sobre la base configurada.
//
// Uso: go run ./cmd/migrate [up|down|steps N|version]
// Sin argumentos equivale a "up". "down" revierte una sola migración.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/jhoicas/facturx-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturx-api/pkg/config"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("migrate")

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	m, err := postgres.NewMigrator(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "steps":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Uso: migrate steps N")
			os.Exit(2)
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			fmt.Fprintf(os.Stderr, "N inválido: %v\n", convErr)
			os.Exit(2)
		}
		err = m.Steps(n)
	case "version":
		v, dirty, vErr := m.Version()
		if errors.Is(vErr, migrate.ErrNilVersion) {
			fmt.Println("sin migraciones aplicadas")
			return
		}
		if vErr != nil {
			log.Fatal().Err(vErr).Msg("leer versión")
		}
		fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
		return
	default:
		fmt.Fprintf(os.Stderr, "Comando desconocido %q (up|down|steps N|version)\n", cmd)
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migración fallida")
	}
	v, dirty, _ := m.Version()
	log.Info().Str("cmd", cmd).Uint("version", v).Bool("dirty", dirty).Msg("migraciones al día")
}
