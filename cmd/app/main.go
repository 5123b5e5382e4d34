// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/gestorweb/contactos/internal/config"
	"github.com/gestorweb/contactos/internal/server"
)

func main() {
	// A missing .env is fine; flags and real environment still apply.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:   "contactos",
		Usage:  "Gestor de contactos for insurance leads",
		Flags:  config.Flags(),
		Action: server.Run,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web application",
				Flags:  config.Flags(),
				Action: server.Run,
			},
			{
				Name:  "migrate",
				Usage: "Manage database migrations",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Flags:  config.Flags(),
						Action: server.RunMigrateUp,
					},
					{
						Name:   "down",
						Usage:  "Roll back the last migration",
						Flags:  config.Flags(),
						Action: server.RunMigrateDown,
					},
					{
						Name:   "reset",
						Usage:  "Roll back all migrations and re-apply them",
						Flags:  config.Flags(),
						Action: server.RunMigrateReset,
					},
				},
			},
			{
				Name:      "delete-user",
				Usage:     "Delete an account and all its contacts",
				ArgsUsage: "EMAIL",
				Flags:     config.Flags(),
				Action:    server.RunDeleteUser,
			},
			{
				Name:   "seed",
				Usage:  "Load development sample data",
				Flags:  config.Flags(),
				Action: server.RunSeed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
