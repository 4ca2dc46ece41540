package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Vet Clinic Scheduling API
// @version 1.0
// @description Agenda de citas de la clínica: cálculo de turnos, detección de conflictos y grilla de disponibilidad.
// @BasePath /

var envFile string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vet-clinic-scheduling",
		Short:         "Agenda de citas de la clínica veterinaria",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env opcional")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
