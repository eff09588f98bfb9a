// Package cli is the facturas command tree.
package cli

import (
	"context"

	"github.com/dmitrijs2005/facturas/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "facturas",
		Short: "Compose, view and record invoices",
		Long: "facturas composes invoice XML documents, shows received ones, " +
			"turns them into logged INSERT statements and keeps them in a database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newCodeCmd(app))
	cmd.AddCommand(newEmitCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newSampleCmd(app))
	cmd.AddCommand(newInsertCmd(app))
	cmd.AddCommand(newLogCmd(app))
	cmd.AddCommand(newDBCmd(app))
	cmd.AddCommand(newPDFCmd(app))
	cmd.AddCommand(newSendCmd(app))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
