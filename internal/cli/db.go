package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/tui"
	"github.com/spf13/cobra"
)

func newDBCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Work with stored invoices",
	}
	cmd.AddCommand(newDBMigrateCmd(app))
	cmd.AddCommand(newDBListCmd(app))
	cmd.AddCommand(newDBGetCmd(app))
	cmd.AddCommand(newDBDeleteCmd(app))
	cmd.AddCommand(newDBImportCmd(app))
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad invoice id %q", s)
	}
	return id, nil
}

func newDBMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the invoices table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeDB, err := app.openInvoices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			fmt.Fprintln(app.out, "database is up to date")
			return nil
		},
	}
}

func newDBListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := app.openInvoices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			rows, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.out, tui.RenderInvoiceList(rows))
			return nil
		},
	}
}

func newDBGetCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, closeDB, err := app.openInvoices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			row, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("invoice %d: %w", id, err)
			}

			if raw {
				fmt.Fprintln(app.out, row.XML)
				return nil
			}

			inv, err := invoice.Parse([]byte(row.XML))
			if err != nil {
				return fmt.Errorf("invoice %d: %w", id, err)
			}
			fmt.Fprint(app.out, tui.RenderInvoice(inv))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "xml", false, "print the stored XML")
	return cmd
}

func newDBDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, closeDB, err := app.openInvoices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := svc.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("invoice %d: %w", id, err)
			}
			fmt.Fprintf(app.out, "deleted %d\n", id)
			return nil
		},
	}
}

func newDBImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xml>...",
		Short: "Store invoice documents directly, without the query log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := app.openInvoices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				row, err := svc.Import(cmd.Context(), string(data))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(app.out, "imported %s as %d\n", row.Codigo, row.ID)
			}
			return nil
		},
	}
}
