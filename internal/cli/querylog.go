package cli

import (
	"fmt"

	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/querylog"
	"github.com/dmitrijs2005/facturas/internal/tui"
	"github.com/spf13/cobra"
)

func newInsertCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <file.xml>...",
		Short: "Record an INSERT for each invoice document in the query log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ql, err := app.queryLog(ctx)
			if err != nil {
				return err
			}

			for _, path := range args {
				_, data, err := readDocument(path)
				if err != nil {
					return err
				}
				rec, err := ql.GenerateInsertFromXML(ctx, string(data))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(app.out, "queued %s  total %s\n",
					rec.Parameters[querylog.ParamCode].Str(),
					invoice.FormatMoney(rec.Parameters[querylog.ParamTotal].Decimal()))
			}
			return nil
		},
	}
}

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect and apply the query log",
	}
	cmd.AddCommand(newLogListCmd(app))
	cmd.AddCommand(newLogApplyCmd(app))
	return cmd
}

func newLogListCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ql, err := app.queryLog(cmd.Context())
			if err != nil {
				return err
			}
			records := ql.LoadAll(cmd.Context())

			if raw {
				for _, rec := range records {
					fmt.Fprintln(app.out, rec.SQL)
					for k, v := range rec.Parameters {
						if k == querylog.ParamXML {
							continue
						}
						fmt.Fprintf(app.out, "  @%s = %s\n", k, v)
					}
				}
				return nil
			}

			fmt.Fprint(app.out, tui.RenderQueryLog(records))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print statements and parameters")
	return cmd
}

func newLogApplyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Execute the recorded statements against the database",
		Long:  "Insert every logged invoice in one transaction. Codes already stored are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ql, err := app.queryLog(ctx)
			if err != nil {
				return err
			}

			svc, closeDB, err := app.openInvoices(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			res, err := svc.ApplyQueryLog(ctx, ql.LoadAll(ctx))
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "inserted %d, skipped %d\n", res.Inserted, res.Skipped)
			return nil
		},
	}
}
