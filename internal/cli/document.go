package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/pdf"
	"github.com/dmitrijs2005/facturas/internal/tui"
	"github.com/spf13/cobra"
)

func newCodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "code",
		Short: "Print a freshly generated invoice code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.out, invoice.GenerateCode(app.config.CodePrefix, now))
			return nil
		},
	}
}

func newEmitCmd(app *App) *cobra.Command {
	var (
		header      invoice.Header
		date        string
		notes       string
		items       []string
		interactive bool
		queue       bool
	)

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Compose an invoice and write it as <code>.xml",
		Long: "Compose an invoice from flags, or interactively when stdin is a terminal " +
			"and no --item is given, and write it to the output directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			parsed := make([]invoice.LineItem, 0, len(items))
			for _, s := range items {
				it, err := ParseItem(s)
				if err != nil {
					return err
				}
				parsed = append(parsed, it)
			}

			if interactive || (len(parsed) == 0 && stdinIsTerminal()) {
				if err := promptHeader(app, &header, &date, &notes); err != nil {
					return err
				}
				more, err := GetItems(app.reader, app.out)
				if err != nil {
					return err
				}
				parsed = append(parsed, more...)
			}

			if date == "" {
				header.Date = invoice.ParseDate(now().Format(invoice.DateLayout))
			} else {
				header.Date = invoice.ParseDate(date)
				if header.Date.IsZero() {
					return fmt.Errorf("bad --date %q, want yyyy-mm-dd", date)
				}
			}

			inv := invoice.Compose(app.config.CodePrefix, now, header, parsed, notes)

			path, data, err := writeDocument(app.config.OutputDir, inv)
			if err != nil {
				return err
			}
			app.logger.Info(ctx, "invoice written", "path", path, "codigo", inv.Code)
			fmt.Fprintf(app.out, "%s  total %s\n", path, invoice.FormatMoney(inv.Footer.Total))

			if queue {
				ql, err := app.queryLog(ctx)
				if err != nil {
					return err
				}
				if _, err := ql.GenerateInsertFromXML(ctx, string(data)); err != nil {
					return err
				}
				fmt.Fprintf(app.out, "queued in %s\n", ql.Path())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&header.Supplier, "supplier", "", "supplier name")
	f.StringVar(&header.TaxID, "nif", "", "supplier tax id")
	f.StringVar(&header.Address, "address", "", "supplier address")
	f.StringVar(&header.Phone, "phone", "", "supplier phone")
	f.StringVar(&date, "date", "", "invoice date yyyy-mm-dd (default today)")
	f.StringVar(&header.Number, "number", "", "invoice number (default the code)")
	f.StringVar(&notes, "notes", "", "footer notes")
	f.StringArrayVar(&items, "item", nil, "line item code;description;quantity;price (repeatable)")
	f.BoolVarP(&interactive, "interactive", "i", false, "prompt for fields")
	f.BoolVar(&queue, "queue", false, "also record the INSERT in the query log")

	return cmd
}

func promptHeader(app *App, h *invoice.Header, date, notes *string) error {
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Supplier", &h.Supplier},
		{"NIF", &h.TaxID},
		{"Address", &h.Address},
		{"Phone", &h.Phone},
		{"Date (yyyy-mm-dd)", date},
		{"Number", &h.Number},
		{"Notes", notes},
	}
	for _, f := range fields {
		v, err := GetDefaultText(app.reader, f.prompt, *f.dst, app.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file.xml>",
		Short: "Show an invoice document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := readDocument(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(app.out, tui.RenderInvoice(inv))
			return nil
		},
	}
}

func newSampleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sample [dir]",
		Short: "Write two sample received invoices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.config.OutputDir
			if len(args) == 1 {
				dir = args[0]
			}
			for _, inv := range invoice.Samples(now) {
				path, _, err := writeDocument(dir, inv)
				if err != nil {
					return err
				}
				fmt.Fprintln(app.out, path)
			}
			return nil
		},
	}
}

func newPDFCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pdf <file.xml>",
		Short: "Print an invoice document to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, _, err := readDocument(args[0])
			if err != nil {
				return err
			}

			if out == "" {
				name := inv.Code
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				}
				out = filepath.Join(app.config.OutputDir, name+".pdf")
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := pdf.Render(f, inv); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			app.logger.Info(cmd.Context(), "pdf written", "path", out)
			fmt.Fprintln(app.out, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "PDF file (default <output-dir>/<code>.pdf)")
	return cmd
}

func newSendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "send <file.xml>",
		Short: "Upload an invoice document to object storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, data, err := readDocument(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			key, err := app.archive().Upload(ctx, inv.Code, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "s3://%s/%s\n", app.config.S3Bucket, key)
			return nil
		},
	}
}
