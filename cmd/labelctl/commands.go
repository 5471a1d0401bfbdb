package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"labeler/internal/backend"
	"labeler/internal/domain"
	"labeler/internal/export"
	"labeler/internal/service"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents that have both a posting and a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.labeling()
			if err != nil {
				return err
			}
			docs, err := svc.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range docs {
				fmt.Fprintln(out, d.ID)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document> <field>",
		Short: "Print a field and the posting with its quotes marked [[like this]]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.labeling()
			if err != nil {
				return err
			}
			view, err := svc.View(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range view.Fields {
				if f.Name != view.ActiveField {
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", f.Label, f.Value.Value)
			}
			for i, s := range view.Spans {
				fmt.Fprintf(out, "  quote %d: %s\n", i+1, s)
			}
			fmt.Fprintln(out, strings.Repeat("-", 60))
			fmt.Fprintln(out, view.Highlighted)
			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	var (
		value string
		spans []string
	)
	cmd := &cobra.Command{
		Use:   "set <document> <field>",
		Short: "Save the value and quotes of one field",
		Long: `Save the value and quotes of one field.

Each --span adds one quote, in order. Omitting --span saves an empty quote set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.labeling()
			if err != nil {
				return err
			}
			set := domain.SpanSet{}
			for _, s := range spans {
				if strings.TrimSpace(s) != "" {
					set = append(set, s)
				}
			}
			result, err := svc.Save(cmd.Context(), &service.SaveFieldInput{
				DocumentID: args[0],
				Field:      args[1],
				Value:      domain.FieldValue{Value: value, Spans: set},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "saved %s/%s (%d quotes)\n", result.DocumentID, result.Saved, len(set))
			if result.State.Complete {
				fmt.Fprintln(out, "labeling complete")
			} else {
				fmt.Fprintf(out, "next field: %s\n", result.State.Active)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "Normalized value of the field")
	cmd.Flags().StringArrayVar(&spans, "span", nil, "Verbatim quote from the posting (repeatable)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all records as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !export.ValidFormat(format) {
				return fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
			}
			store, err := a.backend()
			if err != nil {
				return err
			}

			svc := service.NewExportService(store.Records, a.logger)
			if out == "" {
				if format == export.FormatXLSX {
					return fmt.Errorf("--out is required for xlsx")
				}
				return svc.Export(cmd.Context(), format, cmd.OutOrStdout())
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := svc.Export(cmd.Context(), format, f); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				_ = os.Remove(out)
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "Export format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout, csv only)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy postings and records from a data directory into the postgres or s3 backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.backend()
			if err != nil {
				return err
			}
			dst, err := store.Importer()
			if err != nil {
				return err
			}
			n, err := backend.ImportDir(cmd.Context(), afero.NewOsFs(), from, dst, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents into %s\n", n, store.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", ".", "Data directory holding postings/ and extracted_labels/")
	return cmd
}
