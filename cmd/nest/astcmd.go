package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nestlang/nest/pkgs/analyzer"
	"github.com/nestlang/nest/pkgs/docfmt"
)

func newASTCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Export the command tree of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}

			roots := analyzer.Tree(string(data), analyzer.WithPath(file))
			doc := docfmt.Encode(roots, string(data))

			var encoded []byte
			switch format {
			case "json":
				encoded, err = doc.JSON()
				encoded = append(encoded, '\n')
			case "cbor":
				encoded, err = doc.CBOR()
			default:
				return fmt.Errorf("unsupported format %q (expected json or cbor)", format)
			}
			if err != nil {
				return fmt.Errorf("encoding tree: %w", err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(encoded)
				return err
			}
			if err := os.WriteFile(output, encoded, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format: json or cbor")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}
