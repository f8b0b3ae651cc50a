package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type inspectReport struct {
	Documents    int      `json:"documents"`
	Duplicates   []string `json:"duplicates"`
	MaxAsymmetry float64  `json:"max_asymmetry"`
	Fingerprint  string   `json:"fingerprint"`
}

func newInspectCommand(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the loaded corpus and similarity matrix",
		Long: `Load the dataset and report the document count, references shadowed
by an earlier row, the largest asymmetry |a(i,j) - a(j,i)| of the matrix
and the content fingerprint used as the cache namespace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.OutOrStdout(), g, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func runInspect(out io.Writer, g *globals, asJSON bool) error {
	ds, err := g.loadDataset()
	if err != nil {
		return err
	}

	report := inspectReport{
		Documents:    ds.Len(),
		Duplicates:   ds.Duplicates(),
		MaxAsymmetry: ds.Matrix().MaxAsymmetry(),
		Fingerprint:  ds.Fingerprint(),
	}
	if report.Duplicates == nil {
		report.Duplicates = []string{}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "Documents:     %d\n", report.Documents)
	fmt.Fprintf(out, "Duplicates:    %d\n", len(report.Duplicates))
	for _, ref := range report.Duplicates {
		fmt.Fprintf(out, "  - %s\n", ref)
	}
	fmt.Fprintf(out, "Max asymmetry: %g\n", report.MaxAsymmetry)
	fmt.Fprintf(out, "Fingerprint:   %s\n", report.Fingerprint)
	return nil
}
