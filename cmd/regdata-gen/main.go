// Command regdata-gen regenerates pkg/regdata's embedded registry data
// file from the declarative dataset in dataset.go. It exists so the
// flat hex sections pkg/regdata.Load parses at runtime have a single
// documented, runnable source instead of being hand-edited.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/StoreStation/blockwright/pkg/regdata"
)

func main() {
	var out string

	cmd := &cobra.Command{
		Use:   "regdata-gen",
		Short: "Regenerate the embedded registry data file from dataset.go",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return errors.Wrapf(err, "regdata-gen: create %q", out)
			}
			defer f.Close()

			if err := regdata.Encode(f, generate()); err != nil {
				return errors.Wrap(err, "regdata-gen: encode")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "pkg/regdata/data/blocks.txt", "output path for the generated data file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
