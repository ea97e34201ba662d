package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/render"
)

func newValidateCmd(c *cli) *cobra.Command {
	var (
		verbose bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report accepted and rejected feed rows",
		Long:  `validate loads the feed without starting the dashboard and counts accepted rows and rejected rows by reason. With --strict it fails when any row is rejected.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, src, err := c.ingest(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Validation(src.Describe(), res.RowsRead, len(res.Snapshot.Records), res.Rejected, styles(cmd)))
			if verbose {
				for _, r := range res.Rejections {
					fmt.Fprintf(out, "  row %d (%s): %v\n", r.Row, r.ID, r.Err)
				}
			}

			if strict && res.RejectedTotal() > 0 {
				return fmt.Errorf("%d of %d rows rejected", res.RejectedTotal(), res.RowsRead)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every rejected row")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any row is rejected")
	return cmd
}
