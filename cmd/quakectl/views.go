package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/render"
)

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the statistics panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := s.Summary()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Summary(sum, styles(cmd)))
			return nil
		},
	}
}

func newTableCmd(c *cli) *cobra.Command {
	var (
		search string
		sortBy string
		asc    bool
		page   int
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show one page of the earthquake table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}

			dir := string(domain.Descending)
			if asc {
				dir = string(domain.Ascending)
			}
			u := dashboard.TableUpdate{
				Search:        &search,
				SortDirection: &dir,
				Page:          &page,
			}
			if sortBy != "" {
				u.SortField = &sortBy
			}

			view, err := s.UpdateTable(u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Table(view, styles(cmd)))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive location filter")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort field: magnitude, location, depth, time, ... (default magnitude)")
	cmd.Flags().BoolVar(&asc, "asc", false, "sort ascending (default descending)")
	cmd.Flags().IntVar(&page, "page", 1, "page number, clamped to the available pages")
	return cmd
}

func newChartCmd(c *cli) *cobra.Command {
	var (
		xAxis string
		yAxis string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "List the scatter plot points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			view, err := s.UpdateChart(dashboard.ChartUpdate{XAxis: &xAxis, YAxis: &yAxis})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Chart(view, limit, styles(cmd)))
			return nil
		},
	}

	def := domain.DefaultChartParams()
	cmd.Flags().StringVar(&xAxis, "x", string(def.XAxis), "x axis: magnitude, depth, latitude, longitude, gap, rms")
	cmd.Flags().StringVar(&yAxis, "y", string(def.YAxis), "y axis")
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to print, -1 for every plotted point")
	return cmd
}
