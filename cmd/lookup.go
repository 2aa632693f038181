package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/render"
)

func newLookupCmd(c *cli) *cobra.Command {
	var (
		q     model.Query
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up a volunteer's hours and award eligibility",
		Example: `  pvsa lookup --name "Jane Doe" --id 1234
  pvsa lookup --id 1234 --birthdate 14/03/2010`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			src, err := c.source(ctx)
			if err != nil {
				return err
			}
			svc := c.service(src)
			if err := svc.Refresh(ctx); err != nil {
				return fmt.Errorf("load volunteer log: %w", err)
			}

			res, err := svc.Lookup(ctx, q)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderer(plain).Lookup(res))
			return err
		},
	}

	cmd.Flags().StringVar(&q.Name, "name", "", "volunteer name as written in the log")
	cmd.Flags().StringVar(&q.ID, "id", "", "volunteer id")
	cmd.Flags().StringVar(&q.Birthdate, "birthdate", "", "birthdate as DD/MM/YYYY; enables the award check")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	cmd.MarkFlagsOneRequired("name", "id")
	return cmd
}

func newPeriodCmd(c *cli) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Show the application window and countdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.service(nil)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderer(plain).Period(svc.Period()))
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	return cmd
}

func renderer(plain bool) *render.Renderer {
	if plain {
		return render.New(render.PlainStyles())
	}
	return render.New(render.DefaultStyles())
}
