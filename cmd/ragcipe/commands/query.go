package commands

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/ragcipe/backend/internal/service"
)

const commandTimeout = 5 * time.Minute

func newQueryCmd() *cobra.Command {
	var ingredients []string

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Answer a query with the best matching recipe",
		Example: `  ragcipe query "low sodium soup"
  ragcipe query "quick dinner" --ingredient tofu --ingredient broccoli`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			svc, cleanup, err := serviceFactory(ctx)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			defer cleanup()

			rec, err := svc.AnswerQuery(ctx, service.QueryRequest{
				Query:       strings.Join(args, " "),
				Ingredients: ingredients,
			})
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			printRecommendation(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&ingredients, "ingredient", "i", nil, "ingredient every recipe must contain (repeatable)")
	return cmd
}

func newChoicesCmd() *cobra.Command {
	var ingredients []string

	cmd := &cobra.Command{
		Use:   "choices <text>",
		Short: "List the top ranked recipes for a query and store them for selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			svc, cleanup, err := serviceFactory(ctx)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			defer cleanup()

			session, err := svc.GetRecipeChoices(ctx, service.QueryRequest{
				Query:       strings.Join(args, " "),
				Ingredients: ingredients,
			})
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), session)
			}
			printChoices(cmd.OutOrStdout(), session)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&ingredients, "ingredient", "i", nil, "ingredient every recipe must contain (repeatable)")
	return cmd
}

func newSelectCmd() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "select <session-id>",
		Short: "Answer a stored choices session with the recipe at --index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			svc, cleanup, err := serviceFactory(ctx)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			defer cleanup()

			rec, err := svc.ProcessSelectedRecipe(ctx, args[0], index)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			printRecommendation(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "zero based position of the chosen recipe")
	return cmd
}
