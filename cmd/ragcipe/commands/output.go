package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/pageza/ragcipe/backend/internal/service"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	muted   = color.New(color.FgHiBlack)
	warn    = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecommendation(w io.Writer, rec *service.Recommendation) {
	heading.Fprintf(w, "%s\n", rec.SelectedRecipe.Name)
	if rec.SelectedRecipe.URL != "" {
		muted.Fprintf(w, "%s\n", rec.SelectedRecipe.URL)
	}
	if len(rec.NutritionFilters) > 0 {
		filters := make([]string, 0, len(rec.NutritionFilters))
		for _, f := range rec.NutritionFilters {
			filters = append(filters, f.String())
		}
		muted.Fprintf(w, "filters: %s\n", strings.Join(filters, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rec.Answer)

	if len(rec.IngredientMatches) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Products")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, m := range rec.IngredientMatches {
			if len(m.Products) == 0 {
				fmt.Fprintf(tw, "%s\t-\n", m.Ingredient)
				continue
			}
			for i, p := range m.Products {
				name := m.Ingredient
				if i > 0 {
					name = ""
				}
				fmt.Fprintf(tw, "%s\t%s\n", name, service.ProductLine(p))
			}
		}
		_ = tw.Flush()
	}

	if len(rec.Alternatives) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Also consider")
		for _, alt := range rec.Alternatives {
			fmt.Fprintf(w, "  - %s\n", alt.Name)
		}
	}
}

func printChoices(w io.Writer, session *service.ChoiceSession) {
	heading.Fprintf(w, "Top recipes for %q\n", session.Query)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tRECIPE\tSCORE\tBOOST")
	for i, c := range session.Choices {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%d\n", i, c.Name, c.Score, c.Boost)
	}
	_ = tw.Flush()

	if session.ID == "" {
		warn.Fprintln(w, "choices were not stored (redis unavailable), select is disabled")
		return
	}
	muted.Fprintf(w, "select one with: ragcipe select %s --index N\n", session.ID)
}

// explain prints a hint for pipeline outcomes the user can act on. cobra prints err itself.
func explain(w io.Writer, err error) error {
	switch {
	case errors.Is(err, service.ErrNoRecipesFound):
		warn.Fprintln(w, "No recipes matched. Try removing an ingredient or nutrition constraint.")
	case errors.Is(err, service.ErrSessionNotFound):
		warn.Fprintln(w, "That choices session has expired, run choices again.")
	default:
		if dep, ok := service.FailedDependency(err); ok {
			failure.Fprintf(w, "The %s service failed, retry later.\n", dep)
		}
	}
	return err
}
