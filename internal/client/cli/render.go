package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func macroColumns(m models.Macro) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s",
		formatNumber(m.Calories), formatNumber(m.Fats), formatNumber(m.Proteins), formatNumber(m.Carbohydrates))
}

func printIngredients(w io.Writer, list []models.Ingredient) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No ingredients")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tKCAL\tFATS\tPROTEINS\tCARBS")
	for _, in := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", in.Name, in.DisplayName, macroColumns(in.Macro))
	}
	tw.Flush()
}

func printIngredient(w io.Writer, in models.Ingredient) {
	fmt.Fprintf(w, "%s (%s)\n", in.DisplayName, in.Name)
	printMacro(w, "per 100 g", in.Macro)
	if in.ImageURL != "" {
		fmt.Fprintf(w, "Image: %s\n", in.ImageURL)
	}
}

func printMacro(w io.Writer, title string, m models.Macro) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Macro %s:\n", title)
	fmt.Fprintf(tw, "  Calories\t%s kcal\n", formatNumber(m.Calories))
	fmt.Fprintf(tw, "  Fats\t%s g\n", formatNumber(m.Fats))
	fmt.Fprintf(tw, "  Proteins\t%s g\n", formatNumber(m.Proteins))
	fmt.Fprintf(tw, "  Carbohydrates\t%s g\n", formatNumber(m.Carbohydrates))
	tw.Flush()
}

func printRecipes(w io.Writer, list []models.Recipe) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No recipes")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tKCAL\tFATS\tPROTEINS\tCARBS")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.DisplayName, macroColumns(r.Macro))
	}
	tw.Flush()
}

func printRecipe(w io.Writer, r models.Recipe) {
	fmt.Fprintf(w, "%s (%s)\n", r.DisplayName, r.Name)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	printMacro(w, "total", r.Macro)

	tw := newTable(w)
	fmt.Fprintln(tw, "GRAMS\tINGREDIENT\tDISPLAY NAME")
	for _, v := range r.IngredientValues {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", formatNumber(v.Amount), v.Ingredient.Name, v.Ingredient.DisplayName)
	}
	tw.Flush()

	if r.ImageURL != "" {
		fmt.Fprintf(w, "Image: %s\n", r.ImageURL)
	}
}
