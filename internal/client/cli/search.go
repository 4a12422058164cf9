package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/macrobook/internal/client/services"
)

// Search runs the ingredient picker. Every line typed replaces the search
// text; results are printed as soon as the input has been quiet for the
// debounce interval. An empty line or the end of input closes the picker
// and drops a search that has not started yet.
func (a *App) Search(ctx context.Context) error {
	box := services.NewSearchBox(ctx, a.sess, a.config.SearchDebounce)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range box.Results() {
			a.printSearchResult(r)
		}
	}()

	fmt.Fprintln(a.out, "Type to search ingredients (empty line to finish)")
	for {
		line, err := a.reader.ReadString('\n')
		text := strings.TrimSpace(line)
		if text == "" {
			break
		}
		box.Input(text)
		if err != nil {
			break
		}
	}

	box.Close()
	<-done
	return nil
}

func (a *App) printSearchResult(r services.SearchResult) {
	switch {
	case r.IsError():
		fmt.Fprintf(a.out, "Search %q failed: %s\n", r.Term, errorText(r.Err))
	case r.IsSuccess():
		fmt.Fprintf(a.out, "Results for %q:\n", r.Term)
		printIngredients(a.out, r.Data)
	}
}
