package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/macrobook/internal/client/api"
	"github.com/dmitrijs2005/macrobook/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Back() string
	Whoami()

	Signup(ctx context.Context) error
	ConfirmEmail(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Ingredients(ctx context.Context) error
	Ingredient(ctx context.Context, name string) error
	AddIngredient(ctx context.Context) error
	EditIngredient(ctx context.Context, name string) error
	DeleteIngredient(ctx context.Context, name string) error
	GlobalIngredients(ctx context.Context, term string) error
	Search(ctx context.Context) error

	Recipes(ctx context.Context) error
	Recipe(ctx context.Context, name string) error
	AddRecipe(ctx context.Context) error
	EditRecipe(ctx context.Context, name string) error
	DeleteRecipe(ctx context.Context, name string) error
	GlobalRecipes(ctx context.Context) error
	GlobalRecipe(ctx context.Context, name string) error

	UploadImage(ctx context.Context, kind, name, ref string) error
}

const welcomeText = `Welcome to macrobook, your culinary companion:
  - your recipes are stored, organized and celebrated
  - nutrition values are calculated for you
  - explore the recipe database with 'global-recipes'

Available commands: signup, confirm, login, global-recipes, global-recipe <name>, global-ingredients [term], back, exit`

const commandsText = `Available commands:
  recipes | recipe <name> | addrecipe | editrecipe <name> | delrecipe <name>
  ingredients | ingredient <name> | addingredient | editingredient <name> | delingredient <name>
  search | global-ingredients [term] | global-recipes | global-recipe <name>
  image <ingredient|recipe> <name> <path|url|s3://bucket/key>
  whoami | back | logout | exit`

// errorText is what a view shows for err: the validation message for local
// input errors, otherwise the server's message or a generic fallback.
func errorText(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return err.Error()
	case errors.Is(err, io.EOF):
		return "Input closed"
	}
	return api.Message(err, "Something went wrong")
}

// runREPL starts a simple read–eval–print loop for the macrobook CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Commands taking a name expect
// it as the next token. Unknown commands and missing arguments are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are printed with errorText and the
// loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn(errorText(err))
		}
	}

	for {
		printlnFn(fmt.Sprintf("mb %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		usage := func(n int, text string) bool {
			if len(args) < n {
				printlnFn("Usage:", text)
				return false
			}
			return true
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(commandsText)
			} else {
				printlnFn(welcomeText)
			}

		case "signup":
			report(a.Signup(ctx))
		case "confirm":
			report(a.ConfirmEmail(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			a.Whoami()

		case "ingredients":
			report(a.Ingredients(ctx))
		case "ingredient":
			if usage(1, "ingredient <name>") {
				report(a.Ingredient(ctx, args[0]))
			}
		case "addingredient":
			report(a.AddIngredient(ctx))
		case "editingredient":
			if usage(1, "editingredient <name>") {
				report(a.EditIngredient(ctx, args[0]))
			}
		case "delingredient":
			if usage(1, "delingredient <name>") {
				report(a.DeleteIngredient(ctx, args[0]))
			}
		case "global-ingredients":
			report(a.GlobalIngredients(ctx, strings.Join(args, " ")))
		case "search":
			report(a.Search(ctx))

		case "recipes":
			report(a.Recipes(ctx))
		case "recipe":
			if usage(1, "recipe <name>") {
				report(a.Recipe(ctx, args[0]))
			}
		case "addrecipe":
			report(a.AddRecipe(ctx))
		case "editrecipe":
			if usage(1, "editrecipe <name>") {
				report(a.EditRecipe(ctx, args[0]))
			}
		case "delrecipe":
			if usage(1, "delrecipe <name>") {
				report(a.DeleteRecipe(ctx, args[0]))
			}
		case "global-recipes":
			report(a.GlobalRecipes(ctx))
		case "global-recipe":
			if usage(1, "global-recipe <name>") {
				report(a.GlobalRecipe(ctx, args[0]))
			}

		case "image":
			if usage(3, "image <ingredient|recipe> <name> <path|url|s3://bucket/key>") {
				report(a.UploadImage(ctx, args[0], args[1], args[2]))
			}

		case "back":
			printlnFn(a.Back())

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
