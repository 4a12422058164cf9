package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/macrobook/internal/client/api"
	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	fail     error

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.fail
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Back() string     { f.calls = append(f.calls, "back"); return "/" }
func (f *fakeExec) Whoami()          { f.calls = append(f.calls, "whoami") }

func (f *fakeExec) Signup(context.Context) error       { return f.record("signup") }
func (f *fakeExec) ConfirmEmail(context.Context) error { return f.record("confirm") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func (f *fakeExec) Ingredients(context.Context) error { return f.record("ingredients") }
func (f *fakeExec) Ingredient(_ context.Context, name string) error {
	return f.record("ingredient " + name)
}
func (f *fakeExec) AddIngredient(context.Context) error { return f.record("addingredient") }
func (f *fakeExec) EditIngredient(_ context.Context, name string) error {
	return f.record("editingredient " + name)
}
func (f *fakeExec) DeleteIngredient(_ context.Context, name string) error {
	return f.record("delingredient " + name)
}
func (f *fakeExec) GlobalIngredients(_ context.Context, term string) error {
	return f.record("global-ingredients " + term)
}
func (f *fakeExec) Search(context.Context) error { return f.record("search") }

func (f *fakeExec) Recipes(context.Context) error { return f.record("recipes") }
func (f *fakeExec) Recipe(_ context.Context, name string) error {
	return f.record("recipe " + name)
}
func (f *fakeExec) AddRecipe(context.Context) error { return f.record("addrecipe") }
func (f *fakeExec) EditRecipe(_ context.Context, name string) error {
	return f.record("editrecipe " + name)
}
func (f *fakeExec) DeleteRecipe(_ context.Context, name string) error {
	return f.record("delrecipe " + name)
}
func (f *fakeExec) GlobalRecipes(context.Context) error { return f.record("global-recipes") }
func (f *fakeExec) GlobalRecipe(_ context.Context, name string) error {
	return f.record("global-recipe " + name)
}
func (f *fakeExec) UploadImage(_ context.Context, kind, name, ref string) error {
	return f.record(strings.Join([]string{"image", kind, name, ref}, " "))
}

// capturePrintln collects everything runREPL prints.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func run(exec execIface, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	run(exec,
		"login",
		"ingredients",
		"ingredient oats",
		"addingredient",
		"editingredient oats",
		"delingredient oats",
		"global-ingredients rolled oats",
		"search",
		"recipes",
		"recipe porridge",
		"addrecipe",
		"editrecipe porridge",
		"delrecipe porridge",
		"global-recipes",
		"global-recipe pancakes",
		"image recipe porridge ./p.png",
		"back",
		"whoami",
		"logout",
		"exit",
		"recipes",
	)

	assert.Equal(t, []string{
		"login",
		"ingredients",
		"ingredient oats",
		"addingredient",
		"editingredient oats",
		"delingredient oats",
		"global-ingredients rolled oats",
		"search",
		"recipes",
		"recipe porridge",
		"addrecipe",
		"editrecipe porridge",
		"delrecipe porridge",
		"global-recipes",
		"global-recipe pancakes",
		"image recipe porridge ./p.png",
		"back",
		"whoami",
		"logout",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	run(exec, "recipe", "image ingredient oats", "foobar", "", "quit")

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Usage: recipe <name>")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := capturePrintln(t)

	run(&fakeExec{}, "help")
	assert.Contains(t, strings.Join(*out, "\n"), "Welcome to macrobook")

	*out = nil
	run(&fakeExec{loggedIn: true}, "help")
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "addrecipe")
	assert.NotContains(t, joined, "Welcome")
}

func TestRunREPL_PrintsErrors(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{fail: &api.ResponseError{Status: 409, Message: "Ingredient oats already exists"}}
	run(exec, "addingredient")

	assert.Contains(t, *out, "Ingredient oats already exists")
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	out := capturePrintln(t)

	run(&fakeExec{}, "exit")

	assert.Equal(t, "mb status > ", (*out)[0])
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", fmt.Errorf("%w: name is required", models.ErrValidation), "validation error: name is required"},
		{"server message", fmt.Errorf("login: %w", &api.ResponseError{Status: 400, Message: "Incorrect username or password."}), "Incorrect username or password."},
		{"no body", &api.ResponseError{Status: 401}, "Something went wrong"},
		{"transport", &api.TransportError{Err: errors.New("connection refused")}, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorText(tt.err))
		})
	}
}
