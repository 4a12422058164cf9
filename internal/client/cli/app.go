package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/macrobook/internal/client/api"
	"github.com/dmitrijs2005/macrobook/internal/client/config"
	"github.com/dmitrijs2005/macrobook/internal/client/images"
	"github.com/dmitrijs2005/macrobook/internal/client/query"
	"github.com/dmitrijs2005/macrobook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
	"github.com/dmitrijs2005/macrobook/internal/client/services"
	"github.com/dmitrijs2005/macrobook/internal/client/session"
	"github.com/dmitrijs2005/macrobook/internal/client/storage"
	"github.com/dmitrijs2005/macrobook/internal/client/tokenstore"
	"github.com/dmitrijs2005/macrobook/internal/filex"
	"github.com/dmitrijs2005/macrobook/internal/logging"
)

type App struct {
	config  *config.Config
	sess    *session.Session
	history *routes.History

	authService       services.AuthService
	ingredientService services.IngredientService
	recipeService     services.RecipeService
	imageService      services.ImageService

	reader *bufio.Reader
	out    *syncWriter
	close  func() error
}

// NewApp opens the state database, restores the persisted token and wires
// the services against the configured API.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.New(os.Stderr, c.LogLevel)

	if err := filex.EnsureParentDir(c.StateDB); err != nil {
		return nil, fmt.Errorf("state db: %w", err)
	}
	db, err := storage.Open(ctx, c.StateDB)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StateDB, "error", err)
		return nil, err
	}

	tokens, err := tokenstore.Open(ctx, metadata.NewSQLiteRepository(db))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	client, err := api.New(c.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		api.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, tokens, client, logger, os.Stdin, os.Stdout)
	a.close = db.Close
	return a, nil
}

func newApp(c *config.Config, tokens *tokenstore.Store, client *api.Client, logger logging.Logger, in io.Reader, out io.Writer) *App {
	history := routes.NewHistory()
	history.OnChange = func(path string) {
		logger.Debug(context.Background(), "navigate", "path", path)
	}

	cache := query.NewCache(query.WithStaleTime(c.StaleTime), query.WithLogger(logger))
	sess := session.New(tokens, client, cache, history, logger)

	loader := &images.Loader{
		S3: images.S3Config{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		},
		HTTP: &http.Client{Timeout: c.RequestTimeout},
	}

	return &App{
		config:            c,
		sess:              sess,
		history:           history,
		authService:       services.NewAuthService(sess),
		ingredientService: services.NewIngredientService(sess),
		recipeService:     services.NewRecipeService(sess),
		imageService:      services.NewImageService(sess, loader),
		reader:            bufio.NewReader(in),
		out:               &syncWriter{w: out},
	}
}

// Run starts the REPL on the app's input and blocks until the user exits
// or the input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	fmt.Fprintln(a.out, "Welcome to macrobook (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(&lineReader{r: a.reader}))
}

func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

func (a *App) isLoggedIn() bool {
	return a.sess.Tokens.IsLoggedIn()
}

// getStatus is the prompt text: the current location, followed by the
// signed-in e-mail when the token carries one.
func (a *App) getStatus() string {
	s := a.history.Current()
	if !a.isLoggedIn() {
		return s
	}
	id, err := a.authService.Identity()
	if err != nil || id.Email == "" {
		return s
	}
	return fmt.Sprintf("%s (%s)", s, id.Email)
}

// Back returns to the previous view.
func (a *App) Back() string {
	return a.history.Back()
}

// syncWriter serializes writes coming from the REPL and from background
// search results.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// lineReader hands out input one line per Read, so a bufio.Scanner on top
// of it never buffers lines that belong to command prompts.
type lineReader struct {
	r    *bufio.Reader
	rest []byte
}

func (l *lineReader) Read(p []byte) (int, error) {
	if len(l.rest) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.rest = line
	}
	n := copy(p, l.rest)
	l.rest = l.rest[n:]
	return n, nil
}
