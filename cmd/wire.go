package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/foodfast-cli/internal/adapters/api"
	boardadapter "github.com/bnema/foodfast-cli/internal/adapters/render/board"
	"github.com/bnema/foodfast-cli/internal/adapters/statefile"
	"github.com/bnema/foodfast-cli/internal/adapters/stream"
	"github.com/bnema/foodfast-cli/internal/application"
	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/ports"
	"github.com/bnema/foodfast-cli/internal/session"
)

type app struct {
	state         *session.State
	store         ports.SessionStore
	api           *api.Client
	accounts      *application.AccountService
	subscriber    *stream.Subscriber
	chatURL       string
	boardRenderer func([]domain.Order, []domain.Announcement, boardadapter.RenderOptions) (string, error)
	clock         ports.Clock
}

func wireApp() (*app, error) {
	store, err := wireSessionStore()
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	state := session.NewState(domain.Session{})
	baseURL := envOrDefault("FF_API_URL", "http://localhost:8000")
	client := api.New(baseURL, http.DefaultClient, state)

	accounts := application.NewAccountService(accountGateway{api: client}, store, state)
	if _, err := accounts.Restore(context.Background()); err != nil {
		return nil, err
	}

	// Every credential change from here on lands in the session file; an
	// unauthenticated state removes it.
	state.OnChange(func(sess domain.Session) {
		if sess.Authenticated() {
			_ = store.Save(context.Background(), sess)
			return
		}
		_ = store.Clear(context.Background())
	})

	chatURL, err := deriveChatURL(baseURL)
	if err != nil {
		return nil, err
	}

	return &app{
		state:    state,
		store:    store,
		api:      client,
		accounts: accounts,
		subscriber: &stream.Subscriber{
			BaseURL:          baseURL,
			HTTPClient:       http.DefaultClient,
			Session:          state,
			MaxReconnectWait: streamRetryWait(),
		},
		chatURL:       chatURL,
		boardRenderer: boardadapter.Render,
		clock:         ports.SystemClock{},
	}, nil
}

func wireSessionStore() (ports.SessionStore, error) {
	if path := os.Getenv("FF_SESSION_FILE"); path != "" {
		return statefile.NewStoreAt(path)
	}
	return statefile.NewStore(viper.New())
}

// deriveChatURL maps the API base to the websocket chat endpoint unless
// FF_CHAT_URL overrides it.
func deriveChatURL(baseURL string) (string, error) {
	if override := os.Getenv("FF_CHAT_URL"); override != "" {
		return override, nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}
	parsed.Path = "/ws/chat"
	return parsed.String(), nil
}

// streamRetryWait reads the opt-in reconnect cap for event streams. Unset
// means a dropped stream stays dropped.
func streamRetryWait() time.Duration {
	raw := os.Getenv("FF_STREAM_RETRY_MAX")
	if raw == "" {
		return 0
	}
	wait, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return wait
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// accountGateway adapts the HTTP client to the account service's port.
type accountGateway struct {
	api *api.Client
}

func (g accountGateway) Register(ctx context.Context, cmd application.RegisterCommand) (domain.Session, error) {
	return g.api.Register(ctx, api.RegisterArgs{
		Email:     cmd.Email,
		Password:  cmd.Password,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Role:      string(cmd.Role),
	})
}

func (g accountGateway) Login(ctx context.Context, email, password string) (domain.Session, error) {
	return g.api.Login(ctx, email, password)
}

func (g accountGateway) Profile(ctx context.Context) (domain.User, error) {
	return g.api.Profile(ctx)
}

func requireAuth(app *app) error {
	if !app.state.Current().Authenticated() {
		return fmt.Errorf("%w: run `ff account login` first", domain.ErrNotAuthenticated)
	}
	return nil
}
