package ports

import (
	"context"

	"github.com/bnema/foodfast-cli/internal/domain"
)

// SessionStore persists the credential pair and identity between runs, the
// way the web client kept them in cookies and session storage.
type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
