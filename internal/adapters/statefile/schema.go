package statefile

import (
	"fmt"

	"github.com/bnema/foodfast-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Session sessionSchema `toml:"session"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	AccessToken  string     `toml:"access_token"`
	RefreshToken string     `toml:"refresh_token"`
	User         userSchema `toml:"user"`
}

type userSchema struct {
	ID        int64  `toml:"id"`
	Email     string `toml:"email"`
	FirstName string `toml:"first_name,omitempty"`
	LastName  string `toml:"last_name,omitempty"`
	Role      string `toml:"role"`
}

func toSchema(sess domain.Session) sessionSchema {
	return sessionSchema{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User: userSchema{
			ID:        sess.User.ID,
			Email:     sess.User.Email,
			FirstName: sess.User.FirstName,
			LastName:  sess.User.LastName,
			Role:      string(sess.User.Role),
		},
	}
}

func (s sessionSchema) toDomain() domain.Session {
	return domain.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User: domain.User{
			ID:        s.User.ID,
			Email:     s.User.Email,
			FirstName: s.User.FirstName,
			LastName:  s.User.LastName,
			Role:      domain.Role(s.User.Role),
		},
	}
}
