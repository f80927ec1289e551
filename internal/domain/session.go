package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// PasswordMinLen is enforced before a registration ever reaches the backend.
const PasswordMinLen = 6

type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      Role
}

// DisplayName is the short handle the chat channel identifies users by:
// the local part of the email, falling back to the first name.
func (u User) DisplayName() string {
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	if u.Email != "" {
		return u.Email
	}
	return u.FirstName
}

// Session is the credential pair plus authenticated identity for one page
// session. It is plain data; concurrent access goes through session.State.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         User
}

func (s Session) Authenticated() bool {
	return s.AccessToken != "" || s.RefreshToken != ""
}
