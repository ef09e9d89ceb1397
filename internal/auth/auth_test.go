package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
)

type memUsers struct {
	nextID int64
	byName map[string]core.User
	byID   map[int64]core.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byName: map[string]core.User{}, byID: map[int64]core.User{}}
}

func (m *memUsers) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	if _, ok := m.byName[username]; ok {
		return core.User{}, core.ErrUserExists
	}
	u := core.User{ID: m.nextID, Username: username, PasswordHash: passwordHash}
	m.nextID++
	m.byName[username] = u
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) UserByName(ctx context.Context, username string) (core.User, error) {
	u, ok := m.byName[username]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) UserByID(ctx context.Context, id int64) (core.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newMemUsers()
	svc := NewService(users, "test-secret")

	u, err := svc.Register(context.Background(), "  alice  ", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username not trimmed: %q", u.Username)
	}
	stored := users.byName["alice"]
	if stored.PasswordHash == "hunter2" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegisterRejectsBlanks(t *testing.T) {
	svc := NewService(newMemUsers(), "test-secret")
	for _, tc := range []struct{ username, password string }{
		{"", "pw"},
		{"   ", "pw"},
		{"alice", ""},
	} {
		if _, err := svc.Register(context.Background(), tc.username, tc.password); !errors.Is(err, core.ErrBadCredentials) {
			t.Errorf("Register(%q, %q) = %v, want ErrBadCredentials", tc.username, tc.password, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := NewService(newMemUsers(), "test-secret")
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "pw"); !errors.Is(err, core.ErrUserExists) {
		t.Errorf("duplicate register = %v, want ErrUserExists", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	users := newMemUsers()
	svc := NewService(users, "test-secret")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := svc.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "alice" || token == "" {
		t.Fatalf("login result = %+v, token %q", user, token)
	}

	resolved, err := svc.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("token resolved to user %d, want %d", resolved.ID, user.ID)
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc := NewService(newMemUsers(), "test-secret")
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPW := svc.Login(ctx, "alice", "nope")
	_, _, unknown := svc.Login(ctx, "bob", "nope")
	if !errors.Is(wrongPW, core.ErrBadCredentials) || !errors.Is(unknown, core.ErrBadCredentials) {
		t.Errorf("wrong password = %v, unknown user = %v; both must be ErrBadCredentials", wrongPW, unknown)
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	users := newMemUsers()
	svc := NewService(users, "test-secret")
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := svc.IssueToken(u.ID)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.VerifyToken(ctx, "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("tampered signature", func(t *testing.T) {
		parts := strings.Split(token, ".")
		tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
		if _, err := svc.VerifyToken(ctx, tampered); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService(users, "another-secret")
		if _, err := other.VerifyToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		orphan, err := svc.IssueToken(999)
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		if _, err := svc.VerifyToken(ctx, orphan); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v", err)
		}
	})
}
