package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AuthUser is the signed-in caller as carried by the session.
type AuthUser struct {
	ID   int64
	Name string
	Role string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether user may manage bookings and the pricing catalog.
func IsAdmin(user *AuthUser) bool {
	return user != nil && user.Role == RoleAdmin
}

// RequireUser fails unless a user is signed in.
func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireRole fails unless the signed-in user holds role. Admins pass every
// role check.
func RequireRole(ctx context.Context, role string) error {
	user, err := RequireUser(ctx)
	if err != nil {
		return err
	}
	if user.Role == role || IsAdmin(user) {
		return nil
	}
	return ErrForbidden
}
