package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/authz"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
)

// clerkInitialized indicates whether the Clerk SDK has been initialized
var clerkInitialized bool

// InitClerk initializes Clerk SDK with the secret key
func InitClerk(secretKey string) {
	if secretKey == "" {
		log.Warn().Msg("Clerk secret key not configured")
		return
	}
	clerk.SetKey(secretKey)
	clerkInitialized = true
	log.Info().Msg("Clerk SDK initialized")
}

// HandleClerkCallback handles the redirect after Clerk authentication. The
// Clerk user is mirrored into the local users table and a local session is
// started for it.
func HandleClerkCallback(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !clerkInitialized {
		logger.Error().Msg("Clerk not configured")
		http.Error(w, "Authentication service not available", http.StatusServiceUnavailable)
		return
	}

	claims, ok := clerk.SessionClaimsFromContext(r.Context())
	if !ok {
		logger.Warn().Msg("No Clerk session claims in context")
		http.Error(w, "Sign in required", http.StatusUnauthorized)
		return
	}

	clerkUser, err := user.Get(r.Context(), claims.Subject)
	if err != nil {
		logger.Error().Err(err).Str("clerk_user_id", claims.Subject).Msg("Failed to get Clerk user")
		http.Error(w, "Failed to verify user", http.StatusInternalServerError)
		return
	}

	localUser, err := syncLocalUserFromClerk(r.Context(), clerkUser)
	if err != nil {
		logger.Error().Err(err).Str("clerk_user_id", claims.Subject).Msg("Failed to sync local user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := CreateSession(w, localUser.ID); err != nil {
		logger.Error().Err(err).Int64("user_id", localUser.ID).Msg("Failed to create session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	authUser := &authz.AuthUser{ID: localUser.ID, Name: localUser.Name, Role: normalizeRole(localUser.Role)}
	if err := SetAuthCookie(w, r, authUser); err != nil && !errors.Is(err, errAuthConfigMissing) {
		logger.Error().Err(err).Int64("user_id", localUser.ID).Msg("Failed to set auth cookie")
	}

	logger.Info().Int64("user_id", localUser.ID).Str("role", localUser.Role).Msg("User signed in")
	http.Redirect(w, r, "/", http.StatusFound)
}

// syncLocalUserFromClerk creates or refreshes the local user for clerkUser.
// The role is never taken from Clerk; new users start as plain users.
func syncLocalUserFromClerk(ctx context.Context, clerkUser *clerk.User) (dbgen.User, error) {
	if queries == nil {
		return dbgen.User{}, errors.New("database not initialized")
	}
	if clerkUser == nil || clerkUser.ID == "" {
		return dbgen.User{}, errors.New("clerk user has no id")
	}

	email := primaryEmail(clerkUser)
	localUser, err := queries.UpsertClerkUser(ctx, dbgen.UpsertClerkUserParams{
		ClerkUserID: sql.NullString{String: clerkUser.ID, Valid: true},
		Name:        displayName(clerkUser, email),
		Email:       sql.NullString{String: email, Valid: email != ""},
	})
	if err != nil {
		return dbgen.User{}, fmt.Errorf("upsert clerk user: %w", err)
	}

	phone := primaryPhone(clerkUser)
	if phone == "" {
		return localUser, nil
	}
	normalized, err := models.NormalizePhone(phone, phoneRegion())
	if err != nil {
		log.Ctx(ctx).Debug().Str("clerk_user_id", clerkUser.ID).Msg("Ignoring unparseable Clerk phone number")
		return localUser, nil
	}
	if localUser.Phone.String == normalized {
		return localUser, nil
	}
	if err := queries.UpdateUserPhone(ctx, dbgen.UpdateUserPhoneParams{
		Phone: sql.NullString{String: normalized, Valid: true},
		ID:    localUser.ID,
	}); err != nil {
		return dbgen.User{}, fmt.Errorf("update user phone: %w", err)
	}
	localUser.Phone = sql.NullString{String: normalized, Valid: true}
	return localUser, nil
}

func primaryEmail(clerkUser *clerk.User) string {
	if clerkUser.PrimaryEmailAddressID != nil {
		for _, email := range clerkUser.EmailAddresses {
			if email != nil && email.ID == *clerkUser.PrimaryEmailAddressID {
				return email.EmailAddress
			}
		}
	}
	for _, email := range clerkUser.EmailAddresses {
		if email != nil && email.EmailAddress != "" {
			return email.EmailAddress
		}
	}
	return ""
}

func primaryPhone(clerkUser *clerk.User) string {
	if clerkUser.PrimaryPhoneNumberID != nil {
		for _, phone := range clerkUser.PhoneNumbers {
			if phone != nil && phone.ID == *clerkUser.PrimaryPhoneNumberID {
				return phone.PhoneNumber
			}
		}
	}
	return ""
}

func displayName(clerkUser *clerk.User, email string) string {
	var parts []string
	if clerkUser.FirstName != nil && strings.TrimSpace(*clerkUser.FirstName) != "" {
		parts = append(parts, strings.TrimSpace(*clerkUser.FirstName))
	}
	if clerkUser.LastName != nil && strings.TrimSpace(*clerkUser.LastName) != "" {
		parts = append(parts, strings.TrimSpace(*clerkUser.LastName))
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if clerkUser.Username != nil && *clerkUser.Username != "" {
		return *clerkUser.Username
	}
	if local, _, found := strings.Cut(email, "@"); found && local != "" {
		return local
	}
	return clerkUser.ID
}

func phoneRegion() string {
	if appConfig == nil {
		return ""
	}
	return appConfig.App.PhoneRegion
}

// WithClerkSession is middleware that validates Clerk session tokens
// and adds session claims to the request context
func WithClerkSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !clerkInitialized {
			next.ServeHTTP(w, r)
			return
		}

		sessionToken, err := r.Cookie("__session")
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := jwt.Verify(r.Context(), &jwt.VerifyParams{
			Token: sessionToken.Value,
		})
		if err != nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("Invalid Clerk session token")
			next.ServeHTTP(w, r)
			return
		}

		ctx := clerk.ContextWithSessionClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
