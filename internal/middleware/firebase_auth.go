package middleware

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// IDTokenVerifier is satisfied by *auth.Client
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseUserLookup finds the local account linked to a Firebase UID
type FirebaseUserLookup interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// FirebaseAuthMiddleware verifies Firebase ID tokens and stores the linked local user id
func FirebaseAuthMiddleware(verifier IDTokenVerifier, users FirebaseUserLookup) echo.MiddlewareFunc {
	return Authenticate(FirebaseResolver(verifier, users))
}

// FirebaseResolver accepts Firebase ID tokens whose UID is linked to a local user
func FirebaseResolver(verifier IDTokenVerifier, users FirebaseUserLookup) TokenResolver {
	return func(ctx context.Context, idToken string) (uint, error) {
		token, err := verifier.VerifyIDToken(ctx, idToken)
		if err != nil {
			return 0, err
		}
		user, err := users.GetUserByFirebaseUID(ctx, token.UID)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	}
}
