package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	actorKey contextKey = "actor"
	tokenKey contextKey = "token"
)

// Actor is the authenticated caller attached to a request context.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func SetActorContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	return context.WithValue(ctx, actorKey, Actor{UserID: userID, Role: role})
}

func GetActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok || actor.UserID == uuid.Nil {
		return Actor{}, false
	}
	return actor, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	actor, ok := GetActorFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return actor.UserID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	actor, ok := GetActorFromContext(ctx)
	if !ok {
		return "", false
	}
	return actor.Role, true
}

// SetTokenContext stores the raw session token so logout can revoke it
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}
