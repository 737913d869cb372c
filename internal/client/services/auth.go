// Package services contains application services for the fieldctl client.
// This file holds the device token service: storing the token issued to the
// unit and probing the server.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fieldreports/internal/client/client"
	"github.com/dmitrijs2005/fieldreports/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldreports/internal/common"
)

// AuthService manages the device token used on sync requests.
type AuthService interface {
	SaveToken(ctx context.Context, token string) error
	// Token returns client.ErrUnauthorized when no token was stored.
	Token(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) SaveToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), common.BearerPrefix))
	if token == "" {
		return fmt.Errorf("%w: device token is empty", common.ErrorValidation)
	}
	return a.getMetadataRepo().Set(ctx, metadata.KeyDeviceToken, token)
}

func (a *authService) Token(ctx context.Context) (string, error) {
	token, err := a.getMetadataRepo().Get(ctx, metadata.KeyDeviceToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", client.ErrUnauthorized
	}
	return token, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.getMetadataRepo().Delete(ctx, metadata.KeyDeviceToken)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
