package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldreports/internal/cryptox"
	"github.com/dmitrijs2005/fieldreports/internal/dbx"
)

var ErrWrongPassphrase = errors.New("wrong outbox passphrase")

// OpenOutboxCipher derives the outbox key from passphrase. The first call on a
// database creates the salt and stores a verifier; later calls must use the
// same passphrase.
func OpenOutboxCipher(ctx context.Context, db *sql.DB, passphrase string) (*cryptox.Cipher, error) {
	var key []byte

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		saltB64, err := repo.Get(ctx, metadata.KeyOutboxSalt)
		if err != nil {
			return err
		}

		if saltB64 == "" {
			salt, err := cryptox.NewSalt()
			if err != nil {
				return err
			}
			key = cryptox.DeriveMasterKey([]byte(passphrase), salt)
			if err := repo.Set(ctx, metadata.KeyOutboxSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
				return err
			}
			return repo.Set(ctx, metadata.KeyOutboxVerifier, base64.StdEncoding.EncodeToString(cryptox.MakeVerifier(key)))
		}

		salt, err := base64.StdEncoding.DecodeString(saltB64)
		if err != nil {
			return fmt.Errorf("decode outbox salt: %w", err)
		}
		key = cryptox.DeriveMasterKey([]byte(passphrase), salt)

		stored, err := repo.Get(ctx, metadata.KeyOutboxVerifier)
		if err != nil {
			return err
		}
		want, err := base64.StdEncoding.DecodeString(stored)
		if err != nil {
			return fmt.Errorf("decode outbox verifier: %w", err)
		}
		if subtle.ConstantTimeCompare(want, cryptox.MakeVerifier(key)) != 1 {
			return ErrWrongPassphrase
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cryptox.NewCipher(key)
}
