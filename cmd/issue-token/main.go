// Command issue-token creates a Siri token for a user and prints it.
//
// The token is shown once. Only its credential document is stored, so a
// lost token is replaced, not recovered.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/lalith-99/practicedesk/internal/config"
	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/models"
	"github.com/lalith-99/practicedesk/internal/observ"
	"github.com/lalith-99/practicedesk/internal/repository/docrepo"
	"github.com/lalith-99/practicedesk/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const tokenBytes = 32

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var uid, firmID, label string

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue a Siri shortcut token for a user",
		Long: `Generates a random token, stores its credential under siriTokens/{token}
and prints the token to stdout. Paste it into the shortcut's X-Siri-Token header.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			store, err := storage.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			token, err := issue(cmd.Context(), docrepo.NewCredentialStore(store.Store), uid, firmID, label, time.Now())
			if err != nil {
				return err
			}
			logger.Info("token issued", zap.String("uid", uid), zap.String("firm_id", firmID))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "user the token acts for (required)")
	cmd.Flags().StringVar(&firmID, "firm", "", "firm to use when the user's profile has none")
	cmd.Flags().StringVar(&label, "label", "", "note shown in the settings page, e.g. \"Sam's iPhone\"")
	_ = cmd.MarkFlagRequired("uid")

	return cmd
}

// credentialWriter is the part of docrepo.CredentialStore issue uses.
type credentialWriter interface {
	Create(ctx context.Context, token string, cred *models.Credential) error
}

func issue(ctx context.Context, creds credentialWriter, uid, firmID, label string, now time.Time) (string, error) {
	if !docstore.ValidID(uid) {
		return "", fmt.Errorf("invalid uid %q", uid)
	}
	if firmID != "" && !docstore.ValidID(firmID) {
		return "", fmt.Errorf("invalid firm id %q", firmID)
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	cred := &models.Credential{
		UID:       uid,
		FirmID:    firmID,
		Label:     label,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
	if err := creds.Create(ctx, token, cred); err != nil {
		return "", fmt.Errorf("store credential: %w", err)
	}
	return token, nil
}

// newToken returns 256 random bits, URL-safe so the token is also a
// valid document id.
func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
