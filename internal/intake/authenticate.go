package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/lalith-99/practicedesk/internal/docstore"
	"github.com/lalith-99/practicedesk/internal/models"
	"go.uber.org/zap"
)

// legacyCreator is the creator tag on everything written with a firm-wide
// token. The web app shows it as "Siri".
const legacyCreator = "siri"

var errMalformedFirmID = errors.New("malformed firm id")

// Authenticate resolves a Siri token to the principal the request acts for.
//
// It only reads: one credential lookup plus one profile lookup in
// principal mode, one equality query in firm mode.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		s.metrics.AuthFailed("missing")
		return models.Principal{}, ErrMissingCredential
	}

	if s.authMode == AuthModeFirm {
		return s.authenticateFirm(ctx, token)
	}
	return s.authenticatePrincipal(ctx, token)
}

func (s *Service) authenticatePrincipal(ctx context.Context, token string) (models.Principal, error) {
	cred, err := s.repos.Credentials.GetByToken(ctx, token)
	if err != nil {
		return models.Principal{}, internalError("resolve credential", err)
	}

	// A credential document without a uid is a half-provisioned token.
	// It exists, but it does not identify anyone.
	if cred == nil || cred.UID == "" {
		s.metrics.AuthFailed("invalid")
		return models.Principal{}, ErrInvalidCredential
	}
	if !docstore.ValidID(cred.UID) {
		s.logger.Warn("credential has malformed uid")
		s.metrics.AuthFailed("invalid")
		return models.Principal{}, ErrInvalidCredential
	}

	profile, err := s.repos.Profiles.GetByID(ctx, cred.UID)
	if err != nil {
		return models.Principal{}, internalError("load profile", err)
	}

	// The profile is the source of truth for firm membership: users can
	// join or leave a firm after their token was issued. The firm recorded
	// on the credential only fills in when the profile has none.
	firmID := ""
	if profile != nil {
		firmID = profile.FirmID
	}
	if firmID == "" {
		firmID = cred.FirmID
	}
	if firmID != "" && !docstore.ValidID(firmID) {
		return models.Principal{}, internalError("load profile", errMalformedFirmID)
	}

	return models.Principal{UID: cred.UID, FirmID: firmID}, nil
}

func (s *Service) authenticateFirm(ctx context.Context, token string) (models.Principal, error) {
	firm, err := s.repos.Firms.GetBySiriToken(ctx, token)
	if err != nil {
		return models.Principal{}, internalError("resolve firm token", err)
	}

	// Firm-token shortcuts were always answered with 403 for a wrong token,
	// and shortcut scripts in the wild check for it.
	if firm == nil || !docstore.ValidID(firm.ID) {
		s.metrics.AuthFailed("invalid")
		return models.Principal{}, forbidden("Invalid token")
	}

	s.logger.Debug("resolved firm token", zap.String("firm_id", firm.ID))
	return models.Principal{UID: legacyCreator, FirmID: firm.ID, Anonymous: true}, nil
}
