package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Leiracamera/clarityPMDD/internal/models"
)

type AccessMode string

const (
	// AccessModeOpen lets any caller read and change every entry.
	AccessModeOpen AccessMode = "open"
	// AccessModeOwner limits every entry statement to the signed-in user.
	AccessModeOwner AccessMode = "owner"
)

var ErrUnauthenticated = errors.New("authentication required")

func ParseAccessMode(raw string) (AccessMode, error) {
	switch mode := AccessMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case AccessModeOpen, AccessModeOwner:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown access mode %q", raw)
	}
}

// AccessPolicy turns a resolved identity into the entry scope for one request.
// The mode is fixed for the lifetime of the process.
type AccessPolicy struct {
	mode AccessMode
}

func NewAccessPolicy(mode AccessMode) AccessPolicy {
	return AccessPolicy{mode: mode}
}

func (policy AccessPolicy) Mode() AccessMode {
	return policy.mode
}

func (policy AccessPolicy) RequiresIdentity() bool {
	return policy.mode != AccessModeOpen
}

func (policy AccessPolicy) Resolve(identity *models.User) (models.EntryScope, error) {
	if !policy.RequiresIdentity() {
		return models.UnscopedEntries(), nil
	}
	if identity == nil || identity.ID == 0 {
		return models.EntryScope{}, ErrUnauthenticated
	}
	return models.EntriesOwnedBy(identity.ID), nil
}
