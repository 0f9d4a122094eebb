package connectivity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

const preferenceKey = "connectivity.mode"

// Preference persists a mode the user chose explicitly, so it survives
// restarts.
type Preference struct {
	repo metadata.Repository
}

func NewPreference(repo metadata.Repository) *Preference {
	return &Preference{repo: repo}
}

// Load returns the saved mode; ok is false when nothing was saved.
func (p *Preference) Load(ctx context.Context) (mode Mode, ok bool, err error) {
	raw, err := p.repo.Get(ctx, preferenceKey)
	if errors.Is(err, common.ErrorNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	mode, err = ParseMode(string(raw))
	if err != nil {
		return "", false, fmt.Errorf("stored preference: %w", err)
	}
	return mode, true, nil
}

func (p *Preference) Save(ctx context.Context, mode Mode) error {
	return p.repo.Set(ctx, preferenceKey, []byte(mode))
}

func (p *Preference) Clear(ctx context.Context) error {
	return p.repo.Delete(ctx, preferenceKey)
}

// Restore pins the saved mode on s, if any, and reports whether it did.
func (p *Preference) Restore(ctx context.Context, s *Switch) (bool, error) {
	mode, ok, err := p.Load(ctx)
	if err != nil || !ok {
		return false, err
	}
	s.Pin(ctx, mode)
	return true, nil
}
