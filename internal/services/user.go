package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/woorical/apiserver/config"
	"github.com/woorical/apiserver/internal/store"
	"github.com/woorical/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	GetByKey(ctx context.Context, key string) (types.User, error)
	Seed(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates roster and authentication use-cases.
type UserService struct {
	repo   UserRepository
	roster []config.RosterEntry
}

func NewUserService(repo UserRepository, roster []config.RosterEntry) *UserService {
	return &UserService{repo: repo, roster: roster}
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, key string) (types.User, error) {
	user, err := s.repo.GetByKey(ctx, NormalizeKey(key))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrUnknownUser
		}
		return types.User{}, err
	}
	return user, nil
}

// Authenticate verifies a claimed key and passcode against the stored
// credential and returns the resolved user. Pure verification, no side
// effects. Failure modes: ErrUnknownUser, ErrInvalidCredential, and
// ErrMisconfigured when a known user has no stored hash (the error names
// the env var the operator needs to set).
func (s *UserService) Authenticate(ctx context.Context, key, passcode string) (types.User, error) {
	user, err := s.Get(ctx, key)
	if err != nil {
		return types.User{}, err
	}

	if user.PasscodeHash == "" {
		return types.User{}, fmt.Errorf("%w: passcode for %s is not set (missing %s)",
			ErrMisconfigured, user.Key, s.passcodeEnv(user.Key))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasscodeHash), []byte(passcode)); err != nil {
		return types.User{}, ErrInvalidCredential
	}
	return user, nil
}

// SeedRoster upserts every roster entry. Each entry's passcode env var must
// be set; a missing one fails the whole seed so the gap surfaces at startup
// instead of as a login error later. Display fields are refreshed on
// re-seed, already-set hashes are kept (see UserRepository.Seed).
func (s *UserService) SeedRoster(ctx context.Context) error {
	missing := make([]string, 0)
	for _, entry := range s.roster {
		if strings.TrimSpace(os.Getenv(entry.PasscodeEnv)) == "" {
			missing = append(missing, entry.PasscodeEnv)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMisconfigured, strings.Join(missing, ", "))
	}

	for _, entry := range s.roster {
		passcode := strings.TrimSpace(os.Getenv(entry.PasscodeEnv))
		hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash passcode for %s: %w", entry.Key, err)
		}

		if _, err := s.repo.Seed(ctx, types.User{
			Key:          entry.Key,
			Name:         entry.Name,
			Color:        entry.Color,
			PasscodeHash: string(hashed),
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", entry.Key, err)
		}
	}
	return nil
}

func (s *UserService) passcodeEnv(key string) string {
	for _, entry := range s.roster {
		if entry.Key == key {
			return entry.PasscodeEnv
		}
	}
	return "passcode env var"
}

// NormalizeKey trims and upper-cases a claimed user key before lookup.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
