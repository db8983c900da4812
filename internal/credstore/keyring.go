package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

// keyringService namespaces our entry in the OS keychain.
const keyringService = "voting-system-front"

// KeyringStore keeps the credential in the OS keychain/credential
// manager. It is the hardened backend for one-shot commands: unlike
// FileStore it cannot be observed passively by other processes, so a
// Provider that needs cross-process notifications must use FileStore.
type KeyringStore struct {
	bus *Bus
}

// NewKeyringStore creates a keychain-backed store. A nil bus uses the
// process-wide Changes bus.
func NewKeyringStore(bus *Bus) *KeyringStore {
	if bus == nil {
		bus = Changes
	}
	return &KeyringStore{bus: bus}
}

func (s *KeyringStore) Set(token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(envelope{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := keyring.Set(keyringService, Key, string(data)); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	s.bus.Publish()
	return nil
}

func (s *KeyringStore) Get() (string, error) {
	data, err := keyring.Get(keyringService, Key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("failed to load credential: %w", err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil || env.Token == "" {
		return "", ErrNoCredential
	}
	if env.expired(time.Now()) {
		return "", ErrNoCredential
	}
	return env.Token, nil
}

func (s *KeyringStore) Remove() error {
	if err := keyring.Delete(keyringService, Key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}
