package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoelChinoP/voting-system-front/internal/config"
	"github.com/JoelChinoP/voting-system-front/internal/credstore"
	"github.com/JoelChinoP/voting-system-front/internal/gateway"
	"github.com/JoelChinoP/voting-system-front/internal/session"
)

// deps is the wired auth stack shared by every command.
type deps struct {
	cfg   *config.Config
	store credstore.Store
	svc   *session.Service
}

// buildDeps loads configuration and assembles store, gateway and
// session service. The --keyring flag swaps the file slot for the OS
// keychain; commands that need cross-process observation reject it.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := config.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var store credstore.Store
	if useKeyring, _ := cmd.Flags().GetBool("keyring"); useKeyring {
		store = credstore.NewKeyringStore(nil)
	} else {
		store, err = credstore.NewFileStore(cfg.CredentialFile, nil)
		if err != nil {
			return nil, err
		}
	}

	api := gateway.New(cfg.APIBaseURL,
		gateway.WithTimeout(cfg.APITimeout()),
		gateway.WithStore(store),
	)
	svc := session.New(store, api, session.WithTokenTTL(cfg.TokenTTL()))

	return &deps{cfg: cfg, store: store, svc: svc}, nil
}

// fileStore returns the underlying FileStore, or an error for backends
// that other processes cannot observe.
func (d *deps) fileStore() (*credstore.FileStore, error) {
	fs, ok := d.store.(*credstore.FileStore)
	if !ok {
		return nil, fmt.Errorf("this command needs the shared file slot; drop the --keyring flag")
	}
	return fs, nil
}
