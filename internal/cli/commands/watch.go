package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JoelChinoP/voting-system-front/internal/authstate"
	"github.com/JoelChinoP/voting-system-front/internal/credstore"
	"github.com/JoelChinoP/voting-system-front/internal/logger"
	"github.com/JoelChinoP/voting-system-front/internal/session"
)

// NewWatchCmd creates the watch command: a long-running observer that
// prints every authentication state transition, including ones caused
// by other processes writing the shared credential slot.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Observe authentication state changes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(cmd)
			if err != nil {
				return err
			}
			fs, err := d.fileStore()
			if err != nil {
				return err
			}

			logger.Init(d.cfg.Logging.Level, d.cfg.Logging.Format)
			log := logger.GetLogger()

			provider := authstate.New(d.svc,
				authstate.WithPollInterval(d.cfg.PollInterval),
				authstate.WithWatcher(credstore.NewWatcher(fs.Path(), 0)),
				authstate.WithLogger(log),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Regaining the terminal after a suspend is the closest
			// thing a CLI has to a window-focus event.
			cont := make(chan os.Signal, 1)
			signal.Notify(cont, syscall.SIGCONT)
			go func() {
				for range cont {
					provider.Focus()
				}
			}()
			defer signal.Stop(cont)

			sub := provider.Subscribe()
			defer provider.Unsubscribe(sub)

			go provider.Run(ctx)
			<-provider.Ready()
			printSnapshot(provider.Snapshot())

			for {
				select {
				case <-ctx.Done():
					return nil
				case snap := <-sub:
					printSnapshot(snap)
				}
			}
		},
	}
}

func printSnapshot(snap authstate.Snapshot) {
	if !snap.IsAuthenticated {
		fmt.Println("→ signed out")
		return
	}
	role := snap.User.Role
	if !role.Known() {
		role = session.Role(fmt.Sprintf("%s (unrecognized)", snap.User.Role))
	}
	fmt.Printf("→ signed in as %s [%s]\n", snap.User.Email, role)
}
