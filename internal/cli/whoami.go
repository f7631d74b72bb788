package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/api"
	"github.com/llehouerou/echoes/internal/errmsg"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := requireToken(store); err != nil {
		return err
	}

	profile, err := newClient(store).FetchProfile(cmd.Context())
	if err != nil {
		if api.IsAuthRequired(err) {
			return signOutOnAuth(store, err)
		}
		// Offline: fall back to the cached profile.
		cached, cacheErr := store.Profile()
		if cacheErr != nil || cached == nil {
			return errors.New(errmsg.Format(errmsg.OpSessionProfile, err))
		}
		printProfile(cmd, *cached)
		fmt.Fprintln(cmd.OutOrStdout(), "(cached, server unreachable)")
		return nil
	}

	if err := store.SetProfile(profile); err != nil {
		zap.L().Warn("cache profile failed", zap.Error(err))
	}
	printProfile(cmd, profile)
	return nil
}

func printProfile(cmd *cobra.Command, p api.Profile) {
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (@%s, id %d)\n", p.DisplayName(), p.Username, p.ID)
}
