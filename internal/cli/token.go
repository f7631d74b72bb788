package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/echoes/internal/errmsg"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the API token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store the API token used for requests",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenSet,
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runTokenClear,
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	token := strings.TrimSpace(args[0])
	if token == "" {
		return errors.New("token is empty")
	}

	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetToken(token); err != nil {
		return errors.New(errmsg.Format(errmsg.OpSessionSave, err))
	}

	// An expired JWT is stored but never sent.
	if current, _ := store.Token(); current == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Token saved, but it has already expired.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
	return nil
}

func runTokenClear(cmd *cobra.Command, args []string) error {
	store, err := openSession()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SignOut(); err != nil {
		return errors.New(errmsg.Format(errmsg.OpSessionSave, err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}
