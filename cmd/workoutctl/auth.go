package main

import (
	"fmt"

	"github.com/2beens/workoutlog/internal/auth"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <username> <password>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.Register(cmd.Context(), auth.Credentials{Username: args[0], Password: args[1]})
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		color.Green("✓ Registered %s (id %d)", user.Username, user.ID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and remember the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Login(cmd.Context(), auth.Credentials{Username: args[0], Password: args[1]})
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := saveSession(sessionPath(), storedSession{
			Token:    resp.Token,
			UserID:   resp.ID,
			Username: resp.Username,
		}); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		color.Green("✓ Logged in as %s", resp.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}
		if err := client.Logout(cmd.Context()); err != nil {
			color.Yellow("⚠ Logout request failed: %v", err)
		}
		if err := clearSession(sessionPath()); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		color.Green("✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession()
		if err != nil {
			return err
		}
		user, err := client.Profile(cmd.Context(), s.UserID)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		fmt.Printf("%s %s\n", faint.Sprintf("#%d", user.ID), user.Username)
		return nil
	},
}
