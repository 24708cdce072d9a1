// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/verivote/auth"
	"github.com/danielhkuo/verivote/cliparse"
)

var adminKeyOpts struct {
	electionID string
	salt       string
}

func init() {
	adminKeyCmd.Flags().StringVar(&adminKeyOpts.electionID, "election", "", "Election id (default $ELECTION_ID or "+cliparse.DefaultElectionID+")")
	adminKeyCmd.Flags().StringVar(&adminKeyOpts.salt, "salt", "", "Admin key salt (default $ADMIN_KEY_SALT)")
	rootCmd.AddCommand(adminKeyCmd)
}

var adminKeyCmd = &cobra.Command{
	Use:   "admin-key",
	Short: "Print the X-Admin-Key for POST /admin/reset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := adminKey(adminKeyOpts.electionID, adminKeyOpts.salt)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

// adminKey resolves flags against the environment the server reads
func adminKey(electionID, salt string) (string, error) {
	if electionID == "" {
		electionID = os.Getenv("ELECTION_ID")
	}
	if electionID == "" {
		electionID = cliparse.DefaultElectionID
	}
	if salt == "" {
		salt = os.Getenv("ADMIN_KEY_SALT")
	}
	if salt == "" {
		return "", errors.New("ADMIN_KEY_SALT required (use --salt or env)")
	}
	return auth.GenerateAdminKey(electionID, salt), nil
}
