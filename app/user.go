package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/daemon"
)

func init() { //nolint: gochecknoinits
	f := userAddCmd.Flags()
	f.StringVar(&newUser.Username, "username", "", "login name")
	f.StringVar(&newUser.Password, "password", "", "password")
	f.StringVar(&newUser.Email, "email", "", "email address")
	f.StringVar(&newUser.Name, "name", "", "display name")
	f.BoolVar(&newUser.TOTP, "totp", false, "enrol a totp second factor")

	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	newUser auth.NewUser

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage admin users",
	}

	userAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Create a local admin user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			otpURL, err := daemon.AddUser(&cfg, newUser)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err = fmt.Fprintf(out, "user %s created\n", newUser.Username); err != nil {
				return err
			}

			if otpURL != "" {
				_, err = fmt.Fprintf(out, "add this url to an authenticator app:\n%s\n", otpURL)
			}

			return err
		},
	}
)
