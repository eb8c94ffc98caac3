package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/internal/screens"
	"github.com/herdup/herdup/pkg/client"
)

func (a *app) authFlow() *screens.AuthFlow {
	return screens.NewAuthFlow(a.api, a.session, a.api, a.logger)
}

func newSignUpCmd(a *app) *cobra.Command {
	var in client.SignUpInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.authFlow().SignUp(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. Continue with `herdup onboard`.\n", u.FullName)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&in.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&in.UTEID, "eid", "", "UT EID")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newOnboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Answer the onboarding questions",
	}

	var minor string
	major := &cobra.Command{
		Use:   "major <major>",
		Short: "Set your major and optional minor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.authFlow().SetMajor(cmd.Context(), args[0], minor)
			return err
		},
	}
	major.Flags().StringVar(&minor, "minor", "", "minor")

	graduation := &cobra.Command{
		Use:       "graduation <term>",
		Short:     "Set your graduation term, e.g. \"Spring '26\"",
		Args:      cobra.ExactArgs(1),
		ValidArgs: models.DefaultGraduationTerms,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.authFlow().SetGraduation(cmd.Context(), args[0])
			return err
		},
	}

	commitment := &cobra.Command{
		Use:   "commitment <option>",
		Short: "Set your weekly time commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.authFlow().SetCommitment(cmd.Context(), args[0])
			return err
		},
	}

	clubs := &cobra.Command{
		Use:   "clubs <passion>...",
		Short: "Pick the kinds of clubs you are passionate about",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.authFlow().SetClubs(cmd.Context(), args)
			return err
		},
	}

	options := &cobra.Command{
		Use:   "options",
		Short: "List the accepted onboarding answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			printOptions(w, "Graduation", models.DefaultGraduationTerms)
			printOptions(w, "Commitment", models.CommitmentOptions)
			printOptions(w, "Clubs", models.ClubPassions)
			return nil
		},
	}

	cmd.AddCommand(major, graduation, commitment, clubs, options)
	return cmd
}

func printOptions(w io.Writer, title string, values []string) {
	fmt.Fprintf(w, "%s:\n  %s\n", title, strings.Join(values, "\n  "))
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.authFlow().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return screens.NewProfileScreen(a.session, a.api, a.api, a.logger).SignOut(cmd.Context())
		},
	}
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Email a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authFlow().ForgotPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "If an account exists for that email, a reset link is on its way.")
			return nil
		},
	}
}

func newWhoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok, err := a.session.Resolve(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			return a.emit(cmd.OutOrStdout(), s, func(w io.Writer) {
				fmt.Fprintf(w, "%s\t%s\n", s.Email, s.UserID)
			})
		},
	}
}
