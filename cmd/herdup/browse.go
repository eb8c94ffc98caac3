package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/herdup/herdup/internal/screens"
)

func newHomeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Events and announcements from your organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := screens.NewHomeScreen(a.session, a.api, a.logger)
			if err := h.Load(cmd.Context()); err != nil {
				return err
			}
			st := h.State()
			return a.emit(cmd.OutOrStdout(), st, func(w io.Writer) {
				if !st.SignedIn {
					fmt.Fprintln(w, "Not signed in. Run `herdup login`.")
					return
				}
				if len(st.Organizations) == 0 {
					fmt.Fprintln(w, "You have not joined any organizations yet. Try `herdup search`.")
					return
				}
				fmt.Fprintln(w, "EVENTS")
				for _, e := range st.Events {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", screens.FormatDate(e.Date), screens.FormatTime(e.Time),
						e.Name, e.OrganizationName, screens.LogoOrPlaceholder(e.Logo))
				}
				fmt.Fprintln(w, "\nANNOUNCEMENTS")
				for _, an := range st.Announcements {
					fmt.Fprintf(w, "%s\t%s\t%s\n", screens.FormatDate(an.Date), an.OrganizationName, an.Description)
				}
			})
		},
	}
}

func newOrgCmd(a *app) *cobra.Command {
	var join, leave, website, email bool
	cmd := &cobra.Command{
		Use:   "org <id>",
		Short: "Show an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			o := screens.NewOrgScreen(a.api, a.links, a.logger)
			o.Load(ctx, id)
			st := o.State()
			if st.Err != nil {
				return st.Err
			}
			switch {
			case join:
				if err := o.Join(ctx); err != nil {
					return err
				}
			case leave:
				if err := o.Leave(ctx); err != nil {
					return err
				}
			case website:
				o.OpenWebsite()
			case email:
				o.OpenEmail()
			}

			org := st.Organization
			return a.emit(cmd.OutOrStdout(), st, func(w io.Writer) {
				fmt.Fprintf(w, "%s\n%s\n\n", org.Name, deref(org.Description))
				for _, row := range [][2]string{
					{"Logo", screens.LogoOrPlaceholder(org.Logo)},
					{"Website", screens.WebsiteURL(deref(org.Website))},
					{"Email", deref(org.Email)},
					{"Instagram", deref(org.Instagram)},
					{"Meetings", deref(org.MeetingTimes)},
					{"Dues", deref(org.Dues)},
					{"Commitment", deref(org.TimeCommitment)},
					{"Majors", deref(org.MajorRestrictions)},
					{"Tags", strings.Join(org.Tags, ", ")},
				} {
					if row[1] != "" {
						fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
					}
				}
				fmt.Fprintln(w, "\nEVENTS")
				for _, e := range st.Events {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", screens.FormatDate(e.Date), screens.FormatTime(e.Time), e.Name, e.ID)
				}
				fmt.Fprintln(w, "\nANNOUNCEMENTS")
				for _, an := range st.Announcements {
					fmt.Fprintf(w, "%s\t%s\n", screens.FormatDate(an.Date), an.Description)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&join, "join", false, "join the organization")
	cmd.Flags().BoolVar(&leave, "leave", false, "leave the organization")
	cmd.Flags().BoolVar(&website, "open-website", false, "open the website in a browser")
	cmd.Flags().BoolVar(&email, "email", false, "compose an email to the organization")
	cmd.MarkFlagsMutuallyExclusive("join", "leave", "open-website", "email")
	return cmd
}

func newEventCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "event <id>",
		Short: "Show an event and your RSVP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r := screens.NewRSVPScreen(a.session, a.api, a.logger)
			if err := r.Load(cmd.Context(), id); err != nil {
				return err
			}
			st := r.State()
			return a.emit(cmd.OutOrStdout(), st, func(w io.Writer) {
				e := st.Event
				fmt.Fprintf(w, "%s\n%s\t%s\n%s\n", e.Name, screens.FormatDate(e.Date), screens.FormatTime(e.Time), e.OrganizationName)
				if e.Location != "" {
					fmt.Fprintf(w, "Where\t%s\n", e.Location)
				}
				if e.Description != "" {
					fmt.Fprintf(w, "\n%s\n", e.Description)
				}
				if st.Attending {
					fmt.Fprintln(w, "\nYou are going.")
				}
			})
		},
	}
}

func newRSVPCmd(a *app) *cobra.Command {
	var notify, cancel bool
	cmd := &cobra.Command{
		Use:   "rsvp [event-id]",
		Short: "RSVP to an event, or list your RSVPs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r := screens.NewRSVPScreen(a.session, a.api, a.logger)
			if len(args) == 0 {
				list, err := r.MyRSVPs(ctx)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), list, func(w io.Writer) {
					for _, rs := range list {
						fmt.Fprintf(w, "%s\tnotify=%t\n", rs.EventID, rs.Notify)
					}
				})
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := r.Load(ctx, id); err != nil {
				return err
			}
			if cancel {
				return r.Cancel(ctx)
			}
			if err := r.Confirm(ctx, notify); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "You're going to %s.\n", r.State().Event.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&notify, "notify", false, "remind me before the event")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "withdraw the RSVP")
	return cmd
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tag catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.api.Tags(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), list, func(w io.Writer) {
				for _, t := range list {
					fmt.Fprintf(w, "%d\t%s\n", t.ID, t.Name)
				}
			})
		},
	}
}

func newInterestsCmd(a *app) *cobra.Command {
	var toggle []string
	cmd := &cobra.Command{
		Use:   "interests",
		Short: "Show or change your interest tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := screens.NewInterestEditor(a.session, a.api, a.logger)
			if err := e.Load(ctx); err != nil {
				return err
			}
			for _, name := range toggle {
				e.Toggle(strings.TrimSpace(name))
			}
			if e.Dirty() {
				if err := e.Commit(ctx); err != nil {
					return err
				}
			}
			current := e.Current()
			return a.emit(cmd.OutOrStdout(), current, func(w io.Writer) {
				for _, t := range e.Catalogue() {
					mark := " "
					if e.Selected(t.Name) {
						mark = "x"
					}
					fmt.Fprintf(w, "[%s]\t%s\n", mark, t.Name)
				}
			})
		},
	}
	cmd.Flags().StringSliceVar(&toggle, "toggle", nil, "tag names to toggle, comma separated")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := screens.NewProfileScreen(a.session, a.api, a.api, a.logger)
			if err := p.Load(cmd.Context()); err != nil {
				return err
			}
			st := p.State()
			return a.emit(cmd.OutOrStdout(), st, func(w io.Writer) {
				if !st.SignedIn {
					fmt.Fprintln(w, "Not signed in. Run `herdup login`.")
					return
				}
				pr := st.Profile
				fmt.Fprintf(w, "%s %s\n", pr.FirstName, pr.LastName)
				fmt.Fprintf(w, "Email\t%s\nMajor\t%s\nMinor\t%s\nGraduation\t%s\nCommitment\t%s\n",
					pr.Email, pr.Major, pr.Minor, pr.Graduation, pr.Commitment)
				fmt.Fprintf(w, "Clubs\t%s\nInterests\t%s\n", strings.Join(pr.Clubs, ", "), strings.Join(st.Interests, ", "))
			})
		},
	}
}
