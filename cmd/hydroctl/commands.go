package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hydroguide/internal/client"
	"hydroguide/internal/delivery/http/dto"
	"hydroguide/internal/domain/hydration"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	var register bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api(false)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var tok dto.TokenResponse
			if register {
				tok, err = api.Register(ctx, email, password)
			} else {
				tok, err = api.Login(ctx, email, password)
			}
			if err != nil {
				return err
			}
			if err := opts.saveToken(tok.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&register, "register", false, "Create the account first")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "log <oz>",
		Short: "Log a drink in ounces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oz, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			api, err := opts.api(true)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			tr := client.NewTracker(api)
			if err := tr.Sync(ctx); err != nil {
				return err
			}
			if err := tr.Add(ctx, oz); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %g oz. Today: %g / %g oz\n", oz, tr.TotalOz(), tr.GoalOz())
			return nil
		},
	}
}

func newUndoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Remove today's most recent drink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api(true)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			tr := client.NewTracker(api)
			if err := tr.Sync(ctx); err != nil {
				return err
			}
			ok, err := tr.Undo(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Undone. Today: %g / %g oz\n", tr.TotalOz(), tr.GoalOz())
			return nil
		},
	}
}

func newTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api(true)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			st, err := api.Today(ctx)
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func newMonthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show the month calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var month hydration.Month
			if len(args) == 1 {
				m, err := hydration.ParseMonth(args[0])
				if err != nil {
					return err
				}
				month = m
			}
			api, err := opts.api(true)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			mr, err := api.Month(ctx, month)
			if err != nil {
				return err
			}
			printMonth(cmd.OutOrStdout(), mr)
			return nil
		},
	}
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Suggest water bottles for your goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api(true)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			view := client.NewRecommendationView(api)
			defer view.Close()

			recs, err := view.Load(ctx)
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.Retryable() {
					return fmt.Errorf("%s (try again shortly)", apiErr.Message)
				}
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range recs {
				fmt.Fprintf(out, "%d. %s (%s)\n   %s\n   %s\n", i+1, r.Name, r.CapacityLabel, r.Reason, r.MarketplaceURL)
			}
			return nil
		},
	}
}

func printDay(w io.Writer, st dto.DayStatusResponse) {
	if st.Locked {
		fmt.Fprintf(w, "%s: locked (upgrade to see older history)\n", st.Date)
		return
	}
	total, goal, pct := deref(st.TotalOz), deref(st.GoalOz), deref(st.Percent)
	fmt.Fprintf(w, "%s: %g / %g oz (%.0f%%) %s\n", st.Date, total, goal, pct, st.Status)
}

// printMonth renders a Sunday-first grid. Padding days are blank, locked days
// show "--" and the rest show the percent of goal.
func printMonth(w io.Writer, mr dto.MonthResponse) {
	fmt.Fprintf(w, "%s\n", mr.Month)
	fmt.Fprintln(w, " Sun  Mon  Tue  Wed  Thu  Fri  Sat")
	for _, week := range mr.Weeks {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			switch {
			case c.Padding:
				cells = append(cells, "    ")
			case c.Locked:
				cells = append(cells, "  --")
			default:
				cells = append(cells, fmt.Sprintf("%3.0f%%", deref(c.Percent)))
			}
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
