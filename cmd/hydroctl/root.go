package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hydroguide/internal/client"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	server    string
	token     string
	tokenFile string
	timezone  string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hydroctl",
		Short:         "hydroctl logs water intake against a HydroGuide server",
		Long:          "hydroctl talks to a HydroGuide server: log drinks, undo the last one, and review today, the month calendar and bottle recommendations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.server, "server", envOr("HYDROCTL_SERVER", "http://localhost:8080"), "Server base URL")
	f.StringVar(&opts.token, "token", os.Getenv("HYDROCTL_TOKEN"), "Access token (defaults to the saved login)")
	f.StringVar(&opts.tokenFile, "token-file", defaultTokenFile(), "Where login stores the access token")
	f.StringVar(&opts.timezone, "tz", envOr("HYDROCTL_TZ", localZoneName()), "IANA timezone used for \"today\"")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogCmd(opts),
		newUndoCmd(opts),
		newTodayCmd(opts),
		newMonthCmd(opts),
		newRecommendCmd(opts),
	)
	return cmd
}

// api builds a client; authenticated commands also need a token.
func (o *rootOptions) api(needToken bool) (*client.API, error) {
	c := client.New(o.server, client.WithTimezone(o.timezone))
	if !needToken {
		return c, nil
	}

	tok := strings.TrimSpace(o.token)
	if tok == "" && o.tokenFile != "" {
		b, err := os.ReadFile(o.tokenFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		tok = strings.TrimSpace(string(b))
	}
	if tok == "" {
		return nil, errors.New("not logged in: run `hydroctl login` or pass --token")
	}
	c.SetToken(tok)
	return c, nil
}

func (o *rootOptions) saveToken(tok string) error {
	if o.tokenFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(o.tokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(o.tokenFile, []byte(tok+"\n"), 0o600)
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hydroctl", "token")
}

func localZoneName() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
