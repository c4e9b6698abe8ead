package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sahilmate/multi-agent-form-processing-system/client"
)

const defaultGateway = "http://localhost:8080"

type globalOptions struct {
	gateway  string
	stateDir string
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()

	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "formctl",
		Short:         "Work with the form-intake portals from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.gateway, "gateway", envOr("FORMCTL_GATEWAY", defaultGateway), "gateway base URL")
	cmd.PersistentFlags().StringVar(&opts.stateDir, "state-dir", defaultStateDir(), "directory holding saved tokens")

	cmd.AddCommand(newAdminCmd(opts), newCitizenCmd(opts))
	return cmd
}

// printError reports err, adding a login hint for expired sessions.
func printError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	if errors.Is(err, client.ErrSessionExpired) {
		fmt.Fprintf(w, "%s\nRun `formctl %s login` to sign in again.\n", err, scopeOf(cmd))
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// scopeOf returns "admin" or "citizen" for a command under either tree.
func scopeOf(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Parent() != nil && c.Parent().Parent() == nil {
			return c.Name()
		}
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "formctl")
	}
	return ".formctl"
}

// newClient opens the persisted session of scope.
func (o *globalOptions) newClient(scope client.Scope) *client.Client {
	session := client.NewSession(scope, client.NewFileStore(o.stateDir, scope))
	return client.New(o.gateway, session)
}

// stderrNotifier prints notices the way a toast would show them.
func stderrNotifier(w io.Writer) client.Notifier {
	return client.NotifierFunc(func(n client.Notice) {
		if n.Description == "" {
			fmt.Fprintln(w, n.Title)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", n.Title, n.Description)
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
