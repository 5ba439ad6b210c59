package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yungbote/payerdesk/internal/clients/payerstore"
	"github.com/yungbote/payerdesk/internal/paging"
	"github.com/yungbote/payerdesk/internal/platform/logger"
	"github.com/yungbote/payerdesk/internal/reconcile"
)

type cli struct {
	configPath string
	baseURL    string
	timeout    int
	verbose    bool

	profile Profile
	log     *logger.Logger
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "payerctl",
		Short:         "Operator console for the payer store",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "profile file (default ~/.payerctl.yaml)")
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "store base URL (overrides the profile)")
	root.PersistentFlags().IntVar(&c.timeout, "timeout", 0, "request timeout in seconds (overrides the profile)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		unmappedCmd(c), payersCmd(c), groupsCmd(c),
		mapCmd(c), renameCmd(c), assignCmd(c), createGroupCmd(c),
	)
	return root
}

func (c *cli) init() error {
	path := c.configPath
	if path == "" {
		path = defaultProfilePath()
	}
	p, err := LoadProfile(path)
	if err != nil {
		return err
	}
	if c.baseURL != "" {
		p.BaseURL = c.baseURL
	}
	if c.timeout > 0 {
		p.TimeoutSeconds = c.timeout
	}
	c.profile = p

	mode := "nop"
	if c.verbose {
		mode = "cli"
	}
	if c.log, err = logger.New(mode); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

// session loads the three collections and the group registry. Load failures
// are reported on errOut; the caller decides which collection it needs.
func (c *cli) session(ctx context.Context, errOut io.Writer) (*reconcile.Session, error) {
	store, err := payerstore.New(payerstore.Config{
		BaseURL: c.profile.BaseURL,
		Timeout: c.profile.Timeout(),
	}, c.log)
	if err != nil {
		return nil, err
	}
	s := reconcile.NewSession(store, c.profile.SessionConfig(), c.log)
	if err := s.Load(ctx); err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", err)
	}
	return s, nil
}

// page moves col to p (1-based) and fails when col could not be loaded.
// Pages outside [1, max] come back as paging's out-of-range error.
func page[T any](ctx context.Context, col *paging.Collection[T], p int) error {
	if col.Status() == paging.StatusFailed {
		return col.Err()
	}
	if p != col.Page() {
		return col.GoToPage(ctx, p)
	}
	return nil
}

func report(out io.Writer, o reconcile.Outcome) error {
	if o.Committed() {
		fmt.Fprintf(out, "%s: %s\n", o.Op, o.State)
		return nil
	}
	return fmt.Errorf("%s %s: %w", o.Op, o.State, o.Err)
}
