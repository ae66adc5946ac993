package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/quorum/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagLogLevel = "log-level"
	flagDebug    = "debug"
)

// NewRootCmd returns the quorumd command tree. Logs and command output are
// written to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	n := &node{logger: log.NewNopLogger()}
	var logLevel string

	root := &cobra.Command{
		Use:           "quorumd",
		Short:         "Quorum authorized transaction engine",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			allowed, err := log.AllowLevel(logLevel)
			if err != nil {
				return errors.Wrap(errors.ErrInput, err.Error())
			}
			logger := log.NewTMLogger(log.NewSyncWriter(out))
			n.logger = log.NewFilter(logger, allowed).With("module", "quorumd")
			return nil
		},
	}
	root.SetOutput(out)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrapf(errors.ErrInput, "%s\n%s", err, cmd.UsageString())
	})

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".quorumd")
	root.PersistentFlags().StringVar(&n.home, flagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().StringVar(&logLevel, flagLogLevel, "info", "log level: debug, info, error or none")
	root.PersistentFlags().Bool(flagDebug, false, "print full error details")

	root.AddCommand(
		initCmd(n),
		depositCmd(n),
		proposeCmd(n),
		confirmCmd(n),
		revokeCmd(n),
		executeCmd(n),
		showCmd(n),
		listCmd(n),
		balanceCmd(n),
		versionCmd(),
	)
	return root
}

// IsDebug returns true if the command line requested full error details.
func IsDebug(cmd *cobra.Command) bool {
	debug, err := cmd.PersistentFlags().GetBool(flagDebug)
	return err == nil && debug
}
