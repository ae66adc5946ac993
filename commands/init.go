package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/spf13/cobra"
)

func initCmd(n *node) *cobra.Command {
	var (
		owners    []string
		threshold uint32
		pool      uint64
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the genesis file and initialize the state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fileExists(n.genesisPath()) {
				return errors.Wrapf(errors.ErrDuplicate, "genesis file %s already exists", n.genesisPath())
			}

			conf := multisig.Config{Threshold: threshold}
			for _, raw := range owners {
				addr, err := quorum.ParseAddress(raw)
				if err != nil {
					return errors.Wrapf(multisig.ErrInvalidOwner, "%q: %s", raw, err)
				}
				conf.Owners = append(conf.Owners, addr)
			}
			if err := conf.Validate(); err != nil {
				return err
			}

			opts := make(quorum.Options)
			if err := opts.SetOptions("multisig", conf); err != nil {
				return err
			}
			if err := opts.SetOptions("cash", cash.GenesisPool{Pool: pool}); err != nil {
				return err
			}
			if err := os.MkdirAll(n.home, 0755); err != nil {
				return errors.Wrapf(errors.ErrDatabase, "create %s: %s", n.home, err)
			}
			if err := quorum.SaveGenesis(n.genesisPath(), &quorum.Genesis{AppOptions: opts}); err != nil {
				return err
			}
			n.logger.Info("Generated genesis file", "path", n.genesisPath())

			return n.mutate(func(ctx context.Context, in *instance) error {
				if err := in.vault.FromGenesis(ctx, in.gen.AppOptions); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "initialized %d owners, threshold %d, pool %d\n",
					len(conf.Owners), conf.Threshold, pool)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&owners, "owner", nil, "owner address, repeat for every owner")
	cmd.Flags().Uint32Var(&threshold, "threshold", 1, "number of confirmations required to execute")
	cmd.Flags().Uint64Var(&pool, "pool", 0, "initial pool balance")
	return cmd
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}
