package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/spf13/cobra"
)

const flagFrom = "from"

func depositCmd(n *node) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "deposit AMOUNT",
		Short: "Add value to the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := parseAddress(from)
			if err != nil {
				return err
			}
			amount, err := parseUint(args[0], "amount")
			if err != nil {
				return err
			}
			return n.mutate(func(ctx context.Context, in *instance) error {
				balance, err := in.engine.Deposit(ctx, sender, amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pool balance %d\n", balance)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, flagFrom, "", "address of the sender")
	return cmd
}

func proposeCmd(n *node) *cobra.Command {
	var (
		from, to, payload string
		value             uint64
	)
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Propose a new transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := parseAddress(from)
			if err != nil {
				return err
			}
			target, err := parseAddress(to)
			if err != nil {
				return errors.Wrap(err, "target")
			}
			data, err := hex.DecodeString(payload)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "payload: %s", err)
			}
			return n.mutate(func(ctx context.Context, in *instance) error {
				index, err := in.engine.Propose(ctx, caller, target, value, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "transaction %d\n", index)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, flagFrom, "", "address of the proposing owner")
	cmd.Flags().StringVar(&to, "to", "", "target address")
	cmd.Flags().Uint64Var(&value, "value", 0, "value transferred on execution")
	cmd.Flags().StringVar(&payload, "payload", "", "hex encoded payload")
	return cmd
}

// indexCmd builds a command that runs an engine operation on a single
// transaction index on behalf of an owner.
func indexCmd(n *node, use, short, done string, op func(ctx context.Context, in *instance, caller quorum.Address, index uint64) error) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   use + " INDEX",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := parseAddress(from)
			if err != nil {
				return err
			}
			index, err := parseUint(args[0], "index")
			if err != nil {
				return err
			}
			return n.mutate(func(ctx context.Context, in *instance) error {
				if err := op(ctx, in, caller, index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "transaction %d %s\n", index, done)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, flagFrom, "", "address of the calling owner")
	return cmd
}

func confirmCmd(n *node) *cobra.Command {
	return indexCmd(n, "confirm", "Confirm a transaction", "confirmed",
		func(ctx context.Context, in *instance, caller quorum.Address, index uint64) error {
			return in.engine.Confirm(ctx, caller, index)
		})
}

func revokeCmd(n *node) *cobra.Command {
	return indexCmd(n, "revoke", "Revoke a confirmation", "revoked",
		func(ctx context.Context, in *instance, caller quorum.Address, index uint64) error {
			return in.engine.Revoke(ctx, caller, index)
		})
}

func executeCmd(n *node) *cobra.Command {
	return indexCmd(n, "execute", "Execute a confirmed transaction", "executed",
		func(ctx context.Context, in *instance, caller quorum.Address, index uint64) error {
			return in.engine.Execute(ctx, caller, index)
		})
}

func parseAddress(raw string) (quorum.Address, error) {
	if raw == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "address required")
	}
	return quorum.ParseAddress(raw)
}

func parseUint(raw, name string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "%s: %s", name, err)
	}
	return v, nil
}
