package commands

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/spf13/cobra"
)

// TransactionView is the printed representation of a transaction.
type TransactionView struct {
	Index         uint64           `json:"index"`
	Target        quorum.Address   `json:"target"`
	Value         uint64           `json:"value"`
	Payload       string           `json:"payload"`
	Executed      bool             `json:"executed"`
	Confirmations uint32           `json:"confirmations"`
	Threshold     uint32           `json:"threshold"`
	Confirmers    []quorum.Address `json:"confirmers"`
}

func showCmd(n *node) *cobra.Command {
	return &cobra.Command{
		Use:   "show INDEX",
		Short: "Print a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseUint(args[0], "index")
			if err != nil {
				return err
			}
			return n.view(func(ctx context.Context, in *instance) error {
				tx, err := in.engine.Transaction(index)
				if err != nil {
					return err
				}
				confirmers, err := in.engine.Confirmers(index)
				if err != nil {
					return err
				}
				raw, err := json.MarshalIndent(TransactionView{
					Index:         index,
					Target:        tx.Target,
					Value:         tx.Value,
					Payload:       hex.EncodeToString(tx.Payload),
					Executed:      tx.Executed,
					Confirmations: tx.Confirmations,
					Threshold:     in.engine.Threshold(),
					Confirmers:    confirmers,
				}, "", "  ")
				if err != nil {
					return errors.Wrap(errors.ErrType, err.Error())
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			})
		},
	}
}

func listCmd(n *node) *cobra.Command {
	var pending, executed bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pending && !executed {
				pending, executed = true, true
			}
			return n.view(func(ctx context.Context, in *instance) error {
				indexes, err := in.engine.Transactions(pending, executed)
				if err != nil {
					return err
				}
				for _, i := range indexes {
					tx, err := in.engine.Transaction(i)
					if err != nil {
						return err
					}
					state := "pending"
					if tx.Executed {
						state = "executed"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d/%d\t%s\t%d\n",
						i, state, tx.Confirmations, in.engine.Threshold(), tx.Target, tx.Value)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "list transactions not executed yet")
	cmd.Flags().BoolVar(&executed, "executed", false, "list executed transactions")
	return cmd
}

func balanceCmd(n *node) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [ADDRESS]",
		Short: "Print the pool balance or the balance of an address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return n.view(func(ctx context.Context, in *instance) error {
				if len(args) == 0 {
					pool, err := in.vault.PoolBalance(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "pool %d\n", pool)
					return nil
				}
				addr, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				b, err := in.vault.Balance(ctx, addr)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", addr, b)
				return nil
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), quorum.Version())
			return nil
		},
	}
}
