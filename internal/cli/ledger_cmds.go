package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

func newMintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     types.OpMintProperty + " <name> <location> <total-shares> <price-per-share>",
		Short:   "Mint a property and receive all of its shares",
		Example: `  deeds --as ST1PQ... mint-property "Luxury Apartment" "123 Main St" 1000 100`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			minter, err := a.principal()
			if err != nil {
				return err
			}
			return a.withLedger(func(l types.Ledger) error {
				res, err := l.Call(minter, types.OpMintProperty, args[0], args[1], args[2], args[3])
				if err != nil {
					return ledgerError(err)
				}
				id := res.(types.PropertyID)
				return a.emit(out(cmd), map[string]any{"property_id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Minted property %d to %s\n", id, minter)
				})
			})
		},
	}
}

func newDetailsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   types.OpGetPropertyDetails + " <property-id>",
		Short: "Show a property's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(l types.Ledger) error {
				res, err := l.Call(a.as, types.OpGetPropertyDetails, args[0])
				if err != nil {
					return ledgerError(err)
				}
				p := res.(types.Property)
				return a.emit(out(cmd), p, func(w io.Writer) { printProperty(w, p) })
			})
		},
	}
}

func newTransferCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   types.OpTransferShares + " <property-id> <recipient> <amount>",
		Short: "Transfer shares from the acting principal to a recipient",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := a.principal()
			if err != nil {
				return err
			}
			return a.withLedger(func(l types.Ledger) error {
				if _, err := l.Call(sender, types.OpTransferShares, args[0], args[1], args[2]); err != nil {
					return ledgerError(err)
				}
				// Both parsed cleanly inside Call.
				id, _ := types.ParsePropertyID(args[0])
				amount, _ := strconv.ParseUint(args[2], 10, 64)
				result := map[string]any{
					"property_id": id,
					"sender":      sender,
					"recipient":   args[1],
					"amount":      amount,
				}
				return a.emit(out(cmd), result, func(w io.Writer) {
					fmt.Fprintf(w, "Transferred %d shares of property %d to %s\n", amount, id, args[1])
				})
			})
		},
	}
}

func newOwnerSharesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   types.OpGetOwnerShares + " <property-id> [holder]",
		Short: "Show how many shares a holder owns (default: the acting principal)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			holder := ""
			if len(args) == 2 {
				holder = args[1]
			} else {
				p, err := a.principal()
				if err != nil {
					return err
				}
				holder = p
			}
			return a.withLedger(func(l types.Ledger) error {
				res, err := l.Call(a.as, types.OpGetOwnerShares, args[0], holder)
				if err != nil {
					return ledgerError(err)
				}
				shares := res.(uint64)
				// Parsed cleanly inside Call.
				id, _ := types.ParsePropertyID(args[0])
				result := map[string]any{"property_id": id, "holder": holder, "shares": shares}
				return a.emit(out(cmd), result, func(w io.Writer) {
					fmt.Fprintln(w, shares)
				})
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-properties",
		Short: "List every minted property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(l types.Ledger) error {
				props, err := l.Properties()
				if err != nil {
					return ledgerError(err)
				}
				if props == nil {
					props = []types.Property{}
				}
				return a.emit(out(cmd), props, func(w io.Writer) { printProperties(w, props) })
			})
		},
	}
}

func newHoldersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "holders <property-id>",
		Short: "Show the cap table of a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParsePropertyID(args[0])
			if err != nil {
				return userError(err)
			}
			return a.withLedger(func(l types.Ledger) error {
				p, err := l.GetProperty(id)
				if err != nil {
					return ledgerError(err)
				}
				holdings, err := l.Holders(id)
				if err != nil {
					return ledgerError(err)
				}
				return a.emit(out(cmd), holdings, func(w io.Writer) { printHolders(w, p, holdings) })
			})
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <property-id>",
		Short: "Show the mint and transfer journal of a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParsePropertyID(args[0])
			if err != nil {
				return userError(err)
			}
			return a.withLedger(func(l types.Ledger) error {
				entries, err := l.History(id)
				if err != nil {
					return ledgerError(err)
				}
				return a.emit(out(cmd), entries, func(w io.Writer) { printHistory(w, entries) })
			})
		},
	}
}
