package main

import (
	"fmt"
	"strconv"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/amirasaad/paycode/pkg/money"
	"github.com/amirasaad/paycode/pkg/payment/bitcoin"
	"github.com/amirasaad/paycode/pkg/payment/pix"
	"github.com/spf13/cobra"
)

func newPixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pix <key> <amount>",
		Short: "Print a PIX BR Code for a key and BRL amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			payload, err := pix.Encode(args[0], amount)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), payloadColor.Sprint(payload))
			return nil
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <payload>",
		Short: "Check the CRC of a PIX payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pix.VerifyCRC(args[0]) {
				return fmt.Errorf("CRC mismatch")
			}
			fmt.Fprintln(cmd.OutOrStdout(), payloadColor.Sprint("CRC OK"))
			return nil
		},
	}
}

func newBitcoinCmd(opts *options) *cobra.Command {
	var (
		network string
		price   float64
	)
	cmd := &cobra.Command{
		Use:   "bitcoin <address> <amount>",
		Short: "Print a bitcoin: or lightning: URI for a BRL amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			nw := paymentkey.Network(network)
			if !nw.IsValid() {
				return fmt.Errorf("unknown network %q", network)
			}

			q := exchange.Quote{Rate: exchange.Rate{Currency: money.BRL.String(), Price: price, Source: "flag"}}
			if !cmd.Flags().Changed("price") {
				q, err = quote(cmd, opts, money.BRL.String())
				if err != nil {
					return err
				}
			}

			uri, err := bitcoin.Encode(args[0], amount, q.Rate, nw)
			if err != nil {
				return err
			}
			btc, err := bitcoin.CalculateAmount(amount, q.Rate)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printField(w, "uri", payloadColor.Sprint(uri))
			printField(w, "btc", strconv.FormatFloat(btc, 'f', 8, 64))
			printField(w, "price", strconv.FormatFloat(q.Price, 'f', 2, 64)+" "+q.Currency+" ("+q.Source+")")
			if q.IsStale {
				fmt.Fprintln(w, warnColor.Sprintf("quote is stale (%s old)", q.Age))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&network, "network", "n", string(paymentkey.NetworkMainnet), "mainnet|testnet|lightning")
	cmd.Flags().Float64Var(&price, "price", 0, "BTC price in BRL (skips the price feed)")
	return cmd
}

func newPriceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "price [currency]",
		Short: "Print the current BTC price",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			currency := money.BRL.String()
			if len(args) == 1 {
				currency = args[0]
			}
			q, err := quote(cmd, opts, currency)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printField(w, "price", strconv.FormatFloat(q.Price, 'f', 2, 64)+" "+q.Currency)
			printField(w, "source", q.Source)
			printField(w, "at", q.Timestamp.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
