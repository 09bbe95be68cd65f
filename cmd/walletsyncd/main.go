// Copyright 2024 The walletkit Authors
// This file is part of the walletkit library.
//
// The walletkit library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The walletkit library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the walletkit library. If not, see <http://www.gnu.org/licenses/>.

// Command walletsyncd is a demonstration driver for the wallet sync core: it
// derives an HD wallet from a mnemonic, registers it against a chain
// parameter table through package handlers, and drives a ClientSyncManager
// (BRD/indexer mode) against a minimal in-process indexer stub so the whole
// connect/scan/gap-limit-extend state machine can be watched end to end
// without a live network.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
	"gopkg.in/urfave/cli.v1"

	"github.com/brdwallet/walletkit/accounts"
	"github.com/brdwallet/walletkit/chainparams"
	"github.com/brdwallet/walletkit/handlers"
	"github.com/brdwallet/walletkit/log"
	"github.com/brdwallet/walletkit/sync"
)

var (
	mnemonicFlag = cli.StringFlag{
		Name:  "mnemonic",
		Usage: "BIP-39 mnemonic to derive the wallet from (a fresh one is generated if omitted)",
	}
	currencyFlag = cli.StringFlag{
		Name:  "currency",
		Value: "btc",
		Usage: "currency code to register the wallet under",
	}
	networkHeightFlag = cli.Uint64Flag{
		Name:  "network-height",
		Value: 820000,
		Usage: "block height the stub indexer reports as the chain tip",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "walletsyncd"
	app.Usage = "drive the wallet sync core against a stub indexer"
	app.Flags = []cli.Flag{mnemonicFlag, currencyFlag, networkHeightFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Error("walletsyncd exiting", "err", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	mnemonic := ctx.String(mnemonicFlag.Name)
	if mnemonic == "" {
		entropy, err := bip39.NewEntropy(128)
		if err != nil {
			return fmt.Errorf("generating entropy: %w", err)
		}
		mnemonic, err = bip39.NewMnemonic(entropy)
		if err != nil {
			return fmt.Errorf("generating mnemonic: %w", err)
		}
		log.Info("generated fresh mnemonic", "mnemonic", mnemonic)
	}

	wallet, err := accounts.NewHDWallet(mnemonic, "", &chaincfg.MainNetParams)
	if err != nil {
		return fmt.Errorf("deriving wallet: %w", err)
	}

	registry := handlers.NewRegistry()
	currency := ctx.String(currencyFlag.Name)
	registry.Register(handlers.Handler{
		Currency:    currency,
		ChainParams: chainparams.MainNet,
		Wallet:      wallet,
	})
	h := registry.MustGet(currency)

	sink := sync.SinkFunc(func(e sync.Event) {
		log.Info("sync event", "kind", e.Kind, "height", e.Height, "percent", e.Percent, "reason", e.Reason)
	})

	indexer := newStubIndexer(ctx.Uint64(networkHeightFlag.Name))
	manager := sync.NewClientManager(h.Wallet, h.ChainParams, indexer, sink, time.Now().Unix(), 0)
	indexer.client = manager.Client()

	manager.Connect()
	for _, acc := range wallet.Addresses() {
		native, _ := acc.Native()
		log.Info("derived address", "chain", acc.Chain, "index", acc.Index, "native", native)
	}

	return nil
}
