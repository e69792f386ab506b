// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Demo binary exercising the contractkv collections: runs the example token
// contract through the runtime over an in-memory database.
package main

import (
	"fmt"
	"math/rand"
	"os"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"

	"github.com/ava-labs/contractkv/collections"
	"github.com/ava-labs/contractkv/examples/token"
	"github.com/ava-labs/contractkv/runtime"
)

const name = "contractkv"

var semver = version.NewDefaultVersion(1, 0, 0)

func main() {
	cfg, printVersion, err := getConfig()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	if printVersion {
		fmt.Printf("%s@%s\n", name, semver)
		os.Exit(0)
	}

	logLevel, err := log.LvlFromString(cfg.logLevel)
	if err != nil {
		fmt.Printf("invalid log level: %s\n", err)
		os.Exit(1)
	}
	log.Root().SetHandler(log.LvlFilterHandler(logLevel, log.StreamHandler(os.Stdout, log.TerminalFormat())))

	if err := run(cfg); err != nil {
		log.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	rt := runtime.New(memdb.New(), collections.Gas(cfg.gasLimit))
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error("error closing runtime", "error", err)
		}
	}()

	accounts := make([]ids.ShortID, cfg.accounts)
	for i := range accounts {
		accounts[i] = ids.ShortID{byte(i + 1)}
	}
	const totalSupply = 1_000_000

	err := rt.Initialize(func(ctx *runtime.Context) error {
		return token.New(ctx.Store, ctx.Codec).Initialize(accounts[0], totalSupply)
	})
	if err != nil {
		return err
	}
	log.Info("token initialized", "owner", accounts[0], "supply", uint64(totalSupply))

	rng := rand.New(rand.NewSource(0))
	for i := 0; i < cfg.transfers; i++ {
		from := accounts[rng.Intn(len(accounts))]
		to := accounts[rng.Intn(len(accounts))]
		amount := uint64(rng.Intn(1000) + 1)

		err := rt.Call("transfer", func(ctx *runtime.Context) error {
			return token.New(ctx.Store, ctx.Codec).Transfer(from, to, amount)
		})
		if err != nil {
			// Underfunded transfers are expected in a random workload.
			log.Debug("transfer rejected", "from", from, "to", to, "amount", amount, "error", err)
		}
	}

	return rt.Call("report", func(ctx *runtime.Context) error {
		tok := token.New(ctx.Store, ctx.Codec)
		supply, err := tok.TotalSupply()
		if err != nil {
			return err
		}
		holders, err := tok.HolderCount()
		if err != nil {
			return err
		}
		log.Info("final state", "supply", supply, "holders", holders)

		iter := tok.Holders()
		for iter.Next() {
			log.Info("balance", "account", iter.Key(), "amount", iter.Value())
		}
		return iter.Error()
	})
}
