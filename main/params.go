// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	versionKey   = "version"
	gasLimitKey  = "gas-limit"
	accountsKey  = "accounts"
	transfersKey = "transfers"
	logLevelKey  = "log-level"
)

type config struct {
	gasLimit  uint64
	accounts  int
	transfers int
	logLevel  string
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("contractkv", flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quit")
	fs.Uint64(gasLimitKey, 1_000_000, "Storage gas budget per contract call")
	fs.Int(accountsKey, 8, "Number of demo accounts")
	fs.Int(transfersKey, 64, "Number of demo transfers to run")
	fs.String(logLevelKey, "info", "Log level for the demo run")

	return fs
}

// getViper returns the viper environment for the demo binary
func getViper() (*viper.Viper, error) {
	v := viper.New()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	return v, nil
}

func getConfig() (config, bool, error) {
	v, err := getViper()
	if err != nil {
		return config{}, false, err
	}

	return config{
		gasLimit:  v.GetUint64(gasLimitKey),
		accounts:  v.GetInt(accountsKey),
		transfers: v.GetInt(transfersKey),
		logLevel:  v.GetString(logLevelKey),
	}, v.GetBool(versionKey), nil
}
