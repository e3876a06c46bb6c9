package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/da-committer/da-committer/connector/avail"
	"github.com/da-committer/da-committer/connector/evm"
	"github.com/da-committer/da-committer/util"
)

const (
	defaultEVMRPCAddr    = "http://127.0.0.1:8545"
	defaultAvailRPCAddr  = "ws://127.0.0.1:9944"
	defaultRollupRPCAddr = "http://127.0.0.1:9545"
)

type EVMConfig struct {
	RPCAddr            string `long:"rpcaddr" description:"JSON-RPC endpoint of the execution client blobs are posted to"`
	PrivateKey         string `long:"privatekey" description:"Hex encoded secp256k1 key of the submitting account"`
	InboxAddress       string `long:"inboxaddress" description:"Address blob transactions are sent to"`
	ProbeDepth         uint32 `long:"probedepth" description:"Number of blocks after the submission height scanned for the transaction"`
	FinalizedCacheSize int    `long:"finalizedcachesize" description:"Number of finalized blocks kept in memory"`
	GasLimit           uint64 `long:"gaslimit" description:"Gas limit of each blob transaction"`
}

func DefaultEVMConfig() EVMConfig {
	return EVMConfig{
		RPCAddr:            defaultEVMRPCAddr,
		ProbeDepth:         evm.DefaultProbeDepth,
		FinalizedCacheSize: evm.DefaultFinalizedCacheSize,
		GasLimit:           evm.DefaultGasLimit,
	}
}

func (c *EVMConfig) Validate() error {
	if c.RPCAddr == "" {
		return fmt.Errorf("rpc address cannot be empty")
	}
	if c.InboxAddress != "" && !common.IsHexAddress(c.InboxAddress) {
		return fmt.Errorf("invalid inbox address %q", c.InboxAddress)
	}
	if c.PrivateKey != "" {
		if _, err := util.ParsePrivKeyHex(c.PrivateKey); err != nil {
			return fmt.Errorf("invalid private key: %w", err)
		}
	}
	if c.FinalizedCacheSize <= 0 {
		return fmt.Errorf("finalized cache size must be positive, got %d", c.FinalizedCacheSize)
	}

	return nil
}

func (c *EVMConfig) ToConnectorConfig() evm.Config {
	return evm.Config{
		Inbox:              common.HexToAddress(c.InboxAddress),
		ProbeDepth:         c.ProbeDepth,
		FinalizedCacheSize: c.FinalizedCacheSize,
		GasLimit:           c.GasLimit,
	}
}

type AvailConfig struct {
	RPCAddr     string `long:"rpcaddr" description:"RPC endpoint of the Avail node"`
	AppID       uint32 `long:"appid" description:"Application id data is submitted under"`
	GraceWindow uint32 `long:"gracewindow" description:"Number of blocks an unknown transaction is still considered in flight"`
}

func DefaultAvailConfig() AvailConfig {
	return AvailConfig{
		RPCAddr:     defaultAvailRPCAddr,
		AppID:       avail.DefaultAppID,
		GraceWindow: avail.DefaultGraceWindow,
	}
}

func (c *AvailConfig) Validate() error {
	if c.RPCAddr == "" {
		return fmt.Errorf("rpc address cannot be empty")
	}

	return nil
}

func (c *AvailConfig) ToConnectorConfig() avail.Config {
	return avail.Config{
		AppID:       c.AppID,
		GraceWindow: c.GraceWindow,
	}
}

type RollupConfig struct {
	RPCAddr string `long:"rpcaddr" description:"JSON-RPC endpoint of the rollup node the latest height is read from"`
}

func DefaultRollupConfig() RollupConfig {
	return RollupConfig{RPCAddr: defaultRollupRPCAddr}
}

func (c *RollupConfig) Validate() error {
	if c.RPCAddr == "" {
		return fmt.Errorf("rpc address cannot be empty")
	}

	return nil
}
