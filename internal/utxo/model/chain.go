package model

import (
	"errors"
	"fmt"
	"strings"
)

// Coin names the asset family a process watches, for example BTC or BCH.
type Coin string

// Network is a canonical network name.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)

// ParseNetwork maps node-style aliases onto canonical network names.
func ParseNetwork(value string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "main", "mainnet", "bitcoin":
		return Mainnet, nil
	case "test", "testnet", "testnet3":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	case "signet":
		return Signet, nil
	default:
		return "", fmt.Errorf("unsupported network %q", value)
	}
}

// UnmarshalFlag lets command line parsers accept network aliases.
func (n *Network) UnmarshalFlag(value string) error {
	parsed, err := ParseNetwork(value)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// UnmarshalFlag upper-cases the coin ticker.
func (c *Coin) UnmarshalFlag(value string) error {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return errors.New("coin is empty")
	}
	*c = Coin(value)
	return nil
}

// Chain identifies the node a process talks to.
type Chain struct {
	Coin    Coin
	Network Network
}

// Label renders the chain as a metric label, e.g. "btc/mainnet".
func (c Chain) Label() string {
	coin, network := strings.ToLower(string(c.Coin)), string(c.Network)
	if coin == "" {
		coin = "unknown"
	}
	if network == "" {
		network = "unknown"
	}
	return coin + "/" + network
}
