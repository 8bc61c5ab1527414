package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/safe"
)

// outputDecoder resolves the token and destination address of a single output.
type outputDecoder struct {
	scripts ScriptDecoder
	tokens  chain.TokenDecoder
}

// decode returns false for outputs that do not pay to an address.
func (d outputDecoder) decode(pkScript []byte, value uint64, index uint32) (model.RawOutput, bool, error) {
	token, script, err := d.tokens.Decode(pkScript)
	if err != nil {
		return model.RawOutput{}, false, err
	}
	address, err := d.scripts.DecodeAddress(script)
	if err != nil {
		return model.RawOutput{}, false, err
	}
	if address == "" {
		return model.RawOutput{}, false, nil
	}
	return model.RawOutput{
		Address:     address,
		Value:       value,
		Token:       token,
		OutputIndex: index,
	}, true, nil
}

// txConverter converts verbose rpc transactions to domain transactions.
type txConverter struct {
	outputs outputDecoder
}

// NewTxConverter constructs a converter for verbose block transactions.
func NewTxConverter(scripts ScriptDecoder, tokens chain.TokenDecoder) TxConverter {
	return &txConverter{outputs: outputDecoder{scripts: scripts, tokens: tokens}}
}

func (c *txConverter) Convert(tx btcjson.TxRawResult) (model.RawTransaction, error) {
	inputs := make([]model.RawInput, 0, len(tx.Vin))
	for _, vin := range tx.Vin {
		if vin.IsCoinBase() {
			continue
		}
		inputs = append(inputs, model.RawInput{TxID: vin.Txid, OutputIndex: vin.Vout})
	}

	outputs := make([]model.RawOutput, 0, len(tx.Vout))
	for idx, vout := range tx.Vout {
		value, err := AmountFromCoins(vout.Value)
		if err != nil {
			return model.RawTransaction{}, fmt.Errorf("tx %s output %d value: %w", tx.Txid, idx, err)
		}
		script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
		if err != nil {
			return model.RawTransaction{}, fmt.Errorf("tx %s output %d script hex: %w", tx.Txid, idx, err)
		}
		out, ok, err := c.outputs.decode(script, value, vout.N)
		if err != nil {
			return model.RawTransaction{}, fmt.Errorf("decode tx %s output %d: %w", tx.Txid, idx, err)
		}
		if ok {
			outputs = append(outputs, out)
		}
	}

	return model.RawTransaction{TxID: tx.Txid, Inputs: inputs, Outputs: outputs}, nil
}

// RawTxDecoder decodes serialized transactions as published by the node's
// rawtx notifications.
type RawTxDecoder struct {
	outputs outputDecoder
}

// NewRawTxDecoder constructs a decoder for serialized transactions.
func NewRawTxDecoder(scripts ScriptDecoder, tokens chain.TokenDecoder) *RawTxDecoder {
	return &RawTxDecoder{outputs: outputDecoder{scripts: scripts, tokens: tokens}}
}

// Decode parses a serialized transaction.
func (d *RawTxDecoder) Decode(raw []byte) (model.RawTransaction, error) {
	var msg wire.MsgTx
	if err := msg.Deserialize(bytes.NewReader(raw)); err != nil {
		return model.RawTransaction{}, fmt.Errorf("deserialize tx: %w", err)
	}
	return d.convert(&msg)
}

func (d *RawTxDecoder) convert(msg *wire.MsgTx) (model.RawTransaction, error) {
	txid := msg.TxHash().String()

	inputs := make([]model.RawInput, 0, len(msg.TxIn))
	for _, in := range msg.TxIn {
		prev := in.PreviousOutPoint
		if prev.Index == wire.MaxPrevOutIndex && prev.Hash == (chainhash.Hash{}) {
			continue
		}
		inputs = append(inputs, model.RawInput{TxID: prev.Hash.String(), OutputIndex: prev.Index})
	}

	outputs := make([]model.RawOutput, 0, len(msg.TxOut))
	for idx, out := range msg.TxOut {
		value, err := safe.Uint64(out.Value)
		if err != nil {
			return model.RawTransaction{}, fmt.Errorf("tx %s output %d value: %w", txid, idx, err)
		}
		index, err := safe.Uint32(idx)
		if err != nil {
			return model.RawTransaction{}, fmt.Errorf("tx %s output index overflow: %w", txid, err)
		}
		decoded, ok, err := d.outputs.decode(out.PkScript, value, index)
		if err != nil {
			return model.RawTransaction{}, fmt.Errorf("decode tx %s output %d: %w", txid, idx, err)
		}
		if ok {
			outputs = append(outputs, decoded)
		}
	}

	return model.RawTransaction{TxID: txid, Inputs: inputs, Outputs: outputs}, nil
}
