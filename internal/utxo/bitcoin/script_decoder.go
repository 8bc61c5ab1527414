package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
)

var networkParams = map[model.Network]*chaincfg.Params{
	model.Mainnet: &chaincfg.MainNetParams,
	model.Testnet: &chaincfg.TestNet3Params,
	model.Regtest: &chaincfg.RegressionNetParams,
	model.Signet:  &chaincfg.SigNetParams,
}

type scriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder builds a decoder that renders addresses with the
// encoding of network. Aliases such as "bitcoin" or "testnet3" are accepted.
func NewScriptDecoder(network model.Network) (ScriptDecoder, error) {
	params, err := paramsFor(network)
	if err != nil {
		return nil, err
	}
	return &scriptDecoder{params: params}, nil
}

// DecodeAddress returns the address a locking script pays to. Scripts
// without a recipient address, such as OP_RETURN or non-standard ones,
// yield an empty string and no error.
func (d *scriptDecoder) DecodeAddress(pkScript []byte) (string, error) {
	if len(pkScript) == 0 {
		return "", nil
	}
	class, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, d.params)
	if err != nil {
		return "", fmt.Errorf("extract %s script addresses: %w", class, err)
	}
	if class == txscript.NullDataTy || len(addrs) == 0 {
		return "", nil
	}
	return addrs[0].EncodeAddress(), nil
}

func paramsFor(network model.Network) (*chaincfg.Params, error) {
	canonical, err := model.ParseNetwork(string(network))
	if err != nil {
		return nil, err
	}
	params, ok := networkParams[canonical]
	if !ok {
		return nil, fmt.Errorf("no chain params for %s", canonical)
	}
	return params, nil
}
