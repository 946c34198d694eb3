// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/lockvault/vault"
)

const paramsFile = "params.yaml"

// decodeParams overlays the YAML document in data on the default params.
func decodeParams(data []byte) (vault.Params, error) {
	params := vault.DefaultParams()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return vault.Params{}, errors.Wrap(err, "decode params")
	}
	if err := params.Validate(); err != nil {
		return vault.Params{}, err
	}
	return params, nil
}

// loadParams reads params from path. An empty path yields the defaults.
func loadParams(path string) (vault.Params, error) {
	if path == "" {
		return vault.DefaultParams(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return vault.Params{}, errors.Wrap(err, "read params")
	}
	return decodeParams(data)
}

func saveParams(path string, params vault.Params) error {
	data, err := yaml.Marshal(&params)
	if err != nil {
		return errors.Wrap(err, "encode params")
	}
	return errors.Wrap(os.WriteFile(path, data, 0600), "write params")
}
