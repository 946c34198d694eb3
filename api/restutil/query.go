// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vechain/lockvault/thor"
)

// QueryUint parses the named query parameter, returning def when absent.
func QueryUint(r *http.Request, name string, def uint64) (uint64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// OptionalUint parses the named query parameter, returning nil when absent.
func OptionalUint(r *http.Request, name string) (*uint64, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	v, err := QueryUint(r, name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseAddress parses an address path or query value.
func ParseAddress(name, s string) (thor.Address, error) {
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}
