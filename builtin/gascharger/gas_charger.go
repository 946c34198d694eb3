// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"errors"
	"fmt"

	"github.com/vechain/lockvault/thor"
)

// ErrOutOfGas is returned once a call exceeds its budget.
var ErrOutOfGas = errors.New("out of gas")

type Charger struct {
	limit          uint64
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	transferOps    uint64
	customGas      uint64
	totalGas       uint64
}

// New creates a charger with the given budget, 0 means unlimited.
func New(limit uint64) *Charger {
	return &Charger{limit: limit}
}

func (c *Charger) Charge(gas uint64) error {
	if c.limit > 0 && (c.totalGas+gas > c.limit || c.totalGas+gas < c.totalGas) {
		c.totalGas = c.limit
		return ErrOutOfGas
	}
	c.totalGas += gas

	switch {
	// Handle multiples and single operations
	case gas%thor.SstoreSetGas == 0 && gas > 0:
		c.sstoreSetOps += gas / thor.SstoreSetGas

	case gas%thor.TransferGas == 0 && gas > 0:
		c.transferOps += gas / thor.TransferGas

	case gas%thor.SstoreResetGas == 0 && gas > 0:
		c.sstoreResetOps += gas / thor.SstoreResetGas

	case gas%thor.SloadGas == 0 && gas > 0:
		c.sloadOps += gas / thor.SloadGas

	default:
		// Unknown/custom gas amount
		c.customGas += gas
	}
	return nil
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | TRANSFER: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*thor.SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*thor.SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*thor.SstoreResetGas,
		c.transferOps,
		c.transferOps*thor.TransferGas,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}
