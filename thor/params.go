// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Step costs charged against the per-call budget.
const (
	SloadGas       uint64 = 200   // EIP158 gas table
	SstoreSetGas   uint64 = 20000 // EIP158 gas table
	SstoreResetGas uint64 = 5000  // EIP158 gas table
	TransferGas    uint64 = 9000  // a token movement, on top of its storage costs

	// DefaultCallGasLimit is the step budget of a single vault call.
	DefaultCallGasLimit uint64 = 10_000_000
)
