// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the vault and the tokens it moves.
// It follows the flow as bellow:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ kv batch ] -> [ kv store ]
//	          |
//	     [ lru cache ]
//	          |
//	   [ read-only kv ]
//
// Every call into the vault takes a checkpoint and reverts to it on failure,
// which gives the all-or-nothing semantic of a single call.
package state
