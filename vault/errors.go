// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/lockvault/builtin/reverts"
	"github.com/vechain/lockvault/token"
	"github.com/vechain/lockvault/vault/registry"
)

var (
	ErrBelowMinimum             = reverts.New("amount below minimum lock amount")
	ErrAlreadyLocked            = reverts.New("caller already has an active lock")
	ErrNoActiveLock             = reverts.New("no active lock")
	ErrLockExpired              = reverts.New("lock has expired")
	ErrStillLocked              = reverts.New("tokens are still locked")
	ErrNothingToClaim           = reverts.New("nothing to claim")
	ErrGracePeriodNotElapsed    = reverts.New("emergency grace period not elapsed")
	ErrNoRewardsAvailable       = reverts.New("no rewards available")
	ErrNoVotingPower            = reverts.New("no voting power")
	ErrInsufficientTokenBalance = reverts.New("vault token balance below available rewards")
	ErrRoundAlreadyComplete     = reverts.New("round already complete")
	ErrUnknownRound             = reverts.New("unknown round")
	ErrUnknownRewardToken       = reverts.New("unknown reward token")
	ErrCannotWithdrawReserved   = reverts.New("cannot withdraw reserved rewards")
	ErrCannotWithdrawLockToken  = reverts.New("cannot withdraw the lock token")
	ErrNothingToWithdraw        = reverts.New("nothing to withdraw")
	ErrZeroAddress              = reverts.New("zero address")
	ErrZeroAmount               = reverts.New("zero amount")
	ErrUnauthorized             = reverts.New("unauthorized")
	ErrReentrantCall            = reverts.New("reentrant call")
	ErrAlreadyInitialized       = reverts.New("vault already initialized")
	ErrNotInitialized           = reverts.New("vault not initialized")

	ErrCapacityExceeded = registry.ErrCapacityExceeded
	ErrRegistryFull     = ErrCapacityExceeded

	ErrInsufficientBalance   = token.ErrInsufficientBalance
	ErrInsufficientAllowance = token.ErrInsufficientAllowance
)
