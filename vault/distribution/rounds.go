// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package distribution persists reward rounds and the pins that freeze
// a round's view of the registry while the round is open.
//
// A slot pin records the occupant a registry slot had at round start, taken just before the slot
// is overwritten or vacated. A balance pin records a member's voting power at the round snapshot,
// taken just before the member's lock changes. Pins are written once per round and are ignored
// after the round completes.
package distribution

import (
	"github.com/holiman/uint256"

	"github.com/vechain/lockvault/builtin/solidity"
	"github.com/vechain/lockvault/thor"
)

var (
	slotCounter     = thor.BytesToBytes32([]byte("round-counter"))
	slotRounds      = thor.BytesToBytes32([]byte("rounds"))
	slotOpenSize    = thor.BytesToBytes32([]byte("open-rounds-size"))
	slotOpenIDs     = thor.BytesToBytes32([]byte("open-rounds"))
	slotOpenPos     = thor.BytesToBytes32([]byte("open-rounds-pos"))
	slotSlotPins    = thor.BytesToBytes32([]byte("slot-pins"))
	slotBalancePins = thor.BytesToBytes32([]byte("balance-pins"))
)

// BalancePin is a member's voting power frozen at a round snapshot.
type BalancePin struct {
	Pinned bool
	Amount *uint256.Int
}

type Service struct {
	counter     *solidity.Uint256
	rounds      *solidity.Mapping[solidity.Index, *Round]
	openSize    *solidity.Uint256
	openIDs     *solidity.Mapping[solidity.Index, uint64]
	openPos     *solidity.Mapping[solidity.Index, uint64]
	slotPins    *solidity.Mapping[thor.Bytes32, thor.Address]
	balancePins *solidity.Mapping[thor.Bytes32, *BalancePin]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		counter:     solidity.NewUint256(sctx, slotCounter),
		rounds:      solidity.NewMapping[solidity.Index, *Round](sctx, slotRounds),
		openSize:    solidity.NewUint256(sctx, slotOpenSize),
		openIDs:     solidity.NewMapping[solidity.Index, uint64](sctx, slotOpenIDs),
		openPos:     solidity.NewMapping[solidity.Index, uint64](sctx, slotOpenPos),
		slotPins:    solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotSlotPins),
		balancePins: solidity.NewMapping[thor.Bytes32, *BalancePin](sctx, slotBalancePins),
	}
}

func slotPinKey(roundID, index uint64) thor.Bytes32 {
	return thor.Blake2b(solidity.Index(roundID).Bytes(), solidity.Index(index).Bytes())
}

func balancePinKey(roundID uint64, addr thor.Address) thor.Bytes32 {
	return thor.Blake2b(solidity.Index(roundID).Bytes(), addr.Bytes())
}

// Count returns the number of rounds ever created.
func (s *Service) Count() (uint64, error) {
	n, err := s.counter.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Create assigns the next id to r, stores it and adds it to the open set unless already complete.
func (s *Service) Create(r *Round) (uint64, error) {
	last, err := s.Count()
	if err != nil {
		return 0, err
	}
	r.ID = last + 1
	r.normalize()
	if err := s.counter.Set(uint256.NewInt(r.ID)); err != nil {
		return 0, err
	}
	if err := s.rounds.Set(solidity.Index(r.ID), r, true); err != nil {
		return 0, err
	}
	if !r.Complete() {
		if err := s.open(r.ID); err != nil {
			return 0, err
		}
	}
	return r.ID, nil
}

// Get returns the round with the given id, or nil if there is none.
func (s *Service) Get(id uint64) (*Round, error) {
	if id == 0 {
		return nil, nil
	}
	r, err := s.rounds.Get(solidity.Index(id))
	if err != nil {
		return nil, err
	}
	if !r.Exists() {
		return nil, nil
	}
	r.normalize()
	return r, nil
}

// Save stores the progress of r and closes it once complete.
func (s *Service) Save(r *Round) error {
	if err := s.rounds.Set(solidity.Index(r.ID), r, false); err != nil {
		return err
	}
	if r.Complete() {
		return s.close(r.ID)
	}
	return nil
}

// Open returns the incomplete rounds.
func (s *Service) Open() ([]*Round, error) {
	size, err := s.openSize.Get()
	if err != nil {
		return nil, err
	}
	rounds := make([]*Round, 0, size.Uint64())
	for i := range size.Uint64() {
		id, err := s.openIDs.Get(solidity.Index(i))
		if err != nil {
			return nil, err
		}
		r, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, nil
}

func (s *Service) open(id uint64) error {
	size, err := s.openSize.Get()
	if err != nil {
		return err
	}
	n := size.Uint64()
	if err := s.openIDs.Set(solidity.Index(n), id, true); err != nil {
		return err
	}
	if err := s.openPos.Set(solidity.Index(id), n+1, true); err != nil {
		return err
	}
	return s.openSize.Set(uint256.NewInt(n + 1))
}

func (s *Service) close(id uint64) error {
	pos, err := s.openPos.Get(solidity.Index(id))
	if err != nil || pos == 0 {
		return err
	}
	size, err := s.openSize.Get()
	if err != nil {
		return err
	}
	last := size.Uint64() - 1
	if pos-1 != last {
		moved, err := s.openIDs.Get(solidity.Index(last))
		if err != nil {
			return err
		}
		if err := s.openIDs.Set(solidity.Index(pos-1), moved, false); err != nil {
			return err
		}
		if err := s.openPos.Set(solidity.Index(moved), pos, false); err != nil {
			return err
		}
	}
	if err := s.openIDs.Delete(solidity.Index(last)); err != nil {
		return err
	}
	if err := s.openPos.Delete(solidity.Index(id)); err != nil {
		return err
	}
	return s.openSize.Set(uint256.NewInt(last))
}

// PinSlot records occupant as the round-start member at index, unless a pin already exists.
func (s *Service) PinSlot(roundID, index uint64, occupant thor.Address) error {
	key := slotPinKey(roundID, index)
	pinned, err := s.slotPins.Get(key)
	if err != nil || !pinned.IsZero() {
		return err
	}
	return s.slotPins.Set(key, occupant, true)
}

// PinnedSlot returns the pinned member at index, if any.
func (s *Service) PinnedSlot(roundID, index uint64) (thor.Address, bool, error) {
	pinned, err := s.slotPins.Get(slotPinKey(roundID, index))
	if err != nil {
		return thor.Address{}, false, err
	}
	return pinned, !pinned.IsZero(), nil
}

// HasBalancePin reports whether addr's snapshot balance is pinned in the round.
func (s *Service) HasBalancePin(roundID uint64, addr thor.Address) (bool, error) {
	pin, err := s.balancePins.Get(balancePinKey(roundID, addr))
	if err != nil {
		return false, err
	}
	return pin.Pinned, nil
}

// PinBalance records amount as addr's snapshot balance, unless a pin already exists.
func (s *Service) PinBalance(roundID uint64, addr thor.Address, amount *uint256.Int) error {
	if ok, err := s.HasBalancePin(roundID, addr); err != nil || ok {
		return err
	}
	return s.balancePins.Set(balancePinKey(roundID, addr), &BalancePin{Pinned: true, Amount: amount}, true)
}

// PinnedBalance returns the pinned snapshot balance of addr, if any.
func (s *Service) PinnedBalance(roundID uint64, addr thor.Address) (*uint256.Int, bool, error) {
	pin, err := s.balancePins.Get(balancePinKey(roundID, addr))
	if err != nil {
		return nil, false, err
	}
	if !pin.Pinned {
		return nil, false, nil
	}
	if pin.Amount == nil {
		return new(uint256.Int), true, nil
	}
	return pin.Amount, true, nil
}
