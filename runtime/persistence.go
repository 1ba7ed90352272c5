// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/json"

	"github.com/etrid/asf/authority"
)

// Storage key prefixes. Grounded on the teacher's engine/dag/state
// serializer, which keys raw IDs directly into a single flat
// database.Database rather than using column families.
var (
	keyValidators          = []byte("asf/runtime/validators")
	keyCommittee           = []byte("asf/runtime/committee")
	keyCurrentEpoch        = []byte("asf/runtime/current_epoch")
	keyNextEpochValidators = []byte("asf/runtime/next_epoch_validators")
)

// persistLocked writes the mutable top-level state to the backing
// database. It must be called with s.mu held for writing. Persistence
// failures are swallowed (matching the teacher's fire-and-forget
// storage style elsewhere); the in-memory state remains authoritative
// for the running process, and the extrinsic itself has already
// succeeded or failed on its own terms.
func (s *Store) persistLocked() {
	if s.db == nil {
		return
	}
	validators := make([]ValidatorInfo, 0, len(s.validators))
	for _, v := range s.validators {
		validators = append(validators, v)
	}
	if b, err := json.Marshal(validators); err == nil {
		_ = s.db.Put(keyValidators, b)
	}
	if b, err := json.Marshal(s.committee); err == nil {
		_ = s.db.Put(keyCommittee, b)
	}
	if b, err := json.Marshal(s.currentEpoch); err == nil {
		_ = s.db.Put(keyCurrentEpoch, b)
	}
	if b, err := json.Marshal(s.nextEpochValidators); err == nil {
		_ = s.db.Put(keyNextEpochValidators, b)
	}
}

// LoadFromDB restores validator, committee, epoch, and next-epoch-set
// state from the backing database, overwriting any genesis seed passed
// to NewStore. Missing keys (fresh database) are left at their current
// values.
func (s *Store) LoadFromDB() error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if has, _ := s.db.Has(keyValidators); has {
		if b, err := s.db.Get(keyValidators); err == nil {
			var validators []ValidatorInfo
			if json.Unmarshal(b, &validators) == nil {
				m := make(map[authority.PublicKey]ValidatorInfo, len(validators))
				for _, v := range validators {
					m[v.Pubkey] = v
				}
				s.validators = m
			}
		}
	}
	if has, _ := s.db.Has(keyCommittee); has {
		if b, err := s.db.Get(keyCommittee); err == nil {
			var committee []authority.PublicKey
			if json.Unmarshal(b, &committee) == nil {
				s.committee = committee
			}
		}
	}
	if has, _ := s.db.Has(keyCurrentEpoch); has {
		if b, err := s.db.Get(keyCurrentEpoch); err == nil {
			var epoch uint64
			if json.Unmarshal(b, &epoch) == nil {
				s.currentEpoch = epoch
			}
		}
	}
	if has, _ := s.db.Has(keyNextEpochValidators); has {
		if b, err := s.db.Get(keyNextEpochValidators); err == nil {
			var next []authority.PublicKey
			if json.Unmarshal(b, &next) == nil {
				s.nextEpochValidators = next
			}
		}
	}
	return nil
}
