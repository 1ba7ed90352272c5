// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package committee implements the Committee Manager (spec.md §4.2): PPFA
// committee selection, epoch rotation, and authorized-proposer queries
// backed by an immutable PPFA history.
package committee

import (
	"sort"

	"github.com/etrid/asf/authority"
)

// Member is a single committee seat: the underlying validator plus the
// peer-type and stake it was selected with (spec.md §3 "Committee").
type Member struct {
	Validator authority.Validator
	Index     int // position within the committee ordering
}

// Committee is a bounded, ordered sequence of members for one epoch.
type Committee struct {
	Epoch   uint64
	Members []Member
	// PPFAIndex points at the current proposer within Members.
	PPFAIndex uint32
}

// Len returns the committee size.
func (c Committee) Len() int { return len(c.Members) }

// ProposerAt returns the member expected to propose for ppfaIndex.
func (c Committee) ProposerAt(ppfaIndex uint32) (Member, bool) {
	if c.Len() == 0 {
		return Member{}, false
	}
	return c.Members[int(ppfaIndex)%c.Len()], true
}

// Contains reports whether pubkey currently holds a committee seat.
func (c Committee) Contains(pubkey authority.PublicKey) bool {
	for _, m := range c.Members {
		if m.Validator.PublicKey == pubkey {
			return true
		}
	}
	return false
}

// Select deterministically builds a committee from an authority set: filter
// by minimum reputation, sort by stake descending (tie-break by public key
// lexicographically), and take the first min(targetSize, available)
// (spec.md §4.2 "Selection").
func Select(set authority.Set, targetSize int, minReputation uint32) []Member {
	eligible := make([]authority.Validator, 0, set.Len())
	for _, v := range set.Members {
		if v.Reputation >= minReputation {
			eligible = append(eligible, v)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Stake != eligible[j].Stake {
			return eligible[i].Stake > eligible[j].Stake
		}
		return lessPubkey(eligible[i].PublicKey, eligible[j].PublicKey)
	})

	n := targetSize
	if n > len(eligible) {
		n = len(eligible)
	}

	members := make([]Member, n)
	for i := 0; i < n; i++ {
		members[i] = Member{Validator: eligible[i], Index: i}
	}
	return members
}

func lessPubkey(a, b authority.PublicKey) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
