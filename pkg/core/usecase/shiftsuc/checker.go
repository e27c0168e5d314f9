// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package shiftsuc

import (
	"context"
	"fmt"
	"sort"

	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"golang.org/x/sync/errgroup"
)

// Checker decides whether a candidate interval overlaps any existing
// shift of a taxi or a driver. It never writes to the store.
//
// The overlap test needs two range predicates on two different fields
// (existing.Start < candidate.End and existing.End > candidate.Start)
// which the store cannot express as one query. So Checker fetches the
// shifts which end after the candidate start and the shifts which start
// before the candidate end, merges them by ID, and runs the exact test
// in memory.
type Checker struct {
	pool   repo.Pool
	shifts repo.Shifts
}

// NewChecker instantiates a Checker.
func NewChecker(p repo.Pool, s repo.Shifts) *Checker {
	return &Checker{pool: p, shifts: s}
}

// Check reports whether some shift of the id resource, other than the
// excludeID shift, overlaps iv. The excludeID may be empty.
// Both superset queries are issued concurrently, each on its own
// pooled connection.
func (ch *Checker) Check(
	ctx context.Context,
	r model.Resource, id string,
	iv model.Interval, excludeID string,
) (bool, error) {
	s, err := ch.Find(ctx, r, id, iv, excludeID)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// Find is like Check, but returns the earliest overlapping shift
// (or nil if there is no overlap).
func (ch *Checker) Find(
	ctx context.Context,
	r model.Resource, id string,
	iv model.Interval, excludeID string,
) (*model.Shift, error) {
	var endingAfter, startingBefore []model.Shift
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ch.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
			endingAfter, err = ch.shifts.Conn(c).EndingAfter(ctx, r, id, iv.Start)
			return err
		})
	})
	g.Go(func() error {
		return ch.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
			startingBefore, err = ch.shifts.Conn(c).StartingBefore(ctx, r, id, iv.End)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("querying %s %q shifts: %w", r, id, err)
	}
	return firstOverlap(iv, excludeID, endingAfter, startingBefore), nil
}

// findTx runs the Find algorithm on a transaction. The two queries are
// issued one after the other since a Tx may not be used concurrently.
func findTx(
	ctx context.Context,
	q repo.ShiftsTxQueryer,
	r model.Resource, id string,
	iv model.Interval, excludeID string,
) (*model.Shift, error) {
	endingAfter, err := q.EndingAfter(ctx, r, id, iv.Start)
	if err != nil {
		return nil, fmt.Errorf("querying %s %q shifts: %w", r, id, err)
	}
	startingBefore, err := q.StartingBefore(ctx, r, id, iv.End)
	if err != nil {
		return nil, fmt.Errorf("querying %s %q shifts: %w", r, id, err)
	}
	return firstOverlap(iv, excludeID, endingAfter, startingBefore), nil
}

// firstOverlap deduplicates the given shift sets by their IDs, ignores
// the excludeID shift, and returns the earliest shift which overlaps iv.
func firstOverlap(
	iv model.Interval, excludeID string, sets ...[]model.Shift,
) *model.Shift {
	seen := make(map[string]bool)
	var hits []model.Shift
	for _, set := range sets {
		for _, s := range set {
			if s.ID == excludeID || seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			if iv.Overlaps(s.Interval()) {
				hits = append(hits, s)
			}
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Start.Before(hits[j].Start)
	})
	return &hits[0]
}
