// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package store

import "github.com/sneller-grid/gridcore"

// GetDistinctValues returns every non-null value ever observed in field
// (spec section 4.1, Testable Property 5: "distinct-value monotonicity").
// A field is indexed lazily: the first request scans every live row; the
// set is then tracked and kept up to date (add-only) by subsequent
// AddRows/UpdateCell calls, matching the store's copying-accessor rule
// in spec section 5 ("Shared resources").
func (s *Store) GetDistinctValues(field string) []gridcore.Value {
	set, ok := s.distinctValues[field]
	if !ok {
		set = s.scanDistinct(field)
		s.distinctValues[field] = set
		s.trackedFields[field] = true
	}
	out := make([]gridcore.Value, 0, len(set))
	for _, v := range set {
		out = append(out, v)
	}
	return out
}

func (s *Store) scanDistinct(field string) map[string]gridcore.Value {
	set := make(map[string]gridcore.Value)
	for _, r := range s.rows {
		if r == nil || r.tombstone {
			continue
		}
		v := s.getField(r.data, field)
		if !v.IsNull() {
			set[v.Key()] = v
		}
	}
	return set
}

// noteDistinctForRow updates every already-tracked field's distinct set
// with row's value (used on insert, since any tracked field may apply to
// a newly added row).
func (s *Store) noteDistinctForRow(row any) {
	for f := range s.trackedFields {
		v := s.getField(row, f)
		if !v.IsNull() {
			s.distinctValues[f][v.Key()] = v
		}
	}
}

// noteDistinct records a single field/value observation (used on
// UpdateCell, where only one field changed). A no-op if field isn't
// tracked yet — it will be picked up by a full scan on first request.
func (s *Store) noteDistinct(field string, v gridcore.Value) {
	if v.IsNull() || !s.trackedFields[field] {
		return
	}
	s.distinctValues[field][v.Key()] = v
}
