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

package viewport

// MaxScrollableHeight is the platform-safe upper bound on a scrollable
// container's natural pixel height (spec section 4.4, "Scroll
// virtualization": "~10M pixels is a safe upper bound").
const MaxScrollableHeight = 10_000_000.0

// contentHeight returns the published (possibly compressed) container
// height and the scroll ratio applied to reach it. scrollRatio is 1 when
// the natural height already fits under MaxScrollableHeight.
func contentHeight(totalRows int, rowHeight, headerHeight float64) (published, scrollRatio float64) {
	natural := float64(totalRows)*rowHeight + headerHeight
	if natural > MaxScrollableHeight {
		return MaxScrollableHeight, MaxScrollableHeight / natural
	}
	return natural, 1
}

// effectiveScrollTop converts a scroll position reported in virtual
// (compressed) coordinates back into natural coordinates.
func effectiveScrollTop(reportedScrollTop, scrollRatio float64) float64 {
	if scrollRatio >= 1 {
		return reportedScrollTop
	}
	return reportedScrollTop / scrollRatio
}

// translateY computes rowIndex's vertical offset in virtual-container
// coordinates (spec section 4.4's literal formula). When scrollRatio is
// 1 this is simply the natural position.
func translateY(rowIndex int, rowHeight, headerHeight, effScrollTop, scrollRatio float64) float64 {
	naturalY := float64(rowIndex)*rowHeight + headerHeight
	if scrollRatio < 1 {
		return naturalY - (effScrollTop - effScrollTop*scrollRatio)
	}
	return naturalY
}
