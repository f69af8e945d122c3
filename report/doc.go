// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report renders tallies as console text. Numbers go through
// go-humanize so large weighted totals get digit grouping.
package report
