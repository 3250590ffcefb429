// Package internal holds iterator helpers shared by the risa16 packages.
package internal

import (
	"iter"
	"maps"
	"slices"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// SortedDefines collects a define sequence, later definitions replacing
// earlier ones, and iterates over it in name order.
func SortedDefines(seq iter.Seq2[string, string]) iter.Seq2[string, string] {
	defines := maps.Collect(seq)
	return func(yield func(string, string) bool) {
		for _, name := range slices.Sorted(maps.Keys(defines)) {
			if !yield(name, defines[name]) {
				return
			}
		}
	}
}
