// Package catchstats computes derived facts from a list of catches. Every function is pure
// and returns a zero value for empty input.
package catchstats

import (
	"cmp"
	"slices"
	"strings"

	"fishlog/models"
)

// Count pairs a distinct value with the number of catches it appears in.
type Count[T cmp.Ordered] struct {
	Value T   `json:"value"`
	Count int `json:"count"`
}

func countBy[T cmp.Ordered](catches []models.Catch, pick func(models.Catch) (T, bool)) []Count[T] {
	counts := make(map[T]int)
	for _, c := range catches {
		if v, ok := pick(c); ok {
			counts[v]++
		}
	}
	out := make([]Count[T], 0, len(counts))
	for v, n := range counts {
		out = append(out, Count[T]{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b Count[T]) int { return cmp.Compare(a.Value, b.Value) })
	return out
}

func values[T cmp.Ordered](counts []Count[T]) []T {
	out := make([]T, len(counts))
	for i, c := range counts {
		out[i] = c.Value
	}
	return out
}

func nonEmpty(s string) (string, bool) { return s, strings.TrimSpace(s) != "" }

func positive(f float64) (float64, bool) { return f, f > 0 }

func SpeciesCounts(catches []models.Catch) []Count[string] {
	return countBy(catches, func(c models.Catch) (string, bool) { return nonEmpty(c.Species) })
}

func LureCounts(catches []models.Catch) []Count[string] {
	return countBy(catches, func(c models.Catch) (string, bool) { return nonEmpty(c.Lure) })
}

func BodyOfWaterCounts(catches []models.Catch) []Count[string] {
	return countBy(catches, func(c models.Catch) (string, bool) { return nonEmpty(c.Location.BodyOfWater) })
}

func SpotCounts(catches []models.Catch) []Count[string] {
	return countBy(catches, func(c models.Catch) (string, bool) { return nonEmpty(c.Location.Spot) })
}

func UniqueSpecies(catches []models.Catch) []string { return values(SpeciesCounts(catches)) }

func UniqueLures(catches []models.Catch) []string { return values(LureCounts(catches)) }

func UniqueBodiesOfWater(catches []models.Catch) []string { return values(BodyOfWaterCounts(catches)) }

func UniqueSpots(catches []models.Catch) []string { return values(SpotCounts(catches)) }

// UniqueLengths returns distinct measured lengths in ascending order.
func UniqueLengths(catches []models.Catch) []float64 {
	return values(countBy(catches, func(c models.Catch) (float64, bool) { return positive(c.Length) }))
}

// UniqueWeights returns distinct recorded weights in ascending order.
func UniqueWeights(catches []models.Catch) []float64 {
	return values(countBy(catches, func(c models.Catch) (float64, bool) { return positive(c.Weight) }))
}

// SpeciesTotal counts catches whose species matches exactly.
func SpeciesTotal(catches []models.Catch, species string) int {
	n := 0
	for _, c := range catches {
		if c.Species == species {
			n++
		}
	}
	return n
}

// MaxWeight returns the heaviest recorded weight, or 0.
func MaxWeight(catches []models.Catch) float64 {
	w := UniqueWeights(catches)
	if len(w) == 0 {
		return 0
	}
	return w[len(w)-1]
}

// SmallestLength returns the shortest recorded length, or 0 when nothing was measured.
func SmallestLength(catches []models.Catch) float64 {
	l := UniqueLengths(catches)
	if len(l) == 0 {
		return 0
	}
	return l[0]
}

// HeaviestOfSpecies returns the heaviest weight among catches of exactly that species.
func HeaviestOfSpecies(catches []models.Catch, species string) float64 {
	var heaviest float64
	for _, c := range catches {
		if c.Species == species && c.Weight > heaviest {
			heaviest = c.Weight
		}
	}
	return heaviest
}

func CountWithImages(catches []models.Catch) int {
	n := 0
	for _, c := range catches {
		if len(c.Images) > 0 {
			n++
		}
	}
	return n
}

func CountWithComments(catches []models.Catch) int {
	n := 0
	for _, c := range catches {
		if strings.TrimSpace(c.Comment) != "" {
			n++
		}
	}
	return n
}
