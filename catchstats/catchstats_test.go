package catchstats

import (
	"testing"

	"fishlog/models"

	"github.com/stretchr/testify/assert"
)

func catchOn(date, clock string) models.Catch {
	return models.Catch{Species: "Perch", Date: date, Time: clock}
}

func TestEmptyInput(t *testing.T) {
	assert.Empty(t, UniqueSpecies(nil))
	assert.Empty(t, UniqueLures(nil))
	assert.Empty(t, UniqueBodiesOfWater(nil))
	assert.Empty(t, UniqueSpots(nil))
	assert.Empty(t, UniqueLengths(nil))
	assert.Empty(t, UniqueWeights(nil))
	assert.Zero(t, SpeciesTotal(nil, "Pike"))
	assert.Zero(t, LongestFishingStreak(nil))
	assert.Zero(t, UniqueSeasonsCount(nil))
	assert.Zero(t, ResolveTimeframeCatches(nil, 5, 0))
	assert.Zero(t, UniqueSpotsByDistance(nil, 200))
	assert.Zero(t, MaxWeight(nil))
	assert.Zero(t, SmallestLength(nil))
	assert.Zero(t, CountWithImages(nil))
	assert.Zero(t, CountWithComments(nil))
}

func TestUniqueValuesAreSortedAndCaseSensitive(t *testing.T) {
	catches := []models.Catch{
		{Species: "Pike", Lure: "Spoon", Weight: 2.5, Length: 60},
		{Species: "perch", Lure: "", Weight: 0.3, Length: 20},
		{Species: "Perch", Lure: "Jig", Weight: 0, Length: 0},
		{Species: "Pike", Lure: "Spoon", Weight: 2.5, Length: 61},
		{Species: "", Lure: "  "},
	}

	assert.Equal(t, []string{"Perch", "Pike", "perch"}, UniqueSpecies(catches))
	assert.Equal(t, []string{"Jig", "Spoon"}, UniqueLures(catches))
	assert.Equal(t, []float64{0.3, 2.5}, UniqueWeights(catches))
	assert.Equal(t, []float64{20, 60, 61}, UniqueLengths(catches))
	assert.Equal(t, []Count[string]{{"Perch", 1}, {"Pike", 2}, {"perch", 1}}, SpeciesCounts(catches))
	assert.Equal(t, 2, SpeciesTotal(catches, "Pike"))
	assert.Equal(t, 2.5, MaxWeight(catches))
	assert.Equal(t, 20.0, SmallestLength(catches))
	assert.Equal(t, 2.5, HeaviestOfSpecies(catches, "Pike"))
	assert.Zero(t, HeaviestOfSpecies(catches, "Zander"))
}

func TestLongestFishingStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"single day", []string{"2024-05-01"}, 1},
		{"gap", []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-10"}, 3},
		{"same day counts once", []string{"2024-05-01", "2024-05-01", "2024-05-02"}, 2},
		{"unsorted", []string{"2024-05-03", "2024-05-01", "2024-05-02"}, 3},
		{"month boundary", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, 3},
		{"year boundary", []string{"2023-12-31", "2024-01-01"}, 2},
		{"invalid dates ignored", []string{"nope", "2024-05-01"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var catches []models.Catch
			for _, d := range tt.dates {
				catches = append(catches, catchOn(d, ""))
			}
			assert.Equal(t, tt.want, LongestFishingStreak(catches))
		})
	}
}

func TestUniqueSeasonsCount(t *testing.T) {
	catches := []models.Catch{
		catchOn("2024-03-01", ""),
		catchOn("2024-05-31", ""),
		catchOn("2024-07-15", ""),
		catchOn("2024-12-01", ""),
		catchOn("2024-02-10", ""),
	}
	assert.Equal(t, 3, UniqueSeasonsCount(catches))

	catches = append(catches, catchOn("2024-10-10", ""))
	assert.Equal(t, 4, UniqueSeasonsCount(catches))
}

func TestResolveTimeframeCatches(t *testing.T) {
	catches := []models.Catch{
		catchOn("2024-06-01", "11:00"),
		catchOn("2024-06-01", "10:03"),
		catchOn("2024-06-01", "10:00"),
		catchOn("2024-06-01", "10:04"),
		catchOn("2024-06-01", ""),
		catchOn("bad", "10:01"),
	}

	assert.Equal(t, 3, ResolveTimeframeCatches(catches, 5, 0))
	assert.Equal(t, 1, ResolveTimeframeCatches(catches, 0, 0))
	assert.Equal(t, 4, ResolveTimeframeCatches(catches, 60, 0))

	assert.Equal(t, 3, ResolveTimeframeCatches(catches, 5, 2))
	// never reached: falls back to the maximum
	assert.Equal(t, 3, ResolveTimeframeCatches(catches, 5, 5))
}

func TestResolveTimeframeShortCircuit(t *testing.T) {
	catches := []models.Catch{
		catchOn("2024-06-01", "09:00"),
		catchOn("2024-06-01", "10:00"),
		catchOn("2024-06-01", "10:01"),
		catchOn("2024-06-01", "10:02"),
	}
	assert.Equal(t, 3, ResolveTimeframeCatches(catches, 5, 0))
	// the first window already satisfies the requirement
	assert.Equal(t, 1, ResolveTimeframeCatches(catches, 5, 1))
}

func TestResolveTimeframeAcrossMidnight(t *testing.T) {
	catches := []models.Catch{
		catchOn("2024-06-01", "23:58"),
		catchOn("2024-06-02", "00:02"),
	}
	assert.Equal(t, 2, ResolveTimeframeCatches(catches, 5, 0))
}

func TestParseCoordinates(t *testing.T) {
	lat, lng, ok := ParseCoordinates("60.1699, 24.9384")
	assert.True(t, ok)
	assert.InDelta(t, 60.1699, lat, 1e-9)
	assert.InDelta(t, 24.9384, lng, 1e-9)

	for _, bad := range []string{"", "60.1", "a,b", "91,0", "0,181"} {
		_, _, ok := ParseCoordinates(bad)
		assert.False(t, ok, bad)
	}
}

func TestHaversineMeters(t *testing.T) {
	assert.Zero(t, HaversineMeters(60, 25, 60, 25))
	// Helsinki to Tampere is roughly 160 km
	assert.InDelta(t, 160000, HaversineMeters(60.1699, 24.9384, 61.4978, 23.7610), 3000)
}

func TestUniqueSpotsByDistance(t *testing.T) {
	at := func(water, coords string) models.Catch {
		return models.Catch{Location: models.CatchLocation{BodyOfWater: water, Coordinates: coords}}
	}
	// ~100 m apart
	catches := []models.Catch{at("Lake A", "60.0000,25.0"), at("Lake A", "60.0009,25.0")}

	assert.Equal(t, 1, UniqueSpotsByDistance(catches, 200))
	assert.Equal(t, 2, UniqueSpotsByDistance(catches, 50))

	catches = append(catches,
		at("Lake B", "61.0,25.0"),
		at("Lake B", "61.01,25.0"),
		at("Lake B", "61.02,25.0"),
		at("Lake B", "garbage"),
	)
	// max over waters, not the sum
	assert.Equal(t, 3, UniqueSpotsByDistance(catches, 200))
}
