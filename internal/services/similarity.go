package services

import (
	"math"
	"sort"

	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

// CosineSimilarity computes cosine similarity between two sparse rating
// vectors restricted to their commonly-rated songs. An empty intersection or
// a zero norm yields 0. The raw value can be negative; callers that feed it
// into a prediction must pass it through ClampSimilarity first.
func CosineSimilarity(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			continue
		}
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ClampSimilarity maps negative similarity to 0: anti-correlated users are
// "no evidence", never anti-evidence.
func ClampSimilarity(sim float64) float64 {
	if sim < 0 {
		return 0
	}
	return sim
}

// JaccardSimilarity is |A∩B| / |A∪B|. Either set being empty yields 0, so an
// unknown preference is never rewarded as similar.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for key := range small {
		if _, ok := large[key]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// EraProximity scores how close a release year sits to the center of the
// best-fitting preferred era. No preferred eras at all returns the neutral
// 0.5 so era-agnostic users are not penalized.
func EraProximity(year int, eras []models.EraRange) float64 {
	if len(eras) == 0 {
		return 0.5
	}
	best := 0.0
	for _, era := range eras {
		score := eraRangeScore(year, era)
		if score > best {
			best = score
		}
	}
	return best
}

func eraRangeScore(year int, era models.EraRange) float64 {
	if !era.Contains(year) {
		return 0
	}
	halfRange := (float64(era.End) - float64(era.Start)) / 2
	if halfRange == 0 {
		// single-year range: exact match only, and Contains already checked it
		return 1
	}
	return 1 - math.Abs(float64(year)-era.Midpoint())/halfRange
}

// EraMidpointSimilarity compares two users' mean preferred-era midpoints.
func EraMidpointSimilarity(midA, midB float64) float64 {
	return math.Max(0, 1-math.Abs(midA-midB)/100)
}

// NormalizePrediction maps a raw predicted rating (~[0.5, 5]) onto [0,1].
func NormalizePrediction(p float64) float64 {
	return clamp01((p - 0.5) / 4.5)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// RatingVector turns a {songID, rating} list into a sparse vector.
func RatingVector(ratings []models.SongRating) map[string]float64 {
	vec := make(map[string]float64, len(ratings))
	for _, r := range ratings {
		vec[r.SongID] = r.Rating
	}
	return vec
}

// LikedGenreSet collects the genres of songs the user rated at or above
// minRating. songsByID must cover the rated song IDs; missing songs are
// skipped.
func LikedGenreSet(ratings []models.SongRating, songsByID map[string]models.Song, minRating float64) map[string]struct{} {
	genres := make(map[string]struct{})
	for _, r := range ratings {
		if r.Rating < minRating {
			continue
		}
		song, ok := songsByID[r.SongID]
		if !ok {
			continue
		}
		for _, g := range song.Genres {
			genres[g] = struct{}{}
		}
	}
	return genres
}

// GenreFrequency is one entry of the diagnostic genre ranking.
type GenreFrequency struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// RankGenresByFrequency orders the genres of highly-rated songs by how often
// they appear, descending. Ties keep first-seen order.
func RankGenresByFrequency(ratings []models.SongRating, songsByID map[string]models.Song, minRating float64) []GenreFrequency {
	counts := make(map[string]int)
	var order []string
	for _, r := range ratings {
		if r.Rating < minRating {
			continue
		}
		song, ok := songsByID[r.SongID]
		if !ok {
			continue
		}
		for _, g := range song.Genres {
			if counts[g] == 0 {
				order = append(order, g)
			}
			counts[g]++
		}
	}
	ranked := make([]GenreFrequency, 0, len(order))
	for _, g := range order {
		ranked = append(ranked, GenreFrequency{Genre: g, Count: counts[g]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}
