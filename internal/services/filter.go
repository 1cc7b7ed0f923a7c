package services

import (
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

// PassesHardFilter is the deterministic admission gate applied before any
// scoring. A song is admitted only if the profile's preferred-language set is
// empty or contains the song's language, and the preferred-era set is empty
// or some range contains the release year (bounds inclusive).
func PassesHardFilter(song models.Song, profile *models.PreferenceProfile) bool {
	if len(profile.PreferredLanguages) > 0 {
		match := false
		for _, lang := range profile.PreferredLanguages {
			if song.Language == lang {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if len(profile.PreferredEras) > 0 {
		match := false
		for _, era := range profile.PreferredEras {
			if era.Contains(song.ReleaseYear) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	return true
}

// HardFilter removes inadmissible songs outright. Rejected songs can never be
// promoted back by any downstream signal. Pure, idempotent, order-preserving.
func HardFilter(songs []models.Song, profile *models.PreferenceProfile) []models.Song {
	admitted := make([]models.Song, 0, len(songs))
	for _, song := range songs {
		if PassesHardFilter(song, profile) {
			admitted = append(admitted, song)
		}
	}
	return admitted
}
