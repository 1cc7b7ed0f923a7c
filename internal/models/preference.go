package models

import "time"

// MaxFavoriteArtists bounds the favorite-artist slots on a profile.
const MaxFavoriteArtists = 4

// EraRange is an inclusive {start, end} year range with start <= end.
type EraRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Midpoint returns the center year of the range.
func (r EraRange) Midpoint() float64 {
	return (float64(r.Start) + float64(r.End)) / 2
}

// Contains reports whether year falls inside the range, bounds inclusive.
func (r EraRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// PreferenceProfile is the per-user taste declaration collected at
// onboarding. Empty language or era sets mean "no restriction". The profile
// is overwritten on update, never deleted.
type PreferenceProfile struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	PreferredLanguages []string   `gorm:"serializer:json" json:"preferred_languages"`
	PreferredEras      []EraRange `gorm:"serializer:json" json:"preferred_eras"`
	FavoriteArtistIDs  []string   `gorm:"serializer:json" json:"favorite_artist_ids"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// LanguageSet returns the preferred languages as a set.
func (p *PreferenceProfile) LanguageSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.PreferredLanguages))
	for _, lang := range p.PreferredLanguages {
		set[lang] = struct{}{}
	}
	return set
}

// FavoriteArtistSet returns the favorite artist IDs as a set.
func (p *PreferenceProfile) FavoriteArtistSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.FavoriteArtistIDs))
	for _, id := range p.FavoriteArtistIDs {
		set[id] = struct{}{}
	}
	return set
}

// MeanEraMidpoint averages the midpoints of all preferred era ranges.
// The second return is false when the profile declares no eras.
func (p *PreferenceProfile) MeanEraMidpoint() (float64, bool) {
	if len(p.PreferredEras) == 0 {
		return 0, false
	}
	var sum float64
	for _, era := range p.PreferredEras {
		sum += era.Midpoint()
	}
	return sum / float64(len(p.PreferredEras)), true
}

// ProfileUpdate is the inbound payload for overwriting a profile.
type ProfileUpdate struct {
	PreferredLanguages []string   `json:"preferred_languages"`
	PreferredEras      []EraRange `json:"preferred_eras"`
	FavoriteArtistIDs  []string   `json:"favorite_artist_ids"`
}
