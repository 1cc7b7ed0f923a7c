package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

const (
	metadataTokenURL  = "https://accounts.spotify.com/api/token"
	metadataSearchURL = "https://api.spotify.com/v1/search"
)

// MusicMetadataService is the external catalog lookup. It owns its access
// token and refresh policy; nothing else in the process touches the token.
// Songs and artists are created lazily on first reference from a search.
type MusicMetadataService interface {
	GetAccessToken() (string, error)
	// SearchAndIngest queries the external catalog and persists any songs
	// and artists not yet known locally.
	SearchAndIngest(query string, limit int) ([]models.Song, error)
}

type musicMetadataService struct {
	clientID     string
	clientSecret string
	accessToken  string
	tokenExpiry  time.Time
	httpClient   *http.Client
	songRepo     repository.SongRepository
}

func NewMusicMetadataService(songRepo repository.SongRepository, cfg *config.Config) MusicMetadataService {
	return &musicMetadataService{
		clientID:     cfg.MetadataClientID,
		clientSecret: cfg.MetadataClientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		songRepo:     songRepo,
	}
}

type metadataTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *musicMetadataService) GetAccessToken() (string, error) {
	if time.Now().Before(s.tokenExpiry) && s.accessToken != "" {
		return s.accessToken, nil
	}

	auth := base64.StdEncoding.EncodeToString([]byte(s.clientID + ":" + s.clientSecret))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequest("POST", metadataTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get token: %s", string(body))
	}

	var tokenResp metadataTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", err
	}

	s.accessToken = tokenResp.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)

	return s.accessToken, nil
}

type metadataSearchResponse struct {
	Tracks struct {
		Items []metadataTrack `json:"items"`
	} `json:"tracks"`
}

type metadataTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		ID     string   `json:"id"`
		Name   string   `json:"name"`
		Genres []string `json:"genres"`
	} `json:"artists"`
	Album struct {
		ReleaseDate string `json:"release_date"`
		Images      []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	Popularity       int      `json:"popularity"`
	AvailableMarkets []string `json:"available_markets"`
}

func (s *musicMetadataService) SearchAndIngest(query string, limit int) ([]models.Song, error) {
	token, err := s.GetAccessToken()
	if err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s?q=%s&type=track&limit=%d", metadataSearchURL, url.QueryEscape(query), limit)

	req, err := http.NewRequest("GET", searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Metadata search failed (%d): %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("search failed: %s", string(body))
	}

	var result metadataSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	songs := make([]models.Song, 0, len(result.Tracks.Items))
	for _, track := range result.Tracks.Items {
		song, err := s.ingestTrack(track)
		if err != nil {
			log.Printf("[SearchAndIngest] Skipping track %s: %v", track.ID, err)
			continue
		}
		songs = append(songs, *song)
	}
	return songs, nil
}

func (s *musicMetadataService) ingestTrack(track metadataTrack) (*models.Song, error) {
	if existing, err := s.songRepo.GetSongByExternalID(track.ID); err == nil {
		return existing, nil
	} else if err != repository.ErrSongNotFound {
		return nil, err
	}

	if len(track.Artists) == 0 {
		return nil, fmt.Errorf("track %s has no artists", track.ID)
	}
	primary := track.Artists[0]

	year := parseReleaseYear(track.Album.ReleaseDate)

	genres := primary.Genres
	primaryGenre := ""
	if len(genres) > 0 {
		primaryGenre = genres[0]
	} else {
		genres = []string{"unknown"}
	}

	language := "en"
	if len(track.AvailableMarkets) == 1 {
		language = strings.ToLower(track.AvailableMarkets[0])
	}

	artist := &models.Artist{
		ExternalID:   primary.ID,
		Name:         primary.Name,
		PrimaryGenre: primaryGenre,
		Language:     language,
		EraStart:     year,
		EraEnd:       year,
	}
	if err := s.songRepo.EnsureArtist(artist); err != nil {
		return nil, err
	}

	imageURL := ""
	if len(track.Album.Images) > 0 {
		imageURL = track.Album.Images[0].URL
	}

	song := &models.Song{
		ExternalID:   track.ID,
		Title:        track.Name,
		ArtistID:     artist.ID,
		Genres:       genres,
		Language:     language,
		ReleaseYear:  year,
		Popularity30: float64(track.Popularity) / 100.0,
		ImageURL:     imageURL,
	}
	if err := s.songRepo.CreateSong(song); err != nil {
		return nil, err
	}
	return song, nil
}

func parseReleaseYear(releaseDate string) int {
	if len(releaseDate) >= 4 {
		if year, err := strconv.Atoi(releaseDate[:4]); err == nil {
			return year
		}
	}
	return 0
}
