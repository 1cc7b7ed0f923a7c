package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

// UploadService stores song cover art and points the catalog entry at it.
type UploadService interface {
	UploadCoverArt(file io.Reader, songID string) (string, error)
}

type uploadService struct {
	songRepo repository.SongRepository
	cld      *cloudinary.Cloudinary
}

func NewUploadService(songRepo repository.SongRepository, cfg *config.Config) (UploadService, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &uploadService{
		songRepo: songRepo,
		cld:      cld,
	}, nil
}

func (s *uploadService) UploadCoverArt(file io.Reader, songID string) (string, error) {
	song, err := s.songRepo.GetSongByID(songID)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		ResourceType: "image",
		Folder:       "melodyboxd/covers",
		PublicID:     fmt.Sprintf("cover_%s", songID),
	})
	if err != nil {
		return "", err
	}

	finalURL := result.SecureURL
	if finalURL == "" {
		finalURL = result.URL
	}
	if finalURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL for song %s", songID)
	}

	song.ImageURL = finalURL
	if err := s.songRepo.UpdateSong(song); err != nil {
		return "", err
	}

	log.Printf("[UploadCoverArt] Cover updated for song %s", songID)
	return finalURL, nil
}
