package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gmaddy200516-hash/melodyboxd/internal/database"
	"github.com/gmaddy200516-hash/melodyboxd/internal/models"
)

var ErrSelfFollow = errors.New("users cannot follow themselves")

type FollowRepository interface {
	GetFollowEdges(userID uint) (models.FollowEdges, error)
	Follow(followerID, followeeID uint) error
	Unfollow(followerID, followeeID uint) error
}

type followRepo struct {
	db *gorm.DB
}

func NewFollowRepository() FollowRepository {
	return &followRepo{db: database.DB}
}

func (r *followRepo) GetFollowEdges(userID uint) (models.FollowEdges, error) {
	edges := models.FollowEdges{
		Following: make(map[uint]struct{}),
		Followers: make(map[uint]struct{}),
	}

	var followingIDs []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &followingIDs).Error
	if err != nil {
		return edges, err
	}

	var followerIDs []uint
	err = r.db.Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &followerIDs).Error
	if err != nil {
		return edges, err
	}

	for _, id := range followingIDs {
		edges.Following[id] = struct{}{}
	}
	for _, id := range followerIDs {
		edges.Followers[id] = struct{}{}
	}
	return edges, nil
}

func (r *followRepo) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followee_id"}},
		DoNothing: true,
	}).Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
}

func (r *followRepo) Unfollow(followerID, followeeID uint) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}
