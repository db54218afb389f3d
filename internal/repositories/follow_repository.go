package repositories

import (
	"errors"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow graph operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowingIDs(followerID uint) ([]uint, error)
	GetFollowers(userID uint) ([]models.Follow, error)
	GetFollowing(userID uint) ([]models.Follow, error)

	CreateFollowRequest(req *models.FollowRequest) error
	DeleteFollowRequest(requesterID, targetID uint) error
	HasFollowRequest(requesterID, targetID uint) (bool, error)
	GetFollowRequests(targetID uint) ([]models.FollowRequest, error)
}

type postgresFollowRepository struct {
	db *gorm.DB
}

func NewPostgresFollowRepository(db *gorm.DB) FollowRepository {
	return &postgresFollowRepository{db: db}
}

func (r *postgresFollowRepository) CreateFollow(follow *models.Follow) error {
	if err := r.db.Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflictf("already following this user")
		}
		return err
	}
	return nil
}

func (r *postgresFollowRepository) DeleteFollow(followerID, followingID uint) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("not following this user")
	}
	return nil
}

func (r *postgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *postgresFollowRepository) GetFollowingIDs(followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *postgresFollowRepository) GetFollowers(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Where("following_id = ?", userID).Order("created_at DESC").Find(&follows).Error
	return follows, err
}

func (r *postgresFollowRepository) GetFollowing(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Where("follower_id = ?", userID).Order("created_at DESC").Find(&follows).Error
	return follows, err
}

func (r *postgresFollowRepository) CreateFollowRequest(req *models.FollowRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflictf("follow request already sent")
		}
		return err
	}
	return nil
}

func (r *postgresFollowRepository) DeleteFollowRequest(requesterID, targetID uint) error {
	res := r.db.Where("requester_id = ? AND target_id = ?", requesterID, targetID).Delete(&models.FollowRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("no follow request from this user")
	}
	return nil
}

func (r *postgresFollowRepository) HasFollowRequest(requesterID, targetID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FollowRequest{}).
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		Count(&count).Error
	return count > 0, err
}

func (r *postgresFollowRepository) GetFollowRequests(targetID uint) ([]models.FollowRequest, error) {
	var requests []models.FollowRequest
	err := r.db.Where("target_id = ?", targetID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}
