package models

import "time"

// Follow represents an accepted follow relationship
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowRequest represents a pending follow request awaiting the target's decision
type FollowRequest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RequesterID uint      `json:"requester_id" gorm:"index;uniqueIndex:idx_requester_target"`
	TargetID    uint      `json:"target_id" gorm:"index;uniqueIndex:idx_requester_target"`
	CreatedAt   time.Time `json:"created_at"`
}
