package model

import (
	"time"
)

type AssetComment struct {
	ID        uint64    `gorm:"primaryKey"`
	AssetID   uint64    `gorm:"not null;index:idx_asset_id" json:"assetId"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	ParentID  uint64    `gorm:"not null;default:0" json:"parentId"` // 0表示直接评论作品
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AssetComment) TableName() string {
	return "asset_comments"
}
