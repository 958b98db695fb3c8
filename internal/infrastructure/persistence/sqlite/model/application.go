package model

type Application struct {
	AppID          uint64  `gorm:"column:app_id;primaryKey;autoIncrement"`
	Name           string  `gorm:"column:name;type:text;not null"`
	Slug           string  `gorm:"column:slug;type:text;not null;uniqueIndex"`
	CredentialHash string  `gorm:"column:credential_hash;type:text;not null;uniqueIndex"`
	CredentialHint string  `gorm:"column:credential_hint;type:text;not null"`
	OwnerEmail     *string `gorm:"column:owner_email;type:text"`
	IsActive       bool    `gorm:"column:is_active;not null;default:1"`
	CreatedAt      string  `gorm:"column:created_at;type:text;not null"`
	RotatedAt      *string `gorm:"column:rotated_at;type:text"`
}

func (Application) TableName() string {
	return "applications"
}
