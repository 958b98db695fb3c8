package model

type FeedbackRecord struct {
	FeedbackID uint64  `gorm:"column:feedback_id;primaryKey;autoIncrement"`
	AppID      uint64  `gorm:"column:app_id;not null;index"`
	EndUserID  *string `gorm:"column:end_user_id;type:text"`
	Rating     *int    `gorm:"column:rating;index"`
	Category   *string `gorm:"column:category;type:text;index"`
	Content    *string `gorm:"column:content;type:text"`
	DeviceJSON string  `gorm:"column:device_json;type:text;not null"`
	MetaJSON   string  `gorm:"column:meta_json;type:text;not null"`
	AppVersion string  `gorm:"column:app_version;type:text;not null;index"`
	OSName     string  `gorm:"column:os_name;type:text;not null;index"`
	Status     string  `gorm:"column:status;type:text;not null;index"`
	CreatedAt  string  `gorm:"column:created_at;type:text;not null;index"`

	Application Application `gorm:"foreignKey:AppID;references:AppID"`
}

func (FeedbackRecord) TableName() string {
	return "feedback_records"
}
