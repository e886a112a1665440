package models

import "time"

// TeamMember is a person who may be assigned tasks. It is maintained outside the task core.
type TeamMember struct {
	PK        uint64    `gorm:"primarykey" json:"-"`
	WorkdayID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"workdayId" yaml:"workdayId"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email" yaml:"email"`
	Name      string    `gorm:"type:varchar(255)" json:"name" yaml:"name"`
	Status    string    `gorm:"type:varchar(20);not null;index" json:"status" yaml:"status"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}
