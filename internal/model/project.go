package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description"`
	Status      string         `gorm:"column:status;default:pending;not null"`
	OwnerID     uint           `gorm:"column:owner_id;not null;index"`
	Owner       User           `gorm:"foreignKey:OwnerID"`
	Metadata    datatypes.JSON `gorm:"column:metadata"`
}
