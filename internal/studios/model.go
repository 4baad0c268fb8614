package studios

import (
	"time"

	"github.com/evolutionflow/admin-bff/pkg/enums"
)

// Studio is a physical practice location owned by the admin back office.
type Studio struct {
	ID          string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string             `gorm:"not null;uniqueIndex:studios_name_key" json:"name"`
	Location    string             `gorm:"not null" json:"location"`
	ManagerName string             `gorm:"not null;default:''" json:"managerName"`
	Contact     string             `gorm:"not null;default:''" json:"contact"`
	Capacity    int                `gorm:"not null;default:0" json:"capacity"`
	Status      enums.StudioStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time          `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"not null" json:"updatedAt"`
}

func (Studio) TableName() string { return "studios" }

// CreateInput holds the fields of a new studio.
type CreateInput struct {
	Name        string             `json:"name" validate:"notblank,max=100"`
	Location    string             `json:"location" validate:"notblank,max=200"`
	ManagerName string             `json:"managerName" validate:"max=100"`
	Contact     string             `json:"contact" validate:"max=100"`
	Capacity    int                `json:"capacity" validate:"min=0"`
	Status      enums.StudioStatus `json:"status" validate:"omitempty,enum"`
}

// UpdateInput is a partial edit; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=100"`
	Location    *string `json:"location" validate:"omitnil,notblank,max=200"`
	ManagerName *string `json:"managerName" validate:"omitnil,max=100"`
	Contact     *string `json:"contact" validate:"omitnil,max=100"`
	Capacity    *int    `json:"capacity" validate:"omitnil,min=0"`
}

func (u UpdateInput) empty() bool {
	return u.Name == nil && u.Location == nil && u.ManagerName == nil && u.Contact == nil && u.Capacity == nil
}
