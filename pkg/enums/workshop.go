package enums

import "fmt"

// WorkshopStatus is the booking lifecycle of a workshop.
type WorkshopStatus string

const (
	WorkshopStatusOpen      WorkshopStatus = "OPEN"
	WorkshopStatusClosed    WorkshopStatus = "CLOSED"
	WorkshopStatusCancelled WorkshopStatus = "CANCELLED"
	WorkshopStatusCompleted WorkshopStatus = "COMPLETED"
)

var validWorkshopStatuses = []WorkshopStatus{
	WorkshopStatusOpen,
	WorkshopStatusClosed,
	WorkshopStatusCancelled,
	WorkshopStatusCompleted,
}

// String implements fmt.Stringer.
func (w WorkshopStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WorkshopStatus.
func (w WorkshopStatus) IsValid() bool {
	for _, candidate := range validWorkshopStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWorkshopStatus converts raw input into a WorkshopStatus.
func ParseWorkshopStatus(value string) (WorkshopStatus, error) {
	for _, candidate := range validWorkshopStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid workshop status %q", value)
}

// WorkshopStatuses returns every workshop status in declaration order.
func WorkshopStatuses() []WorkshopStatus {
	return append([]WorkshopStatus(nil), validWorkshopStatuses...)
}

// WorkshopLevel is the difficulty a workshop targets.
type WorkshopLevel string

const (
	WorkshopLevelAll          WorkshopLevel = "ALL"
	WorkshopLevelBeginner     WorkshopLevel = "BEGINNER"
	WorkshopLevelIntermediate WorkshopLevel = "INTERMEDIATE"
	WorkshopLevelAdvanced     WorkshopLevel = "ADVANCED"
)

var validWorkshopLevels = []WorkshopLevel{
	WorkshopLevelAll,
	WorkshopLevelBeginner,
	WorkshopLevelIntermediate,
	WorkshopLevelAdvanced,
}

// String implements fmt.Stringer.
func (w WorkshopLevel) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WorkshopLevel.
func (w WorkshopLevel) IsValid() bool {
	for _, candidate := range validWorkshopLevels {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWorkshopLevel converts raw input into a WorkshopLevel.
func ParseWorkshopLevel(value string) (WorkshopLevel, error) {
	for _, candidate := range validWorkshopLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid workshop level %q", value)
}

// WorkshopLevels returns every workshop level in declaration order.
func WorkshopLevels() []WorkshopLevel {
	return append([]WorkshopLevel(nil), validWorkshopLevels...)
}

// WorkshopCategory is the practice style of a workshop.
type WorkshopCategory string

const (
	WorkshopCategoryVinyasa  WorkshopCategory = "VINYASA"
	WorkshopCategoryHatha    WorkshopCategory = "HATHA"
	WorkshopCategoryAshtanga WorkshopCategory = "ASHTANGA"
	WorkshopCategoryTherapy  WorkshopCategory = "THERAPY"
	WorkshopCategorySpecial  WorkshopCategory = "SPECIAL"
	WorkshopCategoryOther    WorkshopCategory = "OTHER"
)

var validWorkshopCategories = []WorkshopCategory{
	WorkshopCategoryVinyasa,
	WorkshopCategoryHatha,
	WorkshopCategoryAshtanga,
	WorkshopCategoryTherapy,
	WorkshopCategorySpecial,
	WorkshopCategoryOther,
}

// String implements fmt.Stringer.
func (w WorkshopCategory) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WorkshopCategory.
func (w WorkshopCategory) IsValid() bool {
	for _, candidate := range validWorkshopCategories {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWorkshopCategory converts raw input into a WorkshopCategory.
func ParseWorkshopCategory(value string) (WorkshopCategory, error) {
	for _, candidate := range validWorkshopCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid workshop category %q", value)
}

// WorkshopCategories returns every workshop category in declaration order.
func WorkshopCategories() []WorkshopCategory {
	return append([]WorkshopCategory(nil), validWorkshopCategories...)
}
