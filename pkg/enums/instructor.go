package enums

import "fmt"

// InstructorGrade is the display tier of an instructor.
type InstructorGrade string

const (
	InstructorGradeUniverse InstructorGrade = "UNIVERSE"
	InstructorGradeI        InstructorGrade = "I"
	InstructorGradeWe       InstructorGrade = "WE"
	InstructorGradeEarth    InstructorGrade = "EARTH"
)

var validInstructorGrades = []InstructorGrade{
	InstructorGradeUniverse,
	InstructorGradeI,
	InstructorGradeWe,
	InstructorGradeEarth,
}

// String implements fmt.Stringer.
func (g InstructorGrade) String() string {
	return string(g)
}

// IsValid reports whether the value is a known InstructorGrade.
func (g InstructorGrade) IsValid() bool {
	for _, candidate := range validInstructorGrades {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseInstructorGrade converts raw input into a InstructorGrade.
func ParseInstructorGrade(value string) (InstructorGrade, error) {
	for _, candidate := range validInstructorGrades {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid instructor grade %q", value)
}

// InstructorGrades returns every instructor grade in declaration order.
func InstructorGrades() []InstructorGrade {
	return append([]InstructorGrade(nil), validInstructorGrades...)
}

type InstructorCountry string

const (
	InstructorCountryKR InstructorCountry = "KR"
	InstructorCountryCN InstructorCountry = "CN"
)

var validInstructorCountries = []InstructorCountry{
	InstructorCountryKR,
	InstructorCountryCN,
}

// String implements fmt.Stringer.
func (c InstructorCountry) String() string {
	return string(c)
}

// IsValid reports whether the value is a known InstructorCountry.
func (c InstructorCountry) IsValid() bool {
	for _, candidate := range validInstructorCountries {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseInstructorCountry converts raw input into a InstructorCountry.
func ParseInstructorCountry(value string) (InstructorCountry, error) {
	for _, candidate := range validInstructorCountries {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid instructor country %q", value)
}

// InstructorCountries returns every instructor country in declaration order.
func InstructorCountries() []InstructorCountry {
	return append([]InstructorCountry(nil), validInstructorCountries...)
}

// InstructorLevel is the activity level assigned to an instructor.
type InstructorLevel string

const (
	InstructorLevelOne   InstructorLevel = "LEVEL_1"
	InstructorLevelTwo   InstructorLevel = "LEVEL_2"
	InstructorLevelThree InstructorLevel = "LEVEL_3"
)

var validInstructorLevels = []InstructorLevel{
	InstructorLevelOne,
	InstructorLevelTwo,
	InstructorLevelThree,
}

// String implements fmt.Stringer.
func (l InstructorLevel) String() string {
	return string(l)
}

// IsValid reports whether the value is a known InstructorLevel.
func (l InstructorLevel) IsValid() bool {
	for _, candidate := range validInstructorLevels {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseInstructorLevel converts raw input into a InstructorLevel.
func ParseInstructorLevel(value string) (InstructorLevel, error) {
	for _, candidate := range validInstructorLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid instructor level %q", value)
}

// SNSPlatform is the social network an instructor links to.
type SNSPlatform string

const (
	SNSPlatformInstagram SNSPlatform = "instagram"
	SNSPlatformWeChat    SNSPlatform = "wechat"
	SNSPlatformYouTube   SNSPlatform = "youtube"
)

var validSNSPlatforms = []SNSPlatform{
	SNSPlatformInstagram,
	SNSPlatformWeChat,
	SNSPlatformYouTube,
}

// String implements fmt.Stringer.
func (s SNSPlatform) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SNSPlatform.
func (s SNSPlatform) IsValid() bool {
	for _, candidate := range validSNSPlatforms {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSNSPlatform converts raw input into a SNSPlatform.
func ParseSNSPlatform(value string) (SNSPlatform, error) {
	for _, candidate := range validSNSPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sns platform %q", value)
}

// Rank orders grades for display, highest tier first. Unknown grades rank last.
func (g InstructorGrade) Rank() int {
	for i, candidate := range validInstructorGrades {
		if candidate == g {
			return i
		}
	}
	return len(validInstructorGrades)
}
