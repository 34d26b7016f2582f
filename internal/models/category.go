package models

// Category is the exception detail category as printed in ExceptionDetailDetails
type Category int

const (
	CategoryNone Category = iota
	CategoryUnrecognized
	CategoryLightSpeeding
	CategoryHeavySpeeding
	CategoryHeavyHarshBraking
	CategoryHeavyHarshTurning
	CategoryHeavyHarshAcceleration
	CategoryLightHarshBraking
	CategoryLightHarshTurning
	CategoryLightHarshAcceleration
)

var categoryNames = map[string]Category{
	"Light Vehicle Speeding":           CategoryLightSpeeding,
	"Heavy Vehicle Speeding":           CategoryHeavySpeeding,
	"Heavy Vehicle Harsh Braking":      CategoryHeavyHarshBraking,
	"Heavy Vehicle Harsh Turning":      CategoryHeavyHarshTurning,
	"Heavy Vehicle Harsh Acceleration": CategoryHeavyHarshAcceleration,
	"Light Vehicle Harsh Braking":      CategoryLightHarshBraking,
	"Light Vehicle Harsh Turning":      CategoryLightHarshTurning,
	"Light Vehicle Harsh Acceleration": CategoryLightHarshAcceleration,
}

// ParseCategory matches the literal report vocabulary. Anything else non-empty is
// CategoryUnrecognized so callers can report it.
func ParseCategory(s string) Category {
	if s == "" {
		return CategoryNone
	}
	if c, ok := categoryNames[s]; ok {
		return c
	}
	return CategoryUnrecognized
}

func (c Category) IsSpeeding() bool {
	return c == CategoryLightSpeeding || c == CategoryHeavySpeeding
}

func (c Category) IsHarshEvent() bool {
	switch c {
	case CategoryHeavyHarshBraking, CategoryHeavyHarshTurning, CategoryHeavyHarshAcceleration,
		CategoryLightHarshBraking, CategoryLightHarshTurning, CategoryLightHarshAcceleration:
		return true
	}
	return false
}
