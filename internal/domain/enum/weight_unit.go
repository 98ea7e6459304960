package enum

// WeightUnit is the unit a weighted product is priced per
type WeightUnit string

const (
	WeightUnitKilogram WeightUnit = "kg"
	WeightUnitGram     WeightUnit = "g"
	WeightUnitPound    WeightUnit = "lb"
)

// IsValid reports whether the unit is supported
func (w WeightUnit) IsValid() bool {
	switch w {
	case WeightUnitKilogram, WeightUnitGram, WeightUnitPound:
		return true
	}
	return false
}

func (w WeightUnit) String() string {
	return string(w)
}
