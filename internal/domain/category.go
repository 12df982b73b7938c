package domain

type Category string

func (c Category) String() string {
	return string(c)
}

const (
	CategoryAntibiotics      Category = "ANTIBIOTICS"
	CategoryAntiseptics      Category = "ANTISEPTICS"
	CategoryMedicalEquipment Category = "MEDICAL_EQUIPMENT"
	CategorySupplies         Category = "SUPPLIES"
)

var Categories = []Category{
	CategoryAntibiotics,
	CategoryAntiseptics,
	CategoryMedicalEquipment,
	CategorySupplies,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryAntibiotics, CategoryAntiseptics, CategoryMedicalEquipment, CategorySupplies:
		return true
	default:
		return false
	}
}

func (c Category) DisplayName() string {
	switch c {
	case CategoryAntibiotics:
		return "Antibióticos"
	case CategoryAntiseptics:
		return "Antisépticos"
	case CategoryMedicalEquipment:
		return "Equipos Médicos"
	case CategorySupplies:
		return "Suministros"
	default:
		return "Unknown"
	}
}
