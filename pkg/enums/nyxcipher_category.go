package enums

// NyxcipherCategory groups draws for storefront browsing.
type NyxcipherCategory string

const (
	NyxcipherCategoryElectronics NyxcipherCategory = "electronics"
	NyxcipherCategoryJewelry     NyxcipherCategory = "jewelry"
	NyxcipherCategoryVehicles    NyxcipherCategory = "vehicles"
	NyxcipherCategoryTravel      NyxcipherCategory = "travel"
	NyxcipherCategoryOther       NyxcipherCategory = "other"
)

func (c NyxcipherCategory) IsValid() bool {
	switch c {
	case NyxcipherCategoryElectronics, NyxcipherCategoryJewelry, NyxcipherCategoryVehicles,
		NyxcipherCategoryTravel, NyxcipherCategoryOther:
		return true
	}
	return false
}
