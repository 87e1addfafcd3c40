package models

// Category groups products, e.g. phones or laptops.
type Category struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:varchar(500)"`
}

// Brand is a device manufacturer.
type Brand struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:varchar(500)"`
}

// Attribute kinds.
const (
	AttributeColor     = "color"
	AttributeStorage   = "storage"
	AttributeRAM       = "ram"
	AttributeProcessor = "processor"
	AttributeDisplay   = "display"
	AttributeBattery   = "battery"
	AttributeCamera    = "camera"
	AttributeOS        = "os"
)

// Attribute is a technical characteristic a product may reference,
// e.g. kind "ram" with value "16 GB".
type Attribute struct {
	Base
	Kind  string `json:"kind" gorm:"uniqueIndex:idx_attribute_kind_value;type:varchar(30);not null"`
	Value string `json:"value" gorm:"uniqueIndex:idx_attribute_kind_value;type:varchar(100);not null"`
}

// AttributeKinds lists every accepted attribute kind.
var AttributeKinds = []string{
	AttributeColor,
	AttributeStorage,
	AttributeRAM,
	AttributeProcessor,
	AttributeDisplay,
	AttributeBattery,
	AttributeCamera,
	AttributeOS,
}

// IsAttributeKind reports whether kind is one of AttributeKinds.
func IsAttributeKind(kind string) bool {
	for _, k := range AttributeKinds {
		if k == kind {
			return true
		}
	}
	return false
}
