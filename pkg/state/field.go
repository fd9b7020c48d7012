package state

import (
	"fmt"
)

// Field identifies one named attribute of the protagonist state.
// Effects address state through Field values only; unknown names are
// rejected when a story is loaded, never while it is played.
type Field string

const (
	FieldHealth         Field = "health"
	FieldDaysLeft       Field = "days_left"
	FieldSuspicion      Field = "suspicion"
	FieldTrustNina      Field = "trust_nina"
	FieldWindomAllies   Field = "windom_allies"
	FieldDiskHidden     Field = "disk_hidden"
	FieldHasDisk        Field = "has_disk"
	FieldSolo           Field = "solo"
	FieldKilledHenchmen Field = "killed_henchmen"
	FieldReturnScene    Field = "return_scene"
)

// Kind is the value type stored behind a Field.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindTri
	KindScene
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindTri:
		return "tri-state"
	case KindScene:
		return "scene id"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// fields lists every addressable field in document order.
var fields = []Field{
	FieldHealth,
	FieldDaysLeft,
	FieldSuspicion,
	FieldTrustNina,
	FieldWindomAllies,
	FieldDiskHidden,
	FieldHasDisk,
	FieldSolo,
	FieldKilledHenchmen,
	FieldReturnScene,
}

var fieldKinds = map[Field]Kind{
	FieldHealth:         KindInt,
	FieldDaysLeft:       KindInt,
	FieldSuspicion:      KindInt,
	FieldTrustNina:      KindTri,
	FieldWindomAllies:   KindBool,
	FieldDiskHidden:     KindBool,
	FieldHasDisk:        KindBool,
	FieldSolo:           KindBool,
	FieldKilledHenchmen: KindInt,
	FieldReturnScene:    KindScene,
}

// Fields returns all effect-addressable fields in a stable order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// ParseField resolves a field name as written in story data.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := fieldKinds[f]; !ok {
		return "", fmt.Errorf("unknown state field %q", name)
	}
	return f, nil
}

// Kind reports the value type of the field.
func (f Field) Kind() Kind {
	return fieldKinds[f]
}

func (f Field) String() string {
	return string(f)
}
