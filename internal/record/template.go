package record

import "fmt"

// Template is the read-only blueprint of an output sequence: slot names and
// kinds in order. It is shared between calls and never written after
// construction; callers populate a Clone.
type Template struct {
	slots []Record
}

// NewTemplate builds a template from wire records. Values are placeholders
// and are discarded; names must be unique because predictions are matched to
// slots by name.
func NewTemplate(raws []Raw) (Template, error) {
	seen := make(map[string]struct{}, len(raws))
	slots := make([]Record, 0, len(raws))
	for i, r := range raws {
		rawType, ok := r[fieldType]
		if !ok {
			return Template{}, &SchemaError{Index: i, Field: fieldType}
		}
		rawName, ok := r[fieldName]
		if !ok {
			return Template{}, &SchemaError{Index: i, Field: fieldName}
		}
		kind, ok := rawType.(string)
		if !ok || !Kind(kind).Valid() {
			return Template{}, &UnsupportedTypeError{Index: i, Type: rawType}
		}
		name, ok := rawName.(string)
		if !ok || name == "" {
			return Template{}, &SchemaError{Index: i, Field: fieldName, Reason: "'name' must be a non-empty string"}
		}
		if _, dup := seen[name]; dup {
			return Template{}, &SchemaError{Index: i, Field: fieldName, Reason: fmt.Sprintf("duplicate slot name %q", name)}
		}
		seen[name] = struct{}{}
		slots = append(slots, Record{Name: name, Kind: Kind(kind)})
	}
	if len(slots) == 0 {
		return Template{}, fmt.Errorf("%w: template has no slots", ErrInvalidRecord)
	}
	return Template{slots: slots}, nil
}

func (t Template) Len() int {
	return len(t.slots)
}

// Clone returns an independent copy of the slots for one call to populate.
func (t Template) Clone() []Record {
	return Clone(t.slots)
}

// Wire returns the template in wire form with null values.
func (t Template) Wire() []Raw {
	return Wire(t.slots)
}
