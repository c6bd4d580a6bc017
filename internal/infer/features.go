package infer

import "github.com/Brownie44l1/seg-api/internal/record"

// Features maps input record names to their validated values. Duplicate
// names resolve to the last record in the input sequence.
type Features map[string]record.Value

func NewFeatures(records []record.Record) Features {
	features := make(Features, len(records))
	for _, r := range records {
		features[r.Name] = r.Value
	}
	return features
}

func (f Features) Image(name string) ([]byte, bool) {
	v, ok := f[name].(record.Image)
	return v, ok
}

func (f Features) Float(name string) (float64, bool) {
	v, ok := f[name].(record.Float)
	return float64(v), ok
}

func (f Features) Int(name string) (int64, bool) {
	v, ok := f[name].(record.Int)
	return int64(v), ok
}

func (f Features) Text(name string) (string, bool) {
	v, ok := f[name].(record.Text)
	return string(v), ok
}

// Named returns the names of all features of the given kind.
func (f Features) Named(kind record.Kind) []string {
	var names []string
	for name, v := range f {
		if v.Kind() == kind {
			names = append(names, name)
		}
	}
	return names
}
