package record

// Kind is the closed set of type tags a record may carry.
type Kind string

const (
	KindImage  Kind = "image"
	KindFloat  Kind = "float"
	KindInt    Kind = "int"
	KindString Kind = "string"
)

var supportedKinds = map[Kind]struct{}{
	KindImage:  {},
	KindFloat:  {},
	KindInt:    {},
	KindString: {},
}

func (k Kind) Valid() bool {
	_, ok := supportedKinds[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}
