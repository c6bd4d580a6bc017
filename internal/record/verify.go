package record

// Verify enforces the record contract on every record in order and returns
// the first violation. It never modifies its input.
func Verify(records []Raw) error {
	for i, r := range records {
		if err := verify(i, r); err != nil {
			return err
		}
	}
	return nil
}

func verify(index int, r Raw) error {
	rawType, ok := r[fieldType]
	if !ok {
		return &SchemaError{Index: index, Field: fieldType}
	}
	name, ok := r[fieldName]
	if !ok {
		return &SchemaError{Index: index, Field: fieldName}
	}
	value, ok := r[fieldValue]
	if !ok {
		return &SchemaError{Index: index, Field: fieldValue}
	}

	kind, ok := rawType.(string)
	if !ok || !Kind(kind).Valid() {
		return &UnsupportedTypeError{Index: index, Type: rawType}
	}

	mismatch := &TypeMismatchError{Index: index, Name: name, Expected: Kind(kind), Got: typeName(value)}
	switch Kind(kind) {
	case KindImage:
		var encoded string
		switch s := value.(type) {
		case string:
			encoded = s
		case []byte:
			encoded = string(s)
		default:
			return mismatch
		}
		if _, err := DecodeImage(encoded); err != nil {
			return &EncodingError{Index: index, Name: name, Err: err}
		}
	case KindFloat:
		if _, ok := asFloat(value); !ok {
			return mismatch
		}
	case KindInt:
		if _, ok := asInt(value); !ok {
			return mismatch
		}
	case KindString:
		if _, ok := value.(string); !ok {
			return mismatch
		}
	}
	return nil
}
