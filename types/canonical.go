package types

import (
	"encoding/json"
	"fmt"
)

// CanonicalJSON returns a deterministic JSON encoding of v. The value is
// marshaled, decoded into generic form, and marshaled again: encoding/json
// emits map keys in sorted order, so objects that differ only in key order
// produce identical bytes.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical marshal: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonical decode: %w", err)
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonical remarshal: %w", err)
	}
	return out, nil
}

// HashItem hashes an arbitrary item. Strings and byte slices hash over their
// raw bytes, so a caller holding only the digest of a plain record can still
// locate its leaf. Everything else hashes over its canonical JSON form.
func HashItem(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return HashString(t), nil
	case []byte:
		return HashBytes(t), nil
	}
	data, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// CanonicalEqual reports whether a and b have identical canonical JSON forms.
// It tolerates numeric representation differences (int vs float64) that
// plain equality would miss.
func CanonicalEqual(a, b any) bool {
	ca, err := CanonicalJSON(a)
	if err != nil {
		return false
	}
	cb, err := CanonicalJSON(b)
	if err != nil {
		return false
	}
	return string(ca) == string(cb)
}
