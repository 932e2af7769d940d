package prop

import "encoding/json"

// MarshalJSON implements json.Marshaler for Value using the tagged
// {"kind": ..., ...} encoding described in §6.2.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toJSON())
}

// UnmarshalJSON implements json.Unmarshaler for Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var j jsonValue
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*v = fromJSON(j)
	return nil
}

func marshalMap(data map[string]Value) ([]byte, error) {
	return json.Marshal(data)
}

func unmarshalMap(data []byte) (map[string]Value, error) {
	var out map[string]Value
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
