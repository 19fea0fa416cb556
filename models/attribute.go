package models

import (
	"encoding/json"
	"fmt"
)

type AttributeKind uint8

const (
	AttributeString AttributeKind = iota
	AttributeNumber
	AttributeBool
)

func (k AttributeKind) String() string {
	switch k {
	case AttributeString:
		return "string"
	case AttributeNumber:
		return "number"
	case AttributeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// AttributeValue is a scalar attribute of an item or NFT. Only the field
// matching Kind is meaningful.
type AttributeValue struct {
	Kind AttributeKind
	Str  string
	Num  float64
	Bool bool
}

// Attributes is the free-form attribute mapping carried by items and NFTs.
type Attributes map[string]AttributeValue

func StringAttr(s string) AttributeValue  { return AttributeValue{Kind: AttributeString, Str: s} }
func NumberAttr(n float64) AttributeValue { return AttributeValue{Kind: AttributeNumber, Num: n} }
func BoolAttr(b bool) AttributeValue      { return AttributeValue{Kind: AttributeBool, Bool: b} }

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AttributeNumber:
		return json.Marshal(v.Num)
	case AttributeBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case string:
		*v = StringAttr(val)
	case float64:
		*v = NumberAttr(val)
	case bool:
		*v = BoolAttr(val)
	default:
		return fmt.Errorf("unsupported attribute value %s", string(data))
	}

	return nil
}

// Clone returns a copy that shares nothing with the receiver.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}

	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
