package api

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts a payload to a protobuf Struct by way of its JSON form.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	return structpb.NewStruct(m)
}

// FromStruct fills v from a protobuf Struct produced by ToStruct.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return fmt.Errorf("empty payload")
	}
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
