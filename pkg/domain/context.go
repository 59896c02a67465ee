package domain

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Context holds bot-defined state for one conversation. It has no fixed schema.
type Context map[string]any

// Clone returns a shallow copy. A nil context clones to an empty one.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a shallow merge of additional over c. Neither input is modified.
func (c Context) Merge(additional Context) Context {
	out := c.Clone()
	maps.Copy(out, additional)
	return out
}

// DecodeContext decodes the opaque context into a typed struct.
// Struct fields are matched through "mapstructure" tags.
func DecodeContext(c Context, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to build context decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(c)); err != nil {
		return fmt.Errorf("failed to decode context: %w", err)
	}
	return nil
}
