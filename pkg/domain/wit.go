package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// WitTraits maps a trait name to its candidate values, in the order Wit returned them.
type WitTraits = *orderedmap.OrderedMap[string, []WitTrait]

// NewWitTraits returns an empty, order-preserving trait map.
func NewWitTraits() WitTraits {
	return orderedmap.New[string, []WitTrait]()
}

// WitEntity is one extracted entity value.
type WitEntity struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Body       string  `json:"body"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
}

// WitIntent is one detected intent.
type WitIntent struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// WitTrait is one value of a detected trait.
type WitTrait struct {
	ID         string  `json:"id"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// WitResponse is the result of an NLU validation call.
type WitResponse struct {
	Text     string                 `json:"_text"`
	MsgID    string                 `json:"msg_id"`
	Entities map[string][]WitEntity `json:"entities"`
	Intents  []WitIntent            `json:"intents"`
	Traits   WitTraits              `json:"traits"`
}

// WitConfidenceKind says whether the winning candidate was an intent or a trait.
type WitConfidenceKind string

const (
	WitConfidenceIntent WitConfidenceKind = "intent"
	WitConfidenceTrait  WitConfidenceKind = "trait"
)

// WitConfidence is the single most confident intent or trait value.
// For intents Name is the intent name; for traits Name is the trait and Value its value.
type WitConfidence struct {
	Kind       WitConfidenceKind
	Name       string
	Value      string
	Confidence float64
}

// HighestConfidence scans intents first and then traits (in JSON order) and returns
// the candidate with the strictly greatest confidence. On exact ties the first one
// seen is kept. It returns nil when there are no candidates.
func (w WitResponse) HighestConfidence() *WitConfidence {
	var best *WitConfidence
	consider := func(c WitConfidence) {
		if best == nil || c.Confidence > best.Confidence {
			best = &c
		}
	}

	for _, intent := range w.Intents {
		consider(WitConfidence{Kind: WitConfidenceIntent, Name: intent.Name, Confidence: intent.Confidence})
	}

	if w.Traits != nil {
		for pair := w.Traits.Oldest(); pair != nil; pair = pair.Next() {
			for _, trait := range pair.Value {
				consider(WitConfidence{Kind: WitConfidenceTrait, Name: pair.Key, Value: trait.Value, Confidence: trait.Confidence})
			}
		}
	}

	return best
}

// ToInput converts the NLU result into a wit input for a retried request.
func (w WitResponse) ToInput() WitInput {
	return WitInput{
		Entities:          w.Entities,
		Intents:           w.Intents,
		Traits:            w.Traits,
		HighestConfidence: w.HighestConfidence(),
	}
}
