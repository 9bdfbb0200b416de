package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// emptyObject is what a topic reads as when it has never been written
var emptyObject = json.RawMessage(`{}`)

// Bucket maps every topic of a namespace to its current state.
// Values are kept in compact JSON so two payloads are equal when their
// bytes are equal.
type Bucket map[string]json.RawMessage

// NewBucket creates an empty bucket
func NewBucket() Bucket {
	return make(Bucket)
}

// Get returns the raw state for topic, or an empty object if absent
func (b Bucket) Get(topic string) json.RawMessage {
	raw, ok := b[topic]
	if !ok || len(raw) == 0 {
		return append(json.RawMessage(nil), emptyObject...)
	}
	return append(json.RawMessage(nil), raw...)
}

// Has reports whether topic has ever been written
func (b Bucket) Has(topic string) bool {
	_, ok := b[topic]
	return ok
}

// Decode unmarshals the state of topic into v
func (b Bucket) Decode(topic string, v any) error {
	if err := json.Unmarshal(b.Get(topic), v); err != nil {
		return fmt.Errorf("decode topic %s: %w", topic, err)
	}
	return nil
}

// Clone returns a copy that shares no memory with b
func (b Bucket) Clone() Bucket {
	out := make(Bucket, len(b))
	for topic, raw := range b {
		out[topic] = append(json.RawMessage(nil), raw...)
	}
	return out
}

// With returns a copy of b with topic set to raw
func (b Bucket) With(topic string, raw json.RawMessage) Bucket {
	out := b.Clone()
	out[topic] = append(json.RawMessage(nil), raw...)
	return out
}

// Topics returns the topics held by the bucket in sorted order
func (b Bucket) Topics() []string {
	topics := make([]string, 0, len(b))
	for topic := range b {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Encode normalizes a payload to compact JSON.
// A json.RawMessage is compacted as-is; any other value, []byte included,
// goes through json.Marshal.
func Encode(v any) (json.RawMessage, error) {
	var data []byte
	switch raw := v.(type) {
	case json.RawMessage:
		data = raw
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		data = encoded
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// Serialize renders the whole bucket as canonical JSON (topics sorted)
func Serialize(b Bucket) ([]byte, error) {
	if b == nil {
		b = Bucket{}
	}
	return json.Marshal(b)
}

// Redundant reports whether writing raw into topic leaves the serialized
// bucket unchanged
func Redundant(b Bucket, topic string, raw json.RawMessage) (bool, error) {
	prev, err := Serialize(b)
	if err != nil {
		return false, err
	}
	next, err := Serialize(b.With(topic, raw))
	if err != nil {
		return false, err
	}
	return bytes.Equal(prev, next), nil
}
