package store

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/yourusername/nfw/core"
)

// Codec serializes a whole bucket for storage
type Codec interface {
	Name() string
	Marshal(b core.Bucket) ([]byte, error)
	Unmarshal(data []byte) (core.Bucket, error)
}

// JSONCodec stores the bucket as a flat JSON object of topic to state
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(b core.Bucket) ([]byte, error) {
	return core.Serialize(b)
}

func (JSONCodec) Unmarshal(data []byte) (core.Bucket, error) {
	var b core.Bucket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if b == nil {
		// "null" decodes without error but is not a bucket
		return nil, fmt.Errorf("bucket is null")
	}
	return b, nil
}

// CBORCodec stores the bucket as a deterministic CBOR map.
// Each state is carried as a byte string of its JSON form.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec creates a CBOR codec using core deterministic encoding
func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) Name() string { return "cbor" }

func (c *CBORCodec) Marshal(b core.Bucket) ([]byte, error) {
	if b == nil {
		b = core.Bucket{}
	}
	return c.enc.Marshal(b)
}

func (c *CBORCodec) Unmarshal(data []byte) (core.Bucket, error) {
	var b core.Bucket
	if err := c.dec.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("bucket is null")
	}
	for topic, raw := range b {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("topic %s holds invalid JSON", topic)
		}
	}
	return b, nil
}

// CodecByName returns the codec registered under name ("json" or "cbor")
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		return NewCBORCodec()
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
