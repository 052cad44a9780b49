package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// Codec turns a snapshot into bytes and back.
type Codec interface {
	Name() string
	Encode(s *Snapshot) ([]byte, error)
	Decode(data []byte, s *Snapshot) error
}

// NewCodec returns the codec registered under name; an empty name selects JSON.
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecMsgpack:
		return MsgpackCodec{}, nil
	}
	return nil, fmt.Errorf("unknown snapshot codec %q", name)
}

// JSONCodec writes indented JSON so stored files stay readable.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Encode(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func (JSONCodec) Decode(data []byte, s *Snapshot) error {
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return nil
}

// MsgpackCodec reuses the json field names, so both encodings carry the same keys.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (MsgpackCodec) Encode(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Decode(data []byte, s *Snapshot) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(s); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return nil
}
