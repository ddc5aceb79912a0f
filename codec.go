package bundlebase

import (
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
	"gopkg.in/yaml.v3"
)

// Codec turns plain data values into bytes and back using reflection,
// the way encoding/json does.  Trees use JSON unless told otherwise.
type Codec interface {
	Name() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// BlobMarshaler is implemented by values that know how to encode
// themselves.
type BlobMarshaler interface {
	MarshalBlob() ([]byte, error)
}

// BlobUnmarshaler is implemented by values that know how to decode
// themselves.  UnmarshalBlob must copy data if it keeps it.
type BlobUnmarshaler interface {
	UnmarshalBlob(data []byte) error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Structured codecs.
var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
	YAML    Codec = yamlCodec{}
)

type jsonCodec struct{}

func (jsonCodec) Name() string                               { return "json" }
func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) Name() string                               { return "msgpack" }
func (msgpackCodec) Marshal(v interface{}) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v interface{}) error { return msgpack.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Name() string                               { return "yaml" }
func (yamlCodec) Marshal(v interface{}) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v interface{}) error { return yaml.Unmarshal(data, v) }

// Snappy wraps inner so that its output is snappy-compressed.
func Snappy(inner Codec) Codec {
	return snappyCodec{inner: inner}
}

type snappyCodec struct {
	inner Codec
}

func (c snappyCodec) Name() string {
	return c.inner.Name() + "+snappy"
}

func (c snappyCodec) Marshal(v interface{}) ([]byte, error) {
	buf, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, buf), nil
}

func (c snappyCodec) Unmarshal(data []byte, v interface{}) error {
	buf, err := snappy.Decode(nil, data)
	if err != nil {
		return errors.Wrap(err, "snappy")
	}
	return c.inner.Unmarshal(buf, v)
}

// CodecFor picks a structured codec from the extension of a blob
// name: .json, .msgpack, .yaml and .yml are recognized, and a trailing
// .sz wraps the codec of the inner extension in Snappy.  ok is false
// for any other name.
func CodecFor(name string) (codec Codec, ok bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".json":
		return JSON, true
	case ".msgpack", ".mpk":
		return MsgPack, true
	case ".yaml", ".yml":
		return YAML, true
	case ".sz":
		inner, ok := CodecFor(strings.TrimSuffix(name, filepath.Ext(name)))
		if !ok {
			return nil, false
		}
		return Snappy(inner), true
	}
	return nil, false
}
