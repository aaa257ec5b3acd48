package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encoder encodes values to a wire format.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

// Decoder decodes values from a wire format.
type Decoder interface {
	ContentType() string
	Decode(r io.Reader, v any) error
}

// jsonCodec implements both Encoder and Decoder for JSON.
type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (jsonCodec) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// yamlCodec implements both Encoder and Decoder for YAML.
type yamlCodec struct{}

func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) Decode(r io.Reader, v any) error {
	return yaml.NewDecoder(r).Decode(v)
}

// codecs maps format names and media types to their codec.
var codecs = map[string]interface {
	Encoder
	Decoder
}{
	"json":               jsonCodec{},
	"application/json":   jsonCodec{},
	"yaml":               yamlCodec{},
	"yml":                yamlCodec{},
	"application/yaml":   yamlCodec{},
	"application/x-yaml": yamlCodec{},
	"text/yaml":          yamlCodec{},
}

func lookupCodec(format string) (interface {
	Encoder
	Decoder
}, error) {
	key := strings.ToLower(strings.TrimSpace(format))
	if strings.Contains(key, "/") {
		if mediaType, _, err := mime.ParseMediaType(key); err == nil {
			key = mediaType
		}
	}
	c, ok := codecs[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	return c, nil
}

// EncoderFor returns the encoder for a format name ("json", "yaml") or a
// media type such as "application/json; charset=utf-8".
func EncoderFor(format string) (Encoder, error) {
	return lookupCodec(format)
}

// DecoderFor is EncoderFor for decoders.
func DecoderFor(format string) (Decoder, error) {
	return lookupCodec(format)
}

// Handle decodes one APICollection from in, routes it, and encodes the
// result to out.
func (r *Router) Handle(ctx context.Context, dec Decoder, enc Encoder, in io.Reader, out io.Writer) error {
	var c APICollection
	if err := dec.Decode(in, &c); err != nil {
		return fmt.Errorf("decode %s: %w", dec.ContentType(), err)
	}

	res, err := r.Route(ctx, c)
	if err != nil {
		return err
	}

	if err := enc.Encode(out, res); err != nil {
		return fmt.Errorf("encode %s: %w", enc.ContentType(), err)
	}
	return nil
}
