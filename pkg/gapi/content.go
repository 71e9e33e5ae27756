package gapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fivetwenty-io/gapi-client/internal/constants"
)

// Content is a request body. Length returns -1 when the size is not known
// in advance.
type Content interface {
	Length() (int64, error)
	Type() string
	WriteTo(w io.Writer) (int64, error)
}

// ByteArrayContent is an in-memory body.
type ByteArrayContent struct {
	contentType string
	data        []byte
}

// NewByteArrayContent wraps data without copying it.
func NewByteArrayContent(contentType string, data []byte) *ByteArrayContent {
	return &ByteArrayContent{contentType: contentType, data: data}
}

// NewStringContent returns a text/plain body holding s.
func NewStringContent(s string) *ByteArrayContent {
	return NewByteArrayContent(constants.ContentTypeText, []byte(s))
}

// Length returns the number of bytes in the body.
func (c *ByteArrayContent) Length() (int64, error) {
	return int64(len(c.data)), nil
}

// Type returns the media type.
func (c *ByteArrayContent) Type() string {
	return c.contentType
}

// Bytes returns the underlying data.
func (c *ByteArrayContent) Bytes() []byte {
	return c.data
}

// WriteTo writes the body to w.
func (c *ByteArrayContent) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrContentWrite, err)
	}

	return int64(n), nil
}

// JSONContent encodes a value as JSON on first use.
type JSONContent struct {
	value any

	once sync.Once
	data []byte
	err  error
}

// NewJSONContent returns a body that encodes value as JSON.
func NewJSONContent(value any) *JSONContent {
	return &JSONContent{value: value}
}

func (c *JSONContent) encode() ([]byte, error) {
	c.once.Do(func() {
		c.data, c.err = json.Marshal(c.value)
		if c.err != nil {
			c.err = fmt.Errorf("%w: %w", ErrContentEncoding, c.err)
		}
	})

	return c.data, c.err
}

// Length returns the size of the encoded value. Encoding failures are
// reported here.
func (c *JSONContent) Length() (int64, error) {
	data, err := c.encode()
	if err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}

// Type returns the JSON media type.
func (c *JSONContent) Type() string {
	return constants.ContentTypeJSON
}

// WriteTo writes the encoded value to w.
func (c *JSONContent) WriteTo(w io.Writer) (int64, error) {
	data, err := c.encode()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrContentWrite, err)
	}

	return int64(n), nil
}

// ReadContent serialises content into memory. A nil content yields nil.
func ReadContent(content Content) ([]byte, error) {
	if content == nil {
		return nil, nil
	}

	var buf bytes.Buffer

	_, err := content.WriteTo(&buf)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// isEmpty reports whether content carries no bytes. Unknown lengths (-1)
// count as non-empty.
func isEmpty(content Content) (bool, error) {
	if content == nil {
		return true, nil
	}

	length, err := content.Length()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrContentLength, err)
	}

	return length == 0, nil
}
