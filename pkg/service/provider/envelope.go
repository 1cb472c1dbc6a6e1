package provider

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// Shape identifies the JSON layout of a list response
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeBareArray is a top-level JSON array
	ShapeBareArray
	// ShapeItems is {"items": [...], "next_starting_after": "..."}
	ShapeItems
	// ShapeData is {"data": [...], "pagination": {...}}
	ShapeData
)

func (s Shape) String() string {
	switch s {
	case ShapeBareArray:
		return "bare_array"
	case ShapeItems:
		return "items"
	case ShapeData:
		return "data"
	default:
		return "unknown"
	}
}

// ErrUnknownEnvelope is returned when a list body matches no known shape
var ErrUnknownEnvelope = goerr.New("unknown list envelope")

// Page is the canonical list result every envelope is normalized into
type Page[T any] struct {
	Items      []T
	Total      int
	PerPage    int
	Page       int
	NextCursor string
}

// HasMore reports whether another page may exist
func (p *Page[T]) HasMore() bool {
	if p.NextCursor != "" {
		return true
	}
	if p.PerPage > 0 && p.Total > 0 && p.Page > 0 {
		return p.Page*p.PerPage < p.Total
	}
	return false
}

// BareArray is a list returned as a top-level array
type BareArray[T any] []T

func (a BareArray[T]) normalize() *Page[T] {
	items := []T(a)
	return &Page[T]{Items: items, Total: len(items)}
}

// ItemsEnvelope is the cursor-paginated list shape
type ItemsEnvelope[T any] struct {
	Items             []T    `json:"items"`
	NextStartingAfter string `json:"next_starting_after,omitempty"`
}

func (e *ItemsEnvelope[T]) normalize() *Page[T] {
	return &Page[T]{Items: e.Items, Total: len(e.Items), NextCursor: e.NextStartingAfter}
}

// Pagination is the page metadata of DataEnvelope
type Pagination struct {
	Total   int `json:"total"`
	PerPage int `json:"perPage"`
	Page    int `json:"page"`
}

// DataEnvelope is the page-numbered list shape
type DataEnvelope[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func (e *DataEnvelope[T]) normalize() *Page[T] {
	page := &Page[T]{Items: e.Data, Total: len(e.Data)}
	if p := e.Pagination; p != nil {
		page.Total = p.Total
		page.PerPage = p.PerPage
		page.Page = p.Page
	}
	return page
}

// DetectShape inspects body and reports which envelope it uses
func DetectShape(body []byte) Shape {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ShapeUnknown
	}

	switch trimmed[0] {
	case '[':
		return ShapeBareArray
	case '{':
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return ShapeUnknown
		}
		if _, ok := keys["items"]; ok {
			return ShapeItems
		}
		if _, ok := keys["data"]; ok {
			return ShapeData
		}
	}
	return ShapeUnknown
}

// DecodeList decodes a list body in any known envelope into a Page
func DecodeList[T any](body []byte) (*Page[T], error) {
	shape := DetectShape(body)

	switch shape {
	case ShapeBareArray:
		var arr BareArray[T]
		if err := json.Unmarshal(body, &arr); err != nil {
			return nil, goerr.Wrap(err, "failed to decode list", goerr.V("shape", shape.String()))
		}
		return arr.normalize(), nil

	case ShapeItems:
		var env ItemsEnvelope[T]
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, goerr.Wrap(err, "failed to decode list", goerr.V("shape", shape.String()))
		}
		return env.normalize(), nil

	case ShapeData:
		var env DataEnvelope[T]
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, goerr.Wrap(err, "failed to decode list", goerr.V("shape", shape.String()))
		}
		return env.normalize(), nil

	default:
		return nil, goerr.Wrap(ErrUnknownEnvelope, "failed to decode list", goerr.V("body", truncate(string(body), 200)))
	}
}

// truncate keeps at most n runes of s
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
