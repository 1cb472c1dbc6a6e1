package provider_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/reachout/pkg/service/provider"
)

type record struct {
	ID string `json:"id"`
}

func TestDecodeList(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		body := []byte(` [{"id":"a"},{"id":"b"}]`)
		gt.Value(t, provider.DetectShape(body)).Equal(provider.ShapeBareArray)

		page, err := provider.DecodeList[record](body)
		gt.NoError(t, err).Required()
		gt.Array(t, page.Items).Length(2)
		gt.Number(t, page.Total).Equal(2)
		gt.Bool(t, page.HasMore()).False()
	})

	t.Run("items envelope", func(t *testing.T) {
		body := []byte(`{"items":[{"id":"a"}],"next_starting_after":"a"}`)
		gt.Value(t, provider.DetectShape(body)).Equal(provider.ShapeItems)

		page, err := provider.DecodeList[record](body)
		gt.NoError(t, err).Required()
		gt.Value(t, page.Items[0].ID).Equal("a")
		gt.Value(t, page.NextCursor).Equal("a")
		gt.Bool(t, page.HasMore()).True()
	})

	t.Run("data envelope", func(t *testing.T) {
		body := []byte(`{"data":[{"id":"a"},{"id":"b"}],"pagination":{"total":5,"perPage":2,"page":1}}`)
		gt.Value(t, provider.DetectShape(body)).Equal(provider.ShapeData)

		page, err := provider.DecodeList[record](body)
		gt.NoError(t, err).Required()
		gt.Array(t, page.Items).Length(2)
		gt.Number(t, page.Total).Equal(5)
		gt.Number(t, page.PerPage).Equal(2)
		gt.Bool(t, page.HasMore()).True()
	})

	t.Run("last data page", func(t *testing.T) {
		page, err := provider.DecodeList[record]([]byte(`{"data":[{"id":"e"}],"pagination":{"total":5,"perPage":2,"page":3}}`))
		gt.NoError(t, err).Required()
		gt.Bool(t, page.HasMore()).False()
	})

	t.Run("unknown shape", func(t *testing.T) {
		_, err := provider.DecodeList[record]([]byte(`{"campaigns":[]}`))
		gt.Error(t, err).Is(provider.ErrUnknownEnvelope)

		_, err = provider.DecodeList[record]([]byte(``))
		gt.Error(t, err).Is(provider.ErrUnknownEnvelope)
	})
}

func TestConnectionResult(t *testing.T) {
	ok := provider.Valid("acme")
	gt.Bool(t, ok.Valid).True()
	gt.Value(t, ok.Account).Equal("acme")

	bad := provider.Invalid(provider.NewTierUnsupported("instantly", "lead status"))
	gt.Bool(t, bad.Valid).False()
	gt.String(t, bad.Error).Contains("not available")
}

func TestTruncate(t *testing.T) {
	t.Run("short input is unchanged", func(t *testing.T) {
		gt.Value(t, provider.Truncate("abc", 5)).Equal("abc")
	})

	t.Run("cuts on a rune boundary", func(t *testing.T) {
		got := provider.Truncate(strings.Repeat("あ", 10), 3)
		gt.Value(t, got).Equal("あああ...")
		gt.Bool(t, utf8.ValidString(got)).True()
	})

	t.Run("mixed widths", func(t *testing.T) {
		got := provider.Truncate("a€b€c", 2)
		gt.Value(t, got).Equal("a€...")
		gt.Bool(t, utf8.ValidString(got)).True()
	})
}
