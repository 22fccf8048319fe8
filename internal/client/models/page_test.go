package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeDirectory_BareArray(t *testing.T) {
	data := []byte(`[{"id":"u1","email":"a@x.io"},{"id":"u2","email":"b@x.io"}]`)

	records, page, err := DecodeDirectory(data, CategoryArcer)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "u1", records[0].ID)
	require.Equal(t, Page{Current: 1, TotalPages: 1, TotalItems: 2}, page)
}

func TestDecodeDirectory_NestedCollectionAndPagination(t *testing.T) {
	data := []byte(`{
		"students": [
			{"id":"s1","name":"Ada","email":"ada@x.io","verified":true}
		],
		"pagination": {"currentPage":2,"totalPages":2,"totalItems":16,"hasMore":false}
	}`)

	records, page, err := DecodeDirectory(data, CategoryStudent)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Ada", records[0].DisplayName)
	require.True(t, records[0].Verified)
	require.Equal(t, Page{Current: 2, TotalPages: 2, TotalItems: 16, HasMore: false}, page)
}

func TestDecodeDirectory_FlattenedPagination(t *testing.T) {
	data := []byte(`{
		"users": [{"id":"u1","email":"a@x.io"}],
		"currentPage": 1, "totalPages": 3, "totalItems": 41, "hasMore": true
	}`)

	_, page, err := DecodeDirectory(data, CategoryArcer)
	require.NoError(t, err)
	require.Equal(t, Page{Current: 1, TotalPages: 3, TotalItems: 41, HasMore: true}, page)
}

func TestDecodeDirectory_UnknownShape(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"scalar", `42`},
		{"object without collection", `{"pagination":{"currentPage":1}}`},
		{"invalid json", `{"users": [`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, page, err := DecodeDirectory([]byte(tc.data), CategoryArcer)
			require.Error(t, err)
			require.Empty(t, records)
			require.Equal(t, ResetPage(), page)
		})
	}
}

func TestDecodeDirectory_ClampsCurrentPage(t *testing.T) {
	data := []byte(`{"users":[],"pagination":{"currentPage":9,"totalPages":4}}`)

	_, page, err := DecodeDirectory(data, CategoryArcer)
	require.NoError(t, err)
	require.Equal(t, 4, page.Current)
}

func TestRecordFromMap_IdentifierFallback(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   string
	}{
		{"id present", map[string]any{"id": "abc"}, "abc"},
		{"username fallback", map[string]any{"username": "ada"}, "ada"},
		{"positional fallback", map[string]any{"email": "a@x.io"}, "row-5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := recordFromMap(tc.fields, 4)
			require.Equal(t, tc.want, got.ID)
		})
	}
}

func TestRecordFromMap_KeepsUnknownScalarsInExtra(t *testing.T) {
	got := recordFromMap(map[string]any{
		"id":      "u1",
		"country": "LV",
		"points":  12.0,
		"active":  true,
		"nested":  map[string]any{"skip": "me"},
	}, 0)

	require.Equal(t, "LV", got.Extra["country"])
	require.Equal(t, "12", got.Extra["points"])
	require.Equal(t, "true", got.Extra["active"])
	require.NotContains(t, got.Extra, "nested")
}
