package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDocument_DecodesBackendPayload(t *testing.T) {
	raw := `{
		"id": 7,
		"file": "http://localhost:8000/media/documents/invoice.pdf",
		"document_type": null,
		"status": "completed",
		"uploaded_at": "2025-03-01T10:15:00.123456Z",
		"extracted_data": [
			{"id": 1, "document": 7, "key": "total", "value": "12.50", "is_validated": false},
			{"id": 2, "document": 7, "key": "date", "value": "2025-02-28", "is_validated": true}
		]
	}`

	var d Document
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	require.Equal(t, int64(7), d.ID)
	require.Equal(t, StatusCompleted, d.Status)
	require.Equal(t, UnclassifiedLabel, d.DisplayType())
	require.Equal(t, "invoice.pdf", d.Name())
	require.Equal(t, time.Date(2025, 3, 1, 10, 15, 0, 123456000, time.UTC), d.UploadedAt)
	require.Len(t, d.ExtractedData, 2)
	require.Equal(t, "total", d.ExtractedData[0].Key)
}

func TestDocument_Name(t *testing.T) {
	require.Equal(t, "Q1 report", Document{Title: "Q1 report", File: "/media/x.pdf"}.Name())
	require.Equal(t, "scan.png", Document{File: "/media/documents/scan.png?sig=1"}.Name())
	require.Equal(t, "a.txt", Document{FilePath: "uploads/a.txt"}.Name())
	require.Empty(t, Document{}.Name())
}

func TestDocument_DisplayType(t *testing.T) {
	require.Equal(t, "invoice", Document{DocumentType: "invoice"}.DisplayType())
	require.Equal(t, UnclassifiedLabel, Document{DocumentType: "  "}.DisplayType())
}

func TestDocument_FieldAndClone(t *testing.T) {
	d := Document{ExtractedData: []ExtractedField{{ID: 1, Value: "a"}, {ID: 2, Value: "b"}}}

	f, ok := d.Field(2)
	require.True(t, ok)
	f.Value = "changed"
	require.Equal(t, "changed", d.ExtractedData[1].Value, "Field returns a pointer into the slice")

	_, ok = d.Field(9)
	require.False(t, ok)

	c := d.Clone()
	c.ExtractedData[0].Value = "z"
	require.Equal(t, "a", d.ExtractedData[0].Value)
}

func TestStatus_Known(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusError} {
		require.True(t, s.Known(), s)
	}
	require.False(t, Status("archived").Known())
}

func TestUser_DisplayName(t *testing.T) {
	require.Equal(t, "Ada Lovelace", User{Name: "Ada Lovelace", Username: "ada"}.DisplayName())
	require.Equal(t, "ada", User{Username: "ada", Email: "a@x.io"}.DisplayName())
	require.Equal(t, "a@x.io", User{Email: "a@x.io"}.DisplayName())
}
