package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "orgdrive.files.trashed", Subject("orgdrive.files", KindFileTrashed))
}

func TestEncodeDecode(t *testing.T) {
	in := FileEvent{
		Kind:       KindFilePurged,
		FileID:     "65f0c0ffee",
		OrgID:      "org1",
		Name:       "report.pdf",
		Type:       "pdf",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	payload, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, in.Kind, out.Kind)
	assert.Equal(t, in.FileID, out.FileID)
	assert.Equal(t, in.Name, out.Name)
	assert.True(t, in.OccurredAt.Equal(out.OccurredAt))
	assert.Empty(t, out.ActorID)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte{0xc1})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	var p Publisher = Discard{}
	assert.NoError(t, p.Publish(context.Background(), FileEvent{Kind: KindFileCreated}))
	assert.NoError(t, p.Close())
}
