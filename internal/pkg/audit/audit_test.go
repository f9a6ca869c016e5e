package audit

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecorder_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	rec := NewLogRecorder(zerolog.New(io.Discard), 2)

	for _, action := range []string{"a", "b", "c"} {
		require.NoError(t, rec.Record(ctx, Entry{ActorID: "u", Action: action}))
	}

	got, err := rec.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Action)
	assert.Equal(t, "b", got[1].Action)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
}
