package work_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"libdb.so/festiveglow/internal/work"
)

func TestFinish(t *testing.T) {
	r := work.Finish(500 * time.Millisecond)

	assert.True(t, r.Done())
	finished, ok := r.(work.Finished)
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, finished.Remaining)
}

func TestYield(t *testing.T) {
	r := work.Yield(250 * time.Millisecond)

	assert.False(t, r.Done())
	unfinished, ok := r.(work.Unfinished)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, unfinished.SuggestedSleep)
}
