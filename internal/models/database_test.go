package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultDatabase_Seed(t *testing.T) {
	db := DefaultDatabase()
	require.Len(t, db.Tasks, 3)
	require.Len(t, db.Columns, 4)
	for i, want := range []ColumnID{ColumnBacklog, ColumnInProgress, ColumnReview} {
		require.Equal(t, want, db.Tasks[i].Column)
		require.Equal(t, want, db.Tasks[i].Status)
	}

	// fresh storage every call
	db.Tasks[0].Title = "changed"
	require.NotEqual(t, "changed", DefaultDatabase().Tasks[0].Title)
}

func TestDatabase_NextTaskIDIsFresh(t *testing.T) {
	db := DefaultDatabase()
	now := time.UnixMilli(1_700_000_000_000)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := db.NextTaskID(now)
		_, taken := db.FindTask(id)
		require.False(t, taken)
		require.False(t, seen[id.String()])
		seen[id.String()] = true
		db.Tasks = append(db.Tasks, Task{ID: id})
	}
}

func TestDatabase_FindTask(t *testing.T) {
	db := DefaultDatabase()
	i, ok := db.FindTask(NumericID(2))
	require.True(t, ok)
	require.Equal(t, 1, i)

	_, ok = db.FindTask(StringID("404"))
	require.False(t, ok)
}
