// pkg/types/types_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test hunk line counting, transaction cloning and status helpers

package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vibecheck/autofix/pkg/types"
)

func TestPatchHunkCountLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantOld int
		wantNew int
	}{
		{name: "empty", lines: nil, wantOld: 0, wantNew: 0},
		{name: "replace", lines: []string{" a", "-b", "+X", " c"}, wantOld: 3, wantNew: 3},
		{name: "pure insertion", lines: []string{"+x", "+y"}, wantOld: 0, wantNew: 2},
		{name: "empty line is context", lines: []string{"", "-b"}, wantOld: 2, wantNew: 1},
		{name: "no newline marker", lines: []string{"-a", `\ No newline at end of file`, "+b"}, wantOld: 1, wantNew: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldLines, newLines := types.PatchHunk{Lines: tt.lines}.CountLines()
			assert.Equal(t, tt.wantOld, oldLines)
			assert.Equal(t, tt.wantNew, newLines)
		})
	}
}

func TestPatchIsEmpty(t *testing.T) {
	var nilPatch *types.Patch
	assert.True(t, nilPatch.IsEmpty())
	assert.True(t, (&types.Patch{FilePath: "a"}).IsEmpty())
	assert.False(t, (&types.Patch{Hunks: []types.PatchHunk{{}}}).IsEmpty())
}

func TestTransactionStatusIsTerminal(t *testing.T) {
	assert.False(t, types.TransactionPending.IsTerminal())
	assert.True(t, types.TransactionCommitted.IsTerminal())
	assert.True(t, types.TransactionRolledBack.IsTerminal())
	assert.True(t, types.TransactionPartial.IsTerminal())
}

func TestTransactionClone(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tx := &types.Transaction{
		ID:     "tx_1_abcdef01",
		Status: types.TransactionPending,
		Fixes: []types.TransactionFix{
			{IssueID: "I-1", FilePath: "a.go", Status: types.FixRolledBack, RolledBackAt: &at},
		},
	}

	c := tx.Clone()
	assert.Equal(t, tx, c)

	c.Fixes[0].Status = types.FixFailed
	*c.Fixes[0].RolledBackAt = at.Add(time.Hour)
	assert.Equal(t, types.FixRolledBack, tx.Fixes[0].Status)
	assert.Equal(t, at, *tx.Fixes[0].RolledBackAt)

	var nilTx *types.Transaction
	assert.Nil(t, nilTx.Clone())
}
