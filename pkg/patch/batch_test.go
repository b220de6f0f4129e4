// pkg/patch/batch_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify concurrent multi-file generation and failure isolation

package patch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibecheck/autofix/pkg/errors"
	"github.com/vibecheck/autofix/pkg/types"
)

func TestGenerateMultiFilePatch_PreservesOrder(t *testing.T) {
	g := NewGenerator(Options{Workers: 3})

	var changes []types.FileChange
	for i := 0; i < 25; i++ {
		changes = append(changes, types.FileChange{
			FilePath:        fmt.Sprintf("file%02d.txt", i),
			OriginalContent: "a\nb",
			NewContent:      fmt.Sprintf("a\n%d", i),
			IssueID:         fmt.Sprintf("issue-%d", i),
		})
	}

	patches, err := g.GenerateMultiFilePatch(changes)
	require.NoError(t, err)
	require.Len(t, patches, 25)
	for i, p := range patches {
		assert.Equal(t, fmt.Sprintf("file%02d.txt", i), p.FilePath)
		assert.Equal(t, fmt.Sprintf("issue-%d", i), p.IssueID)
	}
}

func TestGenerateMultiFilePatch_Empty(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	patches, err := g.GenerateMultiFilePatch(nil)
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestGenerateMultiFilePatch_InvalidShape(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	_, err := g.GenerateMultiFilePatch([]types.FileChange{
		{FilePath: "ok.txt"},
		{FilePath: ""},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, 1, errors.GetErrorDetails(err)[errors.DetailIndex])
}

func TestGenerateBatch_PartialFailure(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFileSize = 8
	g := NewGenerator(opts)

	changes := []types.FileChange{
		{FilePath: "a.txt", OriginalContent: "a", NewContent: "b"},
		{FilePath: "big.txt", OriginalContent: "a", NewContent: "way too large"},
		{FilePath: "c.txt", OriginalContent: "c", NewContent: "d"},
	}

	result, err := g.GenerateBatch(context.Background(), changes)
	require.NoError(t, err)
	require.Len(t, result.Patches, 2)
	assert.Equal(t, "a.txt", result.Patches[0].FilePath)
	assert.Equal(t, "c.txt", result.Patches[1].FilePath)
	assert.Equal(t, []int{1}, result.FailedIndexes())
	assert.True(t, errors.IsErrorCode(result.Failures[1], errors.ErrFileTooLarge))

	patches, err := g.GenerateMultiFilePatch(changes)
	require.NoError(t, err)
	assert.Len(t, patches, 2)
}

func TestGenerateMultiFilePatch_AllFail(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	_, err := g.GenerateMultiFilePatch([]types.FileChange{
		{FilePath: "a.txt", OriginalContent: "\xff", NewContent: "x"},
		{FilePath: "b.txt", OriginalContent: "x", NewContent: "\xfe"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGenerationFailed))
	assert.Equal(t, errors.DomainGeneration, errors.GetDomain(err))

	messages, ok := errors.GetErrorDetails(err)[errors.DetailErrors].(map[int]string)
	require.True(t, ok)
	assert.Len(t, messages, 2)
	assert.Contains(t, messages[0], "a.txt")
	assert.Contains(t, messages[1], "b.txt")
}

func TestGenerateBatch_CancelledContext(t *testing.T) {
	g := NewGenerator(DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateBatch(ctx, []types.FileChange{
		{FilePath: "a.txt", OriginalContent: "a", NewContent: "b"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGenerationFailed))
}
