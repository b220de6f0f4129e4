package types

// Hunk line prefixes
const (
	LineContext = ' '
	LineDelete  = '-'
	LineInsert  = '+'
)

// FileChange is the unit of work a collaborator hands to the generator
type FileChange struct {
	FilePath        string `json:"filePath" yaml:"filePath"`
	OriginalContent string `json:"originalContent" yaml:"originalContent"`
	NewContent      string `json:"newContent" yaml:"newContent"`
	IssueID         string `json:"issueId" yaml:"issueId"`
	ModuleID        string `json:"moduleId" yaml:"moduleId"`
}

// PatchHunk is one contiguous changed region plus surrounding context.
// Starts are 1-based. OldLines counts every line not prefixed '+',
// NewLines every line not prefixed '-'.
type PatchHunk struct {
	OldStart int      `json:"oldStart" yaml:"oldStart"`
	OldLines int      `json:"oldLines" yaml:"oldLines"`
	NewStart int      `json:"newStart" yaml:"newStart"`
	NewLines int      `json:"newLines" yaml:"newLines"`
	Lines    []string `json:"lines" yaml:"lines"`
}

// Patch describes every change to a single file
type Patch struct {
	FilePath        string      `json:"filePath" yaml:"filePath"`
	Hunks           []PatchHunk `json:"hunks" yaml:"hunks"`
	OriginalContent string      `json:"originalContent" yaml:"originalContent"`
	NewContent      string      `json:"newContent" yaml:"newContent"`
	IssueID         string      `json:"issueId" yaml:"issueId"`
	ModuleID        string      `json:"moduleId" yaml:"moduleId"`
}

// IsEmpty reports whether the patch carries no changes
func (p *Patch) IsEmpty() bool {
	return p == nil || len(p.Hunks) == 0
}

// PatchStats summarizes a patch for display
type PatchStats struct {
	Additions int `json:"additions" yaml:"additions"`
	Deletions int `json:"deletions" yaml:"deletions"`
	Hunks     int `json:"hunks" yaml:"hunks"`
}

// CountLines tallies the old and new side of a hunk from its lines
func (h PatchHunk) CountLines() (oldLines, newLines int) {
	for _, line := range h.Lines {
		if line == "" {
			oldLines++
			newLines++
			continue
		}
		switch line[0] {
		case LineInsert:
			newLines++
		case LineDelete:
			oldLines++
		case '\\':
			// "\ No newline at end of file" markers count on neither side
		default:
			oldLines++
			newLines++
		}
	}
	return oldLines, newLines
}
