package types

import "time"

// TransactionStatus is the lifecycle state of a transaction
type TransactionStatus string

const (
	// TransactionPending accepts further fixes
	TransactionPending TransactionStatus = "pending"

	// TransactionCommitted is terminal; every fix was kept
	TransactionCommitted TransactionStatus = "committed"

	// TransactionRolledBack is terminal; every fix was reverted
	TransactionRolledBack TransactionStatus = "rolled_back"

	// TransactionPartial is terminal; at least one revert failed
	TransactionPartial TransactionStatus = "partial"
)

// IsTerminal reports whether no further transition is allowed
func (s TransactionStatus) IsTerminal() bool {
	return s != TransactionPending
}

// FixStatus is the state of a single fix within a transaction
type FixStatus string

const (
	FixApplied    FixStatus = "applied"
	FixRolledBack FixStatus = "rolled_back"
	FixFailed     FixStatus = "failed"
)

// TransactionFix records one applied fix and how to undo it
type TransactionFix struct {
	IssueID      string     `json:"issueId" yaml:"issueId"`
	FilePath     string     `json:"filePath" yaml:"filePath"`
	BackupPath   string     `json:"backupPath,omitempty" yaml:"backupPath,omitempty"`
	Status       FixStatus  `json:"status" yaml:"status"`
	AppliedAt    time.Time  `json:"appliedAt" yaml:"appliedAt"`
	RolledBackAt *time.Time `json:"rolledBackAt,omitempty" yaml:"rolledBackAt,omitempty"`
	Error        string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Transaction groups fixes that commit or roll back together
type Transaction struct {
	ID         string            `json:"id" yaml:"id"`
	Timestamp  time.Time         `json:"timestamp" yaml:"timestamp"`
	Status     TransactionStatus `json:"status" yaml:"status"`
	Fixes      []TransactionFix  `json:"fixes" yaml:"fixes"`
	Summary    string            `json:"summary" yaml:"summary"`
	CommitHash string            `json:"commitHash,omitempty" yaml:"commitHash,omitempty"`
}

// Clone returns a deep copy so callers never alias manager state
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	c.Fixes = make([]TransactionFix, len(t.Fixes))
	for i, fix := range t.Fixes {
		c.Fixes[i] = fix
		if fix.RolledBackAt != nil {
			at := *fix.RolledBackAt
			c.Fixes[i].RolledBackAt = &at
		}
	}
	return &c
}

// RollbackResult reports the per-fix breakdown of a rollback
type RollbackResult struct {
	Success         bool     `json:"success" yaml:"success"`
	FixesRolledBack int      `json:"fixesRolledBack" yaml:"fixesRolledBack"`
	FixesFailed     int      `json:"fixesFailed" yaml:"fixesFailed"`
	Errors          []string `json:"errors" yaml:"errors"`
}

// TransactionLogVersion is the only log document version this build reads
const TransactionLogVersion = 1

// TransactionLog is the durable projection of the full transaction list
type TransactionLog struct {
	Version          int            `json:"version" yaml:"version"`
	LastUpdated      time.Time      `json:"lastUpdated" yaml:"lastUpdated"`
	TransactionCount int            `json:"transactionCount" yaml:"transactionCount"`
	Transactions     []*Transaction `json:"transactions" yaml:"transactions"`
}
