package core

import (
	"time"

	"limsmock/pkg/domain"
)

// SampleQuery filters GetSamples. Empty fields impose no constraint.
type SampleQuery struct {
	Name        []string
	ProjectID   string
	ProjectName string
	// Start is accepted for call-site parity with the remote API and ignored.
	Start int
}

// ArtifactQuery filters GetArtifacts. Empty fields impose no constraint.
type ArtifactQuery struct {
	// ProcessType admits artifacts whose parent process has one of these
	// type names. Artifacts without a parent process never match.
	ProcessType []string
	// SampleLimsID admits artifacts derived from this sample.
	SampleLimsID string
	Type         domain.ArtifactKind
	Start        int
}

// ProcessQuery filters GetProcesses. Empty fields impose no constraint.
type ProcessQuery struct {
	Type []string
	// UDF admits processes whose own UDF holds every key with an equal value.
	UDF                 domain.UDF
	InputArtifactLimsID string
	// LastModified admits processes modified at or after this instant.
	// Processes with no modification time never match.
	LastModified *time.Time
	Start        int
}

// ProcessTypes normalises a single name or a list of names into a filter
// list, dropping blanks.
func ProcessTypes(names ...string) []string {
	return nonBlank(names)
}

func nonBlank(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
