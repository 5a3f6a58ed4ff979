package memory

// Snapshot bucket names, in the order their entities must be inserted.
const (
	BucketReagentLabels  = "reagent_labels"
	BucketProjects       = "projects"
	BucketResearchers    = "researchers"
	BucketProcessTypes   = "process_types"
	BucketContainerTypes = "container_types"
	BucketProcesses      = "processes"
	BucketArtifacts      = "artifacts"
	BucketSamples        = "samples"
	BucketContainers     = "containers"
)

// Buckets lists every snapshot bucket in dependency order.
var Buckets = []string{
	BucketReagentLabels,
	BucketProjects,
	BucketResearchers,
	BucketProcessTypes,
	BucketContainerTypes,
	BucketProcesses,
	BucketArtifacts,
	BucketSamples,
	BucketContainers,
}

// Targets maps each bucket name to a pointer to the matching slice so
// callers can decode bucket payloads straight into the snapshot.
func (s *Snapshot) Targets() map[string]any {
	return map[string]any{
		BucketReagentLabels:  &s.ReagentLabels,
		BucketProjects:       &s.Projects,
		BucketResearchers:    &s.Researchers,
		BucketProcessTypes:   &s.ProcessTypes,
		BucketContainerTypes: &s.ContainerTypes,
		BucketProcesses:      &s.Processes,
		BucketArtifacts:      &s.Artifacts,
		BucketSamples:        &s.Samples,
		BucketContainers:     &s.Containers,
	}
}

// Values maps each bucket name to its slice, for encoding.
func (s Snapshot) Values() map[string]any {
	return map[string]any{
		BucketReagentLabels:  s.ReagentLabels,
		BucketProjects:       s.Projects,
		BucketResearchers:    s.Researchers,
		BucketProcessTypes:   s.ProcessTypes,
		BucketContainerTypes: s.ContainerTypes,
		BucketProcesses:      s.Processes,
		BucketArtifacts:      s.Artifacts,
		BucketSamples:        s.Samples,
		BucketContainers:     s.Containers,
	}
}

// Len reports the total number of entities held by the snapshot.
func (s Snapshot) Len() int {
	return len(s.ReagentLabels) + len(s.Projects) + len(s.Researchers) +
		len(s.ProcessTypes) + len(s.ContainerTypes) + len(s.Processes) +
		len(s.Artifacts) + len(s.Samples) + len(s.Containers)
}

// ImportState appends every entity of snapshot through the regular add
// operations, in dependency order. Existing contents are kept; entities
// without an id are assigned one.
func (s *Store) ImportState(snapshot Snapshot) {
	for _, v := range snapshot.ReagentLabels {
		s.AddReagentLabel(v)
	}
	for _, v := range snapshot.Projects {
		s.AddProject(v)
	}
	for _, v := range snapshot.Researchers {
		s.AddResearcher(v)
	}
	for _, v := range snapshot.ProcessTypes {
		s.AddProcessType(v)
	}
	for _, v := range snapshot.ContainerTypes {
		s.AddContainerType(v)
	}
	for _, v := range snapshot.Processes {
		s.AddProcess(v)
	}
	for _, v := range snapshot.Artifacts {
		s.AddArtifact(v)
	}
	for _, v := range snapshot.Samples {
		s.AddSample(v)
	}
	for _, v := range snapshot.Containers {
		s.AddContainer(v)
	}
}
