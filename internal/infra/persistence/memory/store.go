// Package memory provides the in-memory entity store backing the mock LIMS
// for one test session.
package memory

import (
	"limsmock/pkg/domain"

	"github.com/google/uuid"
)

type (
	// Sample aliases domain.Sample for store operations.
	Sample = domain.Sample
	// Artifact aliases domain.Artifact.
	Artifact = domain.Artifact
	// Process aliases domain.Process.
	Process = domain.Process
	// ProcessType aliases domain.ProcessType.
	ProcessType = domain.ProcessType
	// Container aliases domain.Container.
	Container = domain.Container
	// ContainerType aliases domain.ContainerType.
	ContainerType = domain.ContainerType
	// ReagentLabel aliases domain.ReagentLabel.
	ReagentLabel = domain.ReagentLabel
	// Project aliases domain.Project.
	Project = domain.Project
	// Researcher aliases domain.Researcher.
	Researcher = domain.Researcher
)

// Snapshot is the serialisable form of the whole store, in insertion order
// per type. It doubles as the fixture document format.
type Snapshot struct {
	ReagentLabels  []ReagentLabel  `json:"reagent_labels,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Researchers    []Researcher    `json:"researchers,omitempty"`
	ProcessTypes   []ProcessType   `json:"process_types,omitempty"`
	ContainerTypes []ContainerType `json:"container_types,omitempty"`
	Processes      []Process       `json:"processes,omitempty"`
	Artifacts      []Artifact      `json:"artifacts,omitempty"`
	Samples        []Sample        `json:"samples,omitempty"`
	Containers     []Container     `json:"containers,omitempty"`
}

// table keeps rows of one entity type in insertion order. Ids are not
// checked for uniqueness; lookups return the most recently added row.
type table[T domain.Entity] struct {
	rows  []T
	clone func(T) T
}

func newTable[T domain.Entity](clone func(T) T) table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return table[T]{clone: clone}
}

func (t *table[T]) add(v T) {
	t.rows = append(t.rows, t.clone(v))
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, t.clone(r))
	}
	return out
}

func (t *table[T]) find(id string) (T, bool) {
	for i := len(t.rows) - 1; i >= 0; i-- {
		if t.rows[i].EntityID() == id {
			return t.clone(t.rows[i]), true
		}
	}
	var zero T
	return zero, false
}

// findMany resolves ids with one pass over the rows.
func (t *table[T]) findMany(ids []string) ([]T, []string) {
	index := make(map[string]int, len(t.rows))
	for i, r := range t.rows {
		index[r.EntityID()] = i
	}
	found := make([]T, 0, len(ids))
	var missing []string
	for _, id := range ids {
		pos, ok := index[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		found = append(found, t.clone(t.rows[pos]))
	}
	return found, missing
}

func (t *table[T]) remove(id string) int {
	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if r.EntityID() == id {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
	return removed
}

func (t *table[T]) reset() { t.rows = nil }

// Store holds the complete universe of mock entities for one test session.
//
// Store is not safe for concurrent use; a harness running tests in parallel
// against one store must synchronise access itself.
type Store struct {
	samples        table[Sample]
	artifacts      table[Artifact]
	processes      table[Process]
	processTypes   table[ProcessType]
	containers     table[Container]
	containerTypes table[ContainerType]
	reagentLabels  table[ReagentLabel]
	projects       table[Project]
	researchers    table[Researcher]
	newID          func() string
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		samples:        newTable(Sample.Clone),
		artifacts:      newTable(Artifact.Clone),
		processes:      newTable(Process.Clone),
		processTypes:   newTable[ProcessType](nil),
		containers:     newTable(Container.Clone),
		containerTypes: newTable[ContainerType](nil),
		reagentLabels:  newTable[ReagentLabel](nil),
		projects:       newTable[Project](nil),
		researchers:    newTable[Researcher](nil),
		newID:          uuid.NewString,
	}
}

func (s *Store) assignID(id *string) {
	if *id == "" {
		*id = s.newID()
	}
}

// AddSample inserts a sample, assigning an id when none is supplied.
func (s *Store) AddSample(sample Sample) Sample {
	s.assignID(&sample.ID)
	s.samples.add(sample)
	return sample.Clone()
}

// AddArtifact inserts an artifact, assigning an id when none is supplied.
func (s *Store) AddArtifact(artifact Artifact) Artifact {
	s.assignID(&artifact.ID)
	s.artifacts.add(artifact)
	return artifact.Clone()
}

// AddProcess inserts a process, assigning an id when none is supplied.
func (s *Store) AddProcess(process Process) Process {
	s.assignID(&process.ID)
	s.processes.add(process)
	return process.Clone()
}

// AddProcessType inserts a process type.
func (s *Store) AddProcessType(pt ProcessType) ProcessType {
	s.assignID(&pt.ID)
	s.processTypes.add(pt)
	return pt
}

// AddContainer inserts a container.
func (s *Store) AddContainer(container Container) Container {
	s.assignID(&container.ID)
	s.containers.add(container)
	return container.Clone()
}

// AddContainerType inserts a container type.
func (s *Store) AddContainerType(ct ContainerType) ContainerType {
	s.assignID(&ct.ID)
	s.containerTypes.add(ct)
	return ct
}

// AddReagentLabel inserts a reagent label. Labels are keyed by name and never
// receive a generated id.
func (s *Store) AddReagentLabel(label ReagentLabel) ReagentLabel {
	s.reagentLabels.add(label)
	return label
}

// AddProject inserts a project.
func (s *Store) AddProject(project Project) Project {
	s.assignID(&project.ID)
	s.projects.add(project)
	return project
}

// AddResearcher inserts a researcher.
func (s *Store) AddResearcher(researcher Researcher) Researcher {
	s.assignID(&researcher.ID)
	s.researchers.add(researcher)
	return researcher
}

// Samples returns every sample in insertion order.
func (s *Store) Samples() []Sample { return s.samples.all() }

// Artifacts returns every artifact in insertion order.
func (s *Store) Artifacts() []Artifact { return s.artifacts.all() }

// Processes returns every process in insertion order.
func (s *Store) Processes() []Process { return s.processes.all() }

// ProcessTypes returns every process type in insertion order.
func (s *Store) ProcessTypes() []ProcessType { return s.processTypes.all() }

// Containers returns every container in insertion order.
func (s *Store) Containers() []Container { return s.containers.all() }

// ContainerTypes returns every container type in insertion order.
func (s *Store) ContainerTypes() []ContainerType { return s.containerTypes.all() }

// ReagentLabels returns every reagent label in insertion order.
func (s *Store) ReagentLabels() []ReagentLabel { return s.reagentLabels.all() }

// Projects returns every project in insertion order.
func (s *Store) Projects() []Project { return s.projects.all() }

// Researchers returns every researcher in insertion order.
func (s *Store) Researchers() []Researcher { return s.researchers.all() }

// FindSample looks up a sample by id.
func (s *Store) FindSample(id string) (Sample, bool) { return s.samples.find(id) }

// FindArtifact looks up an artifact by id.
func (s *Store) FindArtifact(id string) (Artifact, bool) { return s.artifacts.find(id) }

// FindProcess looks up a process by id.
func (s *Store) FindProcess(id string) (Process, bool) { return s.processes.find(id) }

// FindProcessType looks up a process type by id.
func (s *Store) FindProcessType(id string) (ProcessType, bool) { return s.processTypes.find(id) }

// FindContainer looks up a container by id.
func (s *Store) FindContainer(id string) (Container, bool) { return s.containers.find(id) }

// FindContainerType looks up a container type by id.
func (s *Store) FindContainerType(id string) (ContainerType, bool) {
	return s.containerTypes.find(id)
}

// FindReagentLabel looks up a reagent label by name.
func (s *Store) FindReagentLabel(name string) (ReagentLabel, bool) {
	return s.reagentLabels.find(name)
}

// FindProject looks up a project by id.
func (s *Store) FindProject(id string) (Project, bool) { return s.projects.find(id) }

// FindResearcher looks up a researcher by id.
func (s *Store) FindResearcher(id string) (Researcher, bool) { return s.researchers.find(id) }

// FindArtifacts resolves ids in a single batch. Hits are returned in request
// order; ids with no artifact are returned as missing.
func (s *Store) FindArtifacts(ids []string) ([]Artifact, []string) {
	return s.artifacts.findMany(ids)
}

// DeleteContainer removes every container with the id. Deleting a container
// that is not in the store returns a domain.NotFoundError.
func (s *Store) DeleteContainer(id string) error {
	if s.containers.remove(id) == 0 {
		return domain.NewNotFound(domain.EntityContainer, id)
	}
	return nil
}

// Reset drops every entity.
func (s *Store) Reset() {
	s.samples.reset()
	s.artifacts.reset()
	s.processes.reset()
	s.processTypes.reset()
	s.containers.reset()
	s.containerTypes.reset()
	s.reagentLabels.reset()
	s.projects.reset()
	s.researchers.reset()
}

// ExportState clones the current store contents.
func (s *Store) ExportState() Snapshot {
	return Snapshot{
		ReagentLabels:  s.reagentLabels.all(),
		Projects:       s.projects.all(),
		Researchers:    s.researchers.all(),
		ProcessTypes:   s.processTypes.all(),
		ContainerTypes: s.containerTypes.all(),
		Processes:      s.processes.all(),
		Artifacts:      s.artifacts.all(),
		Samples:        s.samples.all(),
		Containers:     s.containers.all(),
	}
}

// Counts reports the number of stored entities per type.
func (s *Store) Counts() map[domain.EntityType]int {
	return map[domain.EntityType]int{
		domain.EntitySample:        len(s.samples.rows),
		domain.EntityArtifact:      len(s.artifacts.rows),
		domain.EntityProcess:       len(s.processes.rows),
		domain.EntityProcessType:   len(s.processTypes.rows),
		domain.EntityContainer:     len(s.containers.rows),
		domain.EntityContainerType: len(s.containerTypes.rows),
		domain.EntityReagentLabel:  len(s.reagentLabels.rows),
		domain.EntityProject:       len(s.projects.rows),
		domain.EntityResearcher:    len(s.researchers.rows),
	}
}
