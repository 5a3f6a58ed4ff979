// Package domain defines the mock LIMS entities, the explicit reference type
// linking them, and the error taxonomy shared by the store and query layer.
package domain

import "time"

// EntityType identifies the type of record held by the mock store.
type EntityType string

// Supported entity type identifiers used for store buckets and errors.
const (
	// EntitySample identifies a submitted sample.
	EntitySample EntityType = "sample"
	// EntityArtifact identifies a process input or output.
	EntityArtifact EntityType = "artifact"
	// EntityProcess identifies a process run.
	EntityProcess EntityType = "process"
	// EntityProcessType identifies a process classification.
	EntityProcessType EntityType = "process_type"
	// EntityContainer identifies a plate, tube or flowcell.
	EntityContainer EntityType = "container"
	// EntityContainerType identifies a container classification.
	EntityContainerType EntityType = "container_type"
	// EntityReagentLabel identifies an index/barcode definition.
	EntityReagentLabel EntityType = "reagent_label"
	EntityProject      EntityType = "project"
	EntityResearcher   EntityType = "researcher"
)

// ArtifactKind is the type tag carried by an artifact.
type ArtifactKind string

// Artifact kinds recognised by the query layer.
const (
	KindAnalyte          ArtifactKind = "Analyte"
	KindResultFile       ArtifactKind = "ResultFile"
	KindSharedResultFile ArtifactKind = "SharedResultFile"
)

// QCFlag is the quality-control status marker on an artifact.
type QCFlag string

// Canonical QC flag values.
const (
	QCUnknown QCFlag = "UNKNOWN"
	QCPassed  QCFlag = "PASSED"
	QCFailed  QCFlag = "FAILED"
)

// OutputGeneration describes how an output relates to the inputs of a process.
type OutputGeneration string

// Output generation types.
const (
	// PerInput outputs are produced once for each input artifact.
	PerInput OutputGeneration = "PerInput"
	// PerAllInputs outputs are shared across every input of the process.
	PerAllInputs OutputGeneration = "PerAllInputs"
)

// DefaultDateRun is the run date assigned by NewProcess.
const DefaultDateRun = "2018-01-01"

// Entity is implemented by every record the store holds.
type Entity interface {
	EntityID() string
}

// Project groups submitted samples.
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OpenDate string `json:"open_date,omitempty"`
}

// EntityID implements Entity.
func (p Project) EntityID() string { return p.ID }

// Researcher is a submitter or technician.
type Researcher struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

// EntityID implements Entity.
func (r Researcher) EntityID() string { return r.ID }

// Sample is a submitted sample and the root of its artifact lineage.
type Sample struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UDF          UDF             `json:"udf"`
	Project      Ref[Project]    `json:"project"`
	Submitter    Ref[Researcher] `json:"submitter"`
	Artifact     Ref[Artifact]   `json:"artifact"`
	DateReceived string          `json:"date_received,omitempty"`
}

// NewSample returns a sample with an empty UDF mapping.
func NewSample(id, name string) Sample {
	return Sample{ID: id, Name: name, UDF: UDF{}}
}

// EntityID implements Entity.
func (s Sample) EntityID() string { return s.ID }

// Clone returns a deep copy of the sample's mutable fields.
func (s Sample) Clone() Sample {
	s.UDF = s.UDF.Clone()
	return s
}

// Location places an artifact in a container well.
type Location struct {
	Container Ref[Container] `json:"container"`
	Well      string         `json:"well"`
}

// Artifact is any input or output of a process.
type Artifact struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          ArtifactKind  `json:"type"`
	ParentProcess Ref[Process]  `json:"parent_process"`
	Location      *Location     `json:"location,omitempty"`
	QCFlag        QCFlag        `json:"qc_flag"`
	Working       bool          `json:"working"`
	Samples       []Ref[Sample] `json:"samples"`
	ReagentLabels []string      `json:"reagent_labels"`
	UDF           UDF           `json:"udf"`
}

// NewArtifact returns an artifact with an UNKNOWN QC flag and empty collections.
func NewArtifact(id string, kind ArtifactKind) Artifact {
	return Artifact{
		ID:            id,
		Type:          kind,
		QCFlag:        QCUnknown,
		Samples:       []Ref[Sample]{},
		ReagentLabels: []string{},
		UDF:           UDF{},
	}
}

// EntityID implements Entity.
func (a Artifact) EntityID() string { return a.ID }

// SampleIDs returns the ids of the samples the artifact derives from.
func (a Artifact) SampleIDs() []string {
	out := make([]string, 0, len(a.Samples))
	for _, s := range a.Samples {
		out = append(out, s.ID())
	}
	return out
}

// Clone returns a deep copy of the artifact's mutable fields.
func (a Artifact) Clone() Artifact {
	if a.Location != nil {
		loc := *a.Location
		a.Location = &loc
	}
	a.Samples = append([]Ref[Sample](nil), a.Samples...)
	a.ReagentLabels = append([]string(nil), a.ReagentLabels...)
	a.UDF = a.UDF.Clone()
	return a
}

// Output is the output side of an input/output mapping pair.
type Output struct {
	Artifact   Ref[Artifact]    `json:"artifact"`
	Type       ArtifactKind     `json:"type"`
	Generation OutputGeneration `json:"generation,omitempty"`
}

// IOMapping pairs an input artifact with an optional output artifact.
type IOMapping struct {
	Input  Ref[Artifact] `json:"input"`
	Output *Output       `json:"output,omitempty"`
}

// Process is a single run of a lab protocol step.
//
// IOMappings distinguishes absent (nil) from empty: a nil mapping marks a
// malformed fixture and is rejected by input/output derivation.
type Process struct {
	ID         string           `json:"id"`
	Type       Ref[ProcessType] `json:"type"`
	DateRun    string           `json:"date_run"`
	Technician Ref[Researcher]  `json:"technician"`
	IOMappings []IOMapping      `json:"input_output_maps"`
	UDF        UDF              `json:"udf"`
	Modified   *time.Time       `json:"modified,omitempty"`
}

// NewProcess returns a process with the default run date, an empty UDF
// mapping and an empty (not absent) input/output mapping.
func NewProcess(id string, processType Ref[ProcessType]) Process {
	return Process{
		ID:         id,
		Type:       processType,
		DateRun:    DefaultDateRun,
		IOMappings: []IOMapping{},
		UDF:        UDF{},
	}
}

// EntityID implements Entity.
func (p Process) EntityID() string { return p.ID }

// InputArtifactIDs lists the input ids of every mapping pair, duplicates included.
func (p Process) InputArtifactIDs() []string {
	out := make([]string, 0, len(p.IOMappings))
	for _, m := range p.IOMappings {
		out = append(out, m.Input.ID())
	}
	return out
}

// Clone returns a deep copy of the process' mutable fields.
func (p Process) Clone() Process {
	if p.IOMappings != nil {
		maps := make([]IOMapping, len(p.IOMappings))
		for i, m := range p.IOMappings {
			if m.Output != nil {
				out := *m.Output
				m.Output = &out
			}
			maps[i] = m
		}
		p.IOMappings = maps
	}
	if p.Modified != nil {
		ts := *p.Modified
		p.Modified = &ts
	}
	p.UDF = p.UDF.Clone()
	return p
}

// ProcessType classifies processes; its name is the primary process filter key.
type ProcessType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntityID implements Entity.
func (t ProcessType) EntityID() string { return t.ID }

// ContainerType classifies containers.
type ContainerType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntityID implements Entity.
func (t ContainerType) EntityID() string { return t.ID }

// Container maps well positions to the artifacts placed in them.
type Container struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Type       Ref[ContainerType]       `json:"type"`
	Placements map[string]Ref[Artifact] `json:"placements"`
}

// EntityID implements Entity.
func (c Container) EntityID() string { return c.ID }

// Clone returns a deep copy of the container placements.
func (c Container) Clone() Container {
	if c.Placements != nil {
		placements := make(map[string]Ref[Artifact], len(c.Placements))
		for well, ref := range c.Placements {
			placements[well] = ref
		}
		c.Placements = placements
	}
	return c
}

// ReagentLabel is immutable index reference data, identified by name.
type ReagentLabel struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
	Category string `json:"category"`
}

// EntityID implements Entity.
func (l ReagentLabel) EntityID() string { return l.Name }

// DefaultReagentLabel returns the label used when fixtures do not specify one.
func DefaultReagentLabel() ReagentLabel {
	return ReagentLabel{
		Name:     "IDT_10nt_NXT_109",
		Sequence: "TAGGAAGCGG-CCTGGATTGG",
		Category: "Illumina IDT",
	}
}
