// Package core implements the mock LIMS client: linear-scan queries over the
// in-memory store that follow the filtering semantics of the remote API.
package core

import (
	"slices"

	"limsmock/pkg/domain"

	"go.uber.org/zap"
)

// Store is the read surface of the entity store used by the client.
type Store interface {
	Samples() []domain.Sample
	Artifacts() []domain.Artifact
	Processes() []domain.Process
	FindProcess(id string) (domain.Process, bool)
	FindProcessType(id string) (domain.ProcessType, bool)
	FindProject(id string) (domain.Project, bool)
	FindArtifacts(ids []string) ([]domain.Artifact, []string)
}

// Lims answers entity queries against a Store. It never mutates the store.
type Lims struct {
	store   Store
	log     *zap.Logger
	metrics *Metrics
}

// Option configures a Lims.
type Option func(*Lims)

// WithLogger sets the logger used for query diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(l *Lims) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMetrics records query and batch lookup counts.
func WithMetrics(m *Metrics) Option {
	return func(l *Lims) { l.metrics = m }
}

// NewLims constructs a client over the supplied store.
func NewLims(store Store, opts ...Option) *Lims {
	l := &Lims{store: store, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetSamples returns the samples matching q in insertion order.
func (l *Lims) GetSamples(q SampleQuery) []domain.Sample {
	names := nonBlank(q.Name)
	out := []domain.Sample{}
	for _, s := range l.store.Samples() {
		if len(names) > 0 && !slices.Contains(names, s.Name) {
			continue
		}
		if q.ProjectID != "" && s.Project.ID() != q.ProjectID {
			continue
		}
		if q.ProjectName != "" {
			project, ok := l.project(s.Project)
			if !ok || project.Name != q.ProjectName {
				continue
			}
		}
		out = append(out, s)
	}
	l.metrics.observeQuery(domain.EntitySample, len(out))
	l.log.Debug("samples matched", zap.Int("count", len(out)))
	return out
}

// GetArtifacts returns the artifacts matching every active filter of q, in
// insertion order.
func (l *Lims) GetArtifacts(q ArtifactQuery) []domain.Artifact {
	types := ProcessTypes(q.ProcessType...)
	out := []domain.Artifact{}
	for _, art := range l.store.Artifacts() {
		if q.Type != "" && art.Type != q.Type {
			continue
		}
		if len(types) > 0 {
			if art.ParentProcess.IsZero() {
				continue
			}
			name, ok := l.parentProcessTypeName(art.ParentProcess)
			if !ok || !slices.Contains(types, name) {
				continue
			}
		}
		if q.SampleLimsID != "" && !slices.Contains(art.SampleIDs(), q.SampleLimsID) {
			continue
		}
		out = append(out, art)
	}
	l.metrics.observeQuery(domain.EntityArtifact, len(out))
	l.log.Debug("artifacts matched",
		zap.Int("count", len(out)),
		zap.Strings("process_types", types),
		zap.String("sample", q.SampleLimsID),
		zap.String("type", string(q.Type)))
	return out
}

// GetProcesses returns the processes matching every active filter of q, in
// insertion order.
func (l *Lims) GetProcesses(q ProcessQuery) []domain.Process {
	types := ProcessTypes(q.Type...)
	out := []domain.Process{}
	for _, p := range l.store.Processes() {
		if len(types) > 0 {
			name, ok := l.processTypeName(p)
			if !ok || !slices.Contains(types, name) {
				continue
			}
		}
		if len(q.UDF) > 0 && !p.UDF.Matches(q.UDF) {
			continue
		}
		if q.InputArtifactLimsID != "" && !slices.Contains(p.InputArtifactIDs(), q.InputArtifactLimsID) {
			continue
		}
		if q.LastModified != nil {
			if p.Modified == nil || p.Modified.Before(*q.LastModified) {
				continue
			}
		}
		out = append(out, p)
	}
	l.metrics.observeQuery(domain.EntityProcess, len(out))
	l.log.Debug("processes matched", zap.Int("count", len(out)), zap.Strings("types", types))
	return out
}

func (l *Lims) project(ref domain.Ref[domain.Project]) (domain.Project, bool) {
	if p, ok := ref.Entity(); ok {
		return p, true
	}
	if ref.ID() == "" {
		return domain.Project{}, false
	}
	return l.store.FindProject(ref.ID())
}

func (l *Lims) parentProcessTypeName(ref domain.Ref[domain.Process]) (string, bool) {
	p, ok := ref.Entity()
	if !ok {
		p, ok = l.store.FindProcess(ref.ID())
		if !ok {
			return "", false
		}
	}
	return l.processTypeName(p)
}

func (l *Lims) processTypeName(p domain.Process) (string, bool) {
	if pt, ok := p.Type.Entity(); ok {
		return pt.Name, true
	}
	if p.Type.ID() == "" {
		return "", false
	}
	pt, ok := l.store.FindProcessType(p.Type.ID())
	if !ok {
		return "", false
	}
	return pt.Name, true
}
