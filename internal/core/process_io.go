package core

import (
	"limsmock/pkg/domain"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// IOOptions controls derivation of a process' inputs or outputs.
type IOOptions struct {
	// Unique drops repeated ids, keeping the first occurrence.
	Unique bool
	// Resolve replaces the bare references with artifacts looked up from the
	// store in one batch.
	Resolve bool
}

// OutputSelector restricts OutputsPerInput to one output kind. When several
// flags are set the first in field order wins.
type OutputSelector struct {
	ResultFile       bool
	SharedResultFile bool
	Analyte          bool
}

// Kind returns the selected artifact kind, if any.
func (s OutputSelector) Kind() (domain.ArtifactKind, bool) {
	switch {
	case s.ResultFile:
		return domain.KindResultFile, true
	case s.SharedResultFile:
		return domain.KindSharedResultFile, true
	case s.Analyte:
		return domain.KindAnalyte, true
	default:
		return "", false
	}
}

// AllInputs returns the input side of every mapping pair of p.
func (l *Lims) AllInputs(p domain.Process, opts IOOptions) ([]domain.Ref[domain.Artifact], error) {
	if err := checkMapping(p); err != nil {
		return nil, err
	}
	refs := make([]domain.Ref[domain.Artifact], 0, len(p.IOMappings))
	for _, m := range p.IOMappings {
		refs = append(refs, m.Input)
	}
	return l.finish(refs, opts)
}

// AllOutputs returns the output side of every mapping pair of p that has one.
func (l *Lims) AllOutputs(p domain.Process, opts IOOptions) ([]domain.Ref[domain.Artifact], error) {
	if err := checkMapping(p); err != nil {
		return nil, err
	}
	refs := make([]domain.Ref[domain.Artifact], 0, len(p.IOMappings))
	for _, m := range p.IOMappings {
		if m.Output == nil {
			continue
		}
		refs = append(refs, m.Output.Artifact)
	}
	return l.finish(refs, opts)
}

// OutputsPerInput returns the outputs mapped from inputID, restricted to the
// kind chosen by sel.
func (l *Lims) OutputsPerInput(p domain.Process, inputID string, sel OutputSelector, resolve bool) ([]domain.Ref[domain.Artifact], error) {
	if err := checkMapping(p); err != nil {
		return nil, err
	}
	kind, filtered := sel.Kind()
	refs := []domain.Ref[domain.Artifact]{}
	for _, m := range p.IOMappings {
		if m.Input.ID() != inputID || m.Output == nil {
			continue
		}
		if filtered && m.Output.Type != kind {
			continue
		}
		refs = append(refs, m.Output.Artifact)
	}
	return l.finish(refs, IOOptions{Resolve: resolve})
}

// ResolveArtifacts looks up every referenced artifact in a single batch. Any
// id missing from the store fails the whole call.
func (l *Lims) ResolveArtifacts(refs []domain.Ref[domain.Artifact]) ([]domain.Ref[domain.Artifact], error) {
	if len(refs) == 0 {
		return []domain.Ref[domain.Artifact]{}, nil
	}
	found, missing := l.store.FindArtifacts(domain.RefIDs(refs))
	l.metrics.observeBatch()
	if len(missing) > 0 {
		l.log.Warn("dangling artifact references", zap.Strings("ids", missing))
		return nil, errors.Wrap(domain.NewNotFound(domain.EntityArtifact, missing...), "resolve artifacts")
	}
	out := make([]domain.Ref[domain.Artifact], len(found))
	for i, art := range found {
		out[i] = domain.Resolved(art)
	}
	return out, nil
}

func (l *Lims) finish(refs []domain.Ref[domain.Artifact], opts IOOptions) ([]domain.Ref[domain.Artifact], error) {
	if opts.Unique {
		refs = uniqueRefs(refs)
	}
	if opts.Resolve {
		return l.ResolveArtifacts(refs)
	}
	return refs, nil
}

func uniqueRefs(refs []domain.Ref[domain.Artifact]) []domain.Ref[domain.Artifact] {
	seen := make(map[string]struct{}, len(refs))
	out := make([]domain.Ref[domain.Artifact], 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.ID()]; ok {
			continue
		}
		seen[r.ID()] = struct{}{}
		out = append(out, r)
	}
	return out
}

func checkMapping(p domain.Process) error {
	if p.IOMappings != nil {
		return nil
	}
	err := errors.Wrapf(domain.ErrMalformedProcess, "process %s has no input/output mapping", p.ID)
	return errors.WithHint(err, "fixtures must set input_output_maps; use an empty list for a process without pairs")
}
