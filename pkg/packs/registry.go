package packs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcontext"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// registration holds a pack's builder and the version it declares.
type registration struct {
	build   Builder
	version *semver.Version
}

// Registry is the state described in spec §4.4: a mapping from pack
// reference string to pack implementation, resolved lazily and cached.
// A reference is resolved on its first use; a resolution failure is
// returned as an error then and on every later use of that reference,
// never silently skipped and never retried.
type Registry struct {
	mu          sync.RWMutex
	registered  map[string]registration
	resolved    map[string]Pack
	failedOnce  map[string]error
}

// NewRegistry returns an empty registry. Packs must be registered by
// name via Register before they can be referenced by the engine.
func NewRegistry() *Registry {
	return &Registry{
		registered: make(map[string]registration),
		resolved:   make(map[string]Pack),
		failedOnce: make(map[string]error),
	}
}

// Register binds a reference name ("module.path:Attribute") to a
// builder, optionally declaring the semver version it implements so
// that "@constraint" suffixed references can be satisfied.
func (r *Registry) Register(ref string, build Builder, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var v *semver.Version
	if version != "" {
		parsed, err := semver.NewVersion(version)
		if err != nil {
			return fmt.Errorf("packs: invalid version %q for %q: %w", version, ref, err)
		}
		v = parsed
	}
	r.registered[ref] = registration{build: build, version: v}
	return nil
}

// parseRef splits "module.path:Attribute@^1.2" into its base reference
// ("module.path:Attribute") and an optional semver constraint.
func parseRef(ref string) (base string, constraint string) {
	if i := strings.LastIndex(ref, "@"); i >= 0 && i > strings.LastIndex(ref, ":") {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// resolve instantiates (and caches) the pack bound to ref, enforcing
// any semver constraint in the reference.
func (r *Registry) resolve(ref string) (Pack, error) {
	base, constraintStr := parseRef(ref)

	r.mu.RLock()
	if p, ok := r.resolved[ref]; ok {
		r.mu.RUnlock()
		return p, nil
	}
	if err, ok := r.failedOnce[ref]; ok {
		r.mu.RUnlock()
		return nil, err
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the write lock.
	if p, ok := r.resolved[ref]; ok {
		return p, nil
	}
	if err, ok := r.failedOnce[ref]; ok {
		return nil, err
	}

	reg, ok := r.registered[base]
	if !ok {
		err := fmt.Errorf("%w: no pack registered for reference %q", eqcerrors.ErrPackResolutionFailed, base)
		r.failedOnce[ref] = err
		return nil, err
	}

	if constraintStr != "" {
		c, err := semver.NewConstraint(constraintStr)
		if err != nil {
			err = fmt.Errorf("%w: invalid constraint %q on %q: %v", eqcerrors.ErrPackResolutionFailed, constraintStr, ref, err)
			r.failedOnce[ref] = err
			return nil, err
		}
		if reg.version == nil || !c.Check(reg.version) {
			err := fmt.Errorf("%w: pack %q version does not satisfy constraint %q", eqcerrors.ErrPackResolutionFailed, base, constraintStr)
			r.failedOnce[ref] = err
			return nil, err
		}
	}

	p, err := reg.build()
	if err != nil {
		err = fmt.Errorf("%w: building %q: %v", eqcerrors.ErrPackResolutionFailed, ref, err)
		r.failedOnce[ref] = err
		return nil, err
	}

	r.resolved[ref] = p
	return p, nil
}

// Evaluate runs every enabled pack reference, in sorted-reference order
// for determinism (spec §4.4, §5), returning the ordered verdicts that
// packs actually produced (refs that abstain are skipped).
func (r *Registry) Evaluate(ctx eqcontext.Snapshot, enabled []string, device eqcontext.DeviceSignals, tx eqcontext.TxSignals) ([]verdict.Verdict, error) {
	sorted := append([]string(nil), enabled...)
	sort.Strings(sorted)

	var results []verdict.Verdict
	for _, ref := range sorted {
		p, err := r.resolve(ref)
		if err != nil {
			return nil, err
		}
		v, err := p.Evaluate(ctx, device, tx)
		if err != nil {
			return nil, fmt.Errorf("packs: %q evaluate failed: %w", ref, err)
		}
		if v == nil {
			continue
		}
		results = append(results, *v)
	}
	return results, nil
}
