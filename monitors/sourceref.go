package monitors

import "github.com/spikelab/spikesim/neurons"

// A SourceRef is a non-owning reference to a spike source. A monitor holds
// one instead of the source itself, so that monitoring never keeps a source
// alive and access after the source's lifetime fails loudly with an
// ExpiredRefError instead of dereferencing a dangling source.
type SourceRef interface {
	// Name returns the name of the referenced source. It stays valid even
	// after the source expires.
	Name() string

	// Get resolves the reference. It returns an ExpiredRefError once the
	// source is no longer alive.
	Get() (neurons.SpikeSource, error)
}

// StrongRef wraps a source the caller owns for the whole run. It never
// expires; owner-managed registries provide expiring references instead.
func StrongRef(src neurons.SpikeSource) SourceRef {
	return &strongRef{src: src}
}

type strongRef struct {
	src neurons.SpikeSource
}

func (r *strongRef) Name() string {
	if r.src == nil {
		return ""
	}
	return r.src.Name()
}

func (r *strongRef) Get() (neurons.SpikeSource, error) {
	if r.src == nil {
		return nil, &ExpiredRefError{Name: ""}
	}
	return r.src, nil
}
