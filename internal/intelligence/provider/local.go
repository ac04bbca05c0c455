package provider

import "context"

// StaticProvider returns a fixed completion for every request.  It backs
// offline runs and tests; the deterministic pipeline carries classification
// quality in those deployments, this provider only keeps the probabilistic
// strategy's plumbing exercised.
type StaticProvider struct {
	name string
	text string
	err  error
}

// NewStaticProvider builds a provider that always answers with text.
func NewStaticProvider(name, text string) *StaticProvider {
	return &StaticProvider{name: name, text: text}
}

// NewFailingProvider builds a provider that always fails with err.
func NewFailingProvider(name string, err error) *StaticProvider {
	return &StaticProvider{name: name, err: err}
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Complete(ctx context.Context, _ Request) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	return &Completion{Text: p.text, Model: p.name}, nil
}
