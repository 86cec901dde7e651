// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"fmt"

	"github.com/coderlyu/mini-webpack/internal/logging"
)

// Pipeline applies rules to module code.
type Pipeline struct {
	rules []Rule
	cache *Cache
}

// NewPipeline returns a pipeline over rules, taking loaders from cache.
func NewPipeline(rules []Rule, cache *Cache) *Pipeline {
	return &Pipeline{rules: rules, cache: cache}
}

// Rules returns the configured rules.
func (p *Pipeline) Rules() []Rule {
	return p.rules
}

// Apply runs every rule of the given stage that matches res, in declared
// order. Within a rule the use list runs from last to first.
func (p *Pipeline) Apply(ctx context.Context, stage Stage, res Resource, code string) (string, error) {
	logger := logging.FromContext(ctx)
	for _, rule := range p.rules {
		if rule.EffectiveStage() != stage || !rule.Matches(res) {
			continue
		}
		for i := len(rule.Use) - 1; i >= 0; i-- {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			use := rule.Use[i]
			l, err := p.cache.Get(use.Loader)
			if err != nil {
				return "", fmt.Errorf("%s: %w", res.Path, err)
			}
			lc := &Context{Query: use.Options, ResourcePath: res.Abs, RootDir: res.Root}
			out, err := l.Load(ctx, lc, code)
			if err != nil {
				return "", &TransformError{Loader: use.Loader, Path: res.Path, Err: err}
			}
			logger.Debug("applied loader", "loader", use.Loader, "module", res.Path, "stage", string(stage))
			code = out
		}
	}
	return code, nil
}
