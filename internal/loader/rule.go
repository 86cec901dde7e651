// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidUse is returned when a rule's use value has an unsupported shape.
var ErrInvalidUse = errors.New("invalid loader use")

// Rule selects the loaders applied to matching modules.
type Rule struct {
	// Test is matched against the absolute, slash-separated file path.
	// A nil Test matches every file.
	Test *regexp.Regexp
	// Include, when set, restricts the rule to root-relative names
	// matching one of these doublestar patterns.
	Include []string
	// Exclude skips root-relative names matching any of these patterns.
	Exclude []string
	// Use lists loaders in declared order. They run last to first.
	Use []Use
	// Stage is when the rule runs. The zero value means StagePost.
	Stage Stage
}

// EffectiveStage returns the rule's stage with the default applied.
func (r Rule) EffectiveStage() Stage {
	if r.Stage == "" {
		return StagePost
	}
	return r.Stage
}

// Matches reports whether the rule applies to res.
func (r Rule) Matches(res Resource) bool {
	if r.Test != nil && !r.Test.MatchString(filepath.ToSlash(res.Abs)) {
		return false
	}
	if len(r.Include) > 0 && !matchAny(r.Include, res.Name) {
		return false
	}
	return !matchAny(r.Exclude, res.Name)
}

// ValidatePatterns checks the rule's glob patterns.
func (r Rule) ValidatePatterns() error {
	for _, p := range append(append([]string{}, r.Include...), r.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// NormalizeUse turns the configured use value into a list. It accepts a
// loader name, a {loader, options} descriptor, or a list mixing both.
func NormalizeUse(v any) ([]Use, error) {
	switch u := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []Use{{Loader: u}}, nil
	case Use:
		return []Use{u}, nil
	case []Use:
		return u, nil
	case []string:
		uses := make([]Use, 0, len(u))
		for _, name := range u {
			uses = append(uses, Use{Loader: name})
		}
		return uses, nil
	case map[string]any:
		use, err := descriptor(u)
		if err != nil {
			return nil, err
		}
		return []Use{use}, nil
	case []any:
		var uses []Use
		for i, item := range u {
			if _, nested := item.([]any); nested {
				return nil, fmt.Errorf("%w: entry %d is a nested list", ErrInvalidUse, i)
			}
			got, err := NormalizeUse(item)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			uses = append(uses, got...)
		}
		return uses, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidUse, v)
	}
}

func descriptor(m map[string]any) (Use, error) {
	name, ok := m["loader"].(string)
	if !ok || name == "" {
		return Use{}, fmt.Errorf("%w: descriptor needs a loader name", ErrInvalidUse)
	}
	use := Use{Loader: name}
	switch opts := m["options"].(type) {
	case nil:
	case map[string]any:
		use.Options = opts
	default:
		return Use{}, fmt.Errorf("%w: options of %q must be an object, got %T", ErrInvalidUse, name, opts)
	}
	return use, nil
}
