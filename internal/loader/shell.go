// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Environment passed to shell loaders.
const (
	EnvResourcePath = "MINIPACK_RESOURCE_PATH"
	EnvRootDir      = "MINIPACK_ROOT"
	EnvQuery        = "MINIPACK_QUERY"
	EnvOptionPrefix = "MINIPACK_OPT_"
)

// shellLoader interprets a POSIX shell script with the module code on
// stdin. Whatever the script prints on stdout becomes the new code.
type shellLoader struct {
	ref  string
	prog *syntax.File
}

func parseShell(ref, src string) (*shellLoader, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(src), ref)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &shellLoader{ref: ref, prog: prog}, nil
}

func (l *shellLoader) Load(ctx context.Context, lc *Context, source string) (string, error) {
	env, err := shellEnv(lc)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(lc.RootDir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(strings.NewReader(source), &stdout, &stderr),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, l.prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return "", fmt.Errorf("%s exited with status %d: %s", l.ref, int(exitStatus), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("script execution failed: %w", err)
	}
	return stdout.String(), nil
}

func shellEnv(lc *Context) ([]string, error) {
	query := lc.Query
	if query == nil {
		query = map[string]any{}
	}
	encoded, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode loader options: %w", err)
	}

	env := append(os.Environ(),
		EnvResourcePath+"="+lc.ResourcePath,
		EnvRootDir+"="+lc.RootDir,
		EnvQuery+"="+string(encoded),
	)

	keys := maps.Keys(query)
	slices.Sort(keys)
	for _, k := range keys {
		v, err := optionValue(query[k])
		if err != nil {
			return nil, fmt.Errorf("encode option %q: %w", k, err)
		}
		env = append(env, EnvOptionPrefix+optionKey(k)+"="+v)
	}
	return env, nil
}

// optionKey upper-cases k and replaces characters not valid in a variable
// name with underscores.
func optionKey(k string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, k)
}

func optionValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}
