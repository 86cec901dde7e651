// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	ModuleNotFoundId Id = iota + 1
	ParseErrorId
	UnsupportedSyntaxId
	LoaderNotFoundId
	LoaderFailedId
	OutputDirMissingId
	TemplateErrorId
	ConfigLoadFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the Markdown message for a terminal. stylePath is a glamour
// style name or JSON style file; "notty" renders plain text.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found

A module imports a path that does not exist below the project root.

## Things you can try
- Check the spelling of the import path and its extension.
- Paths are resolved relative to the importing file. ES module imports get
  a ` + "`.js`" + ` suffix unless one is written.
- A directory import needs an ` + "`index.js`" + ` file inside it.
- Show what was found so far:
~~~
$ minipack deps
~~~`,
		extLinks: []HttpLink{"https://webpack.js.org/concepts/module-resolution/"},
	}

	parseErrorIssue = &Issue{
		id: ParseErrorId,
		mdMsg: `
# Failed to parse a module

The JavaScript parser rejected one of the modules. Nothing was written.

## Things you can try
- Fix the syntax error at the reported position.
- Files that are not JavaScript (JSON, text, templates) need a ` + "`pre`" + `
  stage rule that turns them into a module first:
~~~cue
module: rules: [{test: "\\.json$", use: "json", stage: "pre"}]
~~~`,
	}

	unsupportedSyntaxIssue = &Issue{
		id: UnsupportedSyntaxId,
		mdMsg: `
# Unsupported module syntax

The module uses a form of ` + "`import`" + `, ` + "`export`" + ` or ` + "`require`" + ` that
cannot be bundled statically.

## Not supported
- ` + "`require`" + ` with anything but one string literal, e.g. ` + "`require(name)`" + `.
- Re-exports such as ` + "`export { a } from './a'`" + ` or ` + "`export * from './a'`" + `.
  Import the binding, then export it.`,
	}

	loaderNotFoundIssue = &Issue{
		id: LoaderNotFoundId,
		mdMsg: `
# Loader not found

A rule refers to a loader that is neither builtin nor a loader file.

## Things you can try
- List the builtin loaders:
~~~
$ minipack loaders
~~~
- Loader files are referenced relative to the project root and must end in
  ` + "`.js`" + `, ` + "`.cjs`" + ` or ` + "`.sh`" + `.
- A JavaScript loader must assign a function to ` + "`module.exports`" + `.`,
		extLinks: []HttpLink{"https://webpack.js.org/concepts/loaders/"},
	}

	loaderFailedIssue = &Issue{
		id: LoaderFailedId,
		mdMsg: `
# Loader failed

A loader returned an error while transforming a module.

## Things you can try
- Check the options configured for the loader in the rule.
- Shell loaders read the module on stdin and must print the new code on
  stdout; a non-zero exit status fails the build.
- Run with ` + "`--log-level debug`" + ` to see which loaders ran before it.`,
	}

	outputDirMissingIssue = &Issue{
		id: OutputDirMissingId,
		mdMsg: `
# Output directory missing

The bundle could not be written because ` + "`output.path`" + ` does not exist.
minipack never creates it.

## Things you can try
~~~
$ mkdir -p dist
~~~`,
	}

	templateErrorIssue = &Issue{
		id: TemplateErrorId,
		mdMsg: `
# Bundle template error

The template configured in ` + "`output.template`" + ` could not be read, parsed
or executed.

## Things you can try
- Check that the file exists below the project root.
- Templates use Go ` + "`text/template`" + ` syntax and receive ` + "`.Modules`" + `,
  ` + "`.Order`" + ` and ` + "`.EntryPath`" + `.
- Remove ` + "`output.template`" + ` to use the builtin runtime.`,
		extLinks: []HttpLink{"https://pkg.go.dev/text/template"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try
- Print the effective configuration:
~~~
$ minipack config show
~~~
- Supported files are ` + "`minipack.config.cue`" + `, ` + "`.toml`" + `, ` + "`.yaml`" + `,
  ` + "`.yml`" + ` and ` + "`.json`" + ` in the working directory, or any file passed with
  ` + "`--config`" + `.`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():    moduleNotFoundIssue,
		parseErrorIssue.Id():        parseErrorIssue,
		unsupportedSyntaxIssue.Id(): unsupportedSyntaxIssue,
		loaderNotFoundIssue.Id():    loaderNotFoundIssue,
		loaderFailedIssue.Id():      loaderFailedIssue,
		outputDirMissingIssue.Id():  outputDirMissingIssue,
		templateErrorIssue.Id():     templateErrorIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
