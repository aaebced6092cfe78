// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptNotFoundId Id = iota + 1
	InterpreterNotFoundId
	ScriptExecutionFailedId
	ConfigLoadFailedId
	DocumentWriteFailedId
	InvalidCursorId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation pages
	extLinks []HttpLink  // external links that might be useful for the user
}

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

// Render renders the issue page as terminal Markdown. stylePath is a glamour
// style name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Companion script not found!

cal2org runs ` + "`exactas-cal2org.py`" + ` from its installation directory, but the
file is not there.

## Things you can try:
- Copy the script next to the cal2org binary
- Point cal2org at the directory that holds it:
~~~
$ cal2org run --install-dir /path/to/cal2org
~~~
- Or set it once in your config file:
~~~cue
install_dir: "/path/to/cal2org"
~~~
- Check what cal2org resolved:
~~~
$ cal2org check
~~~`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Interpreter not found!

The interpreter configured to run the companion script could not be found or
is not executable. When no interpreter is configured, cal2org looks for
` + "`python3`" + ` and then ` + "`python`" + ` on your PATH.

## Things you can try:
- Install Python 3 and make sure it is on your PATH
- Configure an explicit interpreter:
~~~cue
interpreter: "/usr/bin/python3"
~~~
- Or override it for a single run:
~~~
$ cal2org run --interpreter "python3 -u"
~~~`,
		extLinks: []HttpLink{"https://www.python.org/downloads/"},
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The companion script ran but did not finish successfully. Nothing was
inserted into your document.

## Things you can try:
- Read the script's error output shown above
- Run the script by hand to reproduce the failure:
~~~
$ python3 /path/to/exactas-cal2org.py
~~~
- Make sure the script's Python dependencies are installed
- Run with verbose mode for more details:
~~~
$ cal2org --verbose run
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

There was an error loading your cal2org configuration file.

## Configuration file location:
- Linux: ` + "`~/.config/cal2org/config.cue`" + `
- macOS: ` + "`~/Library/Application Support/cal2org/config.cue`" + `
- Windows: ` + "`%APPDATA%\\cal2org\\config.cue`" + `

## Things you can try:
- Check the CUE syntax in your config file
- Reset to the default configuration:
~~~
$ cal2org config init --force
~~~
- Show the configuration cal2org would use:
~~~
$ cal2org config show
~~~`,
	}

	documentWriteFailedIssue = &Issue{
		id: DocumentWriteFailedId,
		mdMsg: `
# Failed to write the document!

The script output was captured but the target file could not be saved.
The file on disk was left unchanged.

## Things you can try:
- Check that the directory exists and is writable
- Use ` + "`--create`" + ` to start a new file
- Print to standard output instead:
~~~
$ cal2org run > agenda.org
~~~`,
	}

	invalidCursorIssue = &Issue{
		id: InvalidCursorId,
		mdMsg: `
# Invalid insertion point!

The requested position is outside the document.

## Things you can try:
- Use a character offset between 0 and the document length: ` + "`--offset 120`" + `
- Use a 1-based line and column: ` + "`--at 12:1`" + `
- Append at the end of the file: ` + "`--end`",
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

cal2org did not have permission to run the interpreter or read the script.

## Things you can try:
- Check the file permissions of the script and the interpreter
- Make the interpreter executable:
~~~
$ chmod +x /path/to/interpreter
~~~`,
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():        scriptNotFoundIssue,
		interpreterNotFoundIssue.Id():   interpreterNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		documentWriteFailedIssue.Id():   documentWriteFailedIssue,
		invalidCursorIssue.Id():         invalidCursorIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
