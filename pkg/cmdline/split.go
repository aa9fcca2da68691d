package cmdline

import "strings"

// Split divides a command line into its command name and the rest of the
// line, per spec 4.4.3. commandIsComplete is true when the command part is
// finished being typed: the command is non-empty, the rest of the line is
// blank, and the line doesn't end in a separator (or the command itself is
// empty) — completion code uses this to decide whether to offer command
// names or command arguments.
func Split(line string) (command, rest string, commandIsComplete bool) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		command, rest = line, ""
	} else {
		command, rest = line[:idx], line[idx+1:]
	}

	endsInSeparator := len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t')
	commandIsComplete = command == "" || (strings.TrimSpace(rest) == "" && !endsInSeparator)
	return command, rest, commandIsComplete
}
