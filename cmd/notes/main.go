package main

import (
	"context"
	"os"
	"strings"

	"notes-cli/internal/cli"
)

func isNoteID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "note-") && len(s) > len("note-")
}

// rewriteDirectNoteLookupArgs makes `notes <note-id>` work like `notes show <note-id>`.
// Cobra takes the first positional token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first.
func rewriteDirectNoteLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the note id is never eaten.
	valueFlags := map[string]bool{
		"--config":    true,
		"--server":    true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insertShow := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isNoteID(argv[i+1]) {
				return insertShow(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && !boolFlags[a] && valueFlags[a] {
				i++
			}
			continue
		case isNoteID(a):
			return insertShow(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteDirectNoteLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
