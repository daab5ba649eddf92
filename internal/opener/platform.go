package opener

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

func defaultImageCommand(goos string) []string {
	switch strings.ToLower(goos) {
	case "windows":
		// start is a cmd builtin; the empty argument is the window title.
		return []string{"cmd", "/c", "start", ""}
	case "darwin":
		return []string{"open"}
	default:
		return []string{"xdg-open"}
	}
}

func detectEditorCommand(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	if strings.EqualFold(goos, "windows") {
		return []string{"notepad"}, true
	}

	for _, candidate := range []string{getenv("VISUAL"), getenv("EDITOR")} {
		args := parseEditorCommand(candidate)
		if len(args) == 0 {
			continue
		}
		if resolved, err := lookPath(args[0]); err == nil && resolved != "" {
			args[0] = resolved
			return args, true
		}
	}

	for _, fallback := range []string{"vi", "nano"} {
		if resolved, err := lookPath(fallback); err == nil && resolved != "" {
			return []string{resolved}, true
		}
	}
	return nil, false
}

// parseEditorCommand splits an $EDITOR value on spaces, honouring single and
// double quotes.
func parseEditorCommand(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inSingle := false
	inDouble := false

	for _, r := range cmd {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}

	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}
	return args
}

func expandUserPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
