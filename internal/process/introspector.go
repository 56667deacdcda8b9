// Package process reads per-PID state from the OS process table to derive
// working directories, child processes, and "running program" descriptors
// for terminal handling (spec.md §4.5). It is built on gopsutil rather
// than hand-rolled /proc parsing.
package process

import (
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// RunningProgram is the foreground command inside a terminal, distinct
// from the terminal's own shell (spec.md §3).
type RunningProgram struct {
	Name         string
	Args         []string
	FullCommand  string
	ShellCommand string
}

// packageManagerCommands are recognized regardless of process depth and
// always classified as a shell_command rather than a direct program,
// because they are themselves shell-driven wrappers (spec.md §4.5).
var packageManagerCommands = map[string]bool{
	"npm": true, "yarn": true, "pnpm": true, "bun": true,
}

// shellNames identifies processes that are themselves a shell rather than
// an interesting foreground program.
var shellNames = map[string]bool{
	"bash": true, "zsh": true, "fish": true, "sh": true, "dash": true,
	"tcsh": true, "ksh": true,
}

// Introspector reads live process-table state for a given PID.
type Introspector struct{}

// NewIntrospector returns a ready-to-use Introspector.
func NewIntrospector() *Introspector { return &Introspector{} }

// WorkingDirectory returns the PID's cwd, or "" if it disappeared or is
// unreadable (permission error) — never an error for either case.
func (in *Introspector) WorkingDirectory(pid int32) string {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return ""
	}
	cwd, err := proc.Cwd()
	if err != nil {
		return ""
	}
	return cwd
}

// Children returns the PID's direct child PIDs, or nil if none or the
// PID has already disappeared.
func (in *Introspector) Children(pid int32) []int32 {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil
	}
	kids, err := proc.Children()
	if err != nil {
		return nil
	}
	pids := make([]int32, 0, len(kids))
	for _, k := range kids {
		pids = append(pids, k.Pid)
	}
	return pids
}

// Cmdline returns the PID's argv vector, null-separated parsing with
// empty args dropped. Returns nil if the PID has disappeared.
func (in *Introspector) Cmdline(pid int32) []string {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return nil
	}
	args, err := proc.CmdlineSlice()
	if err != nil {
		return nil
	}
	var out []string
	for _, a := range args {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Name returns the PID's comm/process name, which may contain spaces and
// parentheses (spec.md §4.5); "" if the PID has disappeared.
func (in *Introspector) Name(pid int32) string {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return ""
	}
	name, err := proc.Name()
	if err != nil {
		return ""
	}
	return name
}

// isShell reports whether name identifies a known shell binary.
func isShell(name string) bool {
	base := name
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return shellNames[base]
}

// RunningProgramFor walks the deepest non-shell descendant of a terminal
// PID's shell child, classifying package-manager-style invocations as
// shell commands regardless of depth (spec.md §4.5). Returns nil if the
// foreground is only a shell.
func (in *Introspector) RunningProgramFor(shellPID int32) *RunningProgram {
	deepest := in.deepestDescendant(shellPID)
	if deepest == 0 || deepest == shellPID {
		return nil
	}

	name := in.Name(deepest)
	args := in.Cmdline(deepest)
	if name == "" {
		return nil
	}

	full := strings.Join(args, " ")
	if full == "" {
		full = name
	}

	rp := &RunningProgram{Name: name, Args: args, FullCommand: full}

	if name == "sh" && len(args) >= 3 && args[1] == "-c" {
		rp.ShellCommand = strings.Join(args[2:], " ")
	} else if packageManagerCommands[baseName(name)] {
		rp.ShellCommand = full
	}

	return rp
}

// deepestDescendant walks children, preferring the first non-shell child
// among siblings when one exists, and returns the last PID visited (pid
// itself if it has no children or has already disappeared).
func (in *Introspector) deepestDescendant(pid int32) int32 {
	current := pid
	for {
		kids := in.Children(current)
		if len(kids) == 0 {
			return current
		}
		// Prefer a non-shell child when one exists among siblings.
		next := kids[0]
		for _, k := range kids {
			if name := in.Name(k); name != "" && !isShell(name) {
				next = k
				break
			}
		}
		if next == current {
			return current
		}
		current = next
	}
}

func baseName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
