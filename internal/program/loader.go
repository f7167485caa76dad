package program

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadDir compiles all .cue files in a directory into one Program.
// Files unify in sorted name order, so a program may be split across
// files; fails fast on the first error.
func LoadDir(dir string) (*Program, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("program directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat program directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read program directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .cue files in %s", dir)
	}
	sort.Strings(files)

	ctx := cuecontext.New()
	var unified cue.Value
	for i, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		v := ctx.CompileBytes(data, cue.Filename(f))
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		if i == 0 {
			unified = v
		} else {
			unified = unified.Unify(v)
		}
	}
	if err := unified.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return Compile(unified)
}
