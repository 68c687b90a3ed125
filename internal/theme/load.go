package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// CompileError is a theme definition error with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadDir compiles every theme declared under the top-level "theme" field of
// the CUE package in dir. Themes come back in declaration order.
func LoadDir(dir string) ([]Theme, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("themes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan themes directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	if err := instances[0].Err; err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", formatCUEError(err))
	}

	value := ctx.BuildInstance(instances[0])
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", formatCUEError(err))
	}

	themesVal := value.LookupPath(cue.ParsePath("theme"))
	if !themesVal.Exists() {
		return nil, fmt.Errorf("no themes declared in %s", dir)
	}

	iter, err := themesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var themes []Theme
	for iter.Next() {
		t, err := CompileTheme(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", iter.Label(), err)
		}
		themes = append(themes, t)
	}
	return themes, nil
}

// CompileTheme converts a CUE theme struct into a validated Theme. The theme
// name is the struct's label.
//
//	theme: Animals: {
//		color: {red: 0.2, green: 0.78, blue: 0.35}
//		pairs: 4
//		content: ["🐶", "🐱", "🐭"]
//	}
func CompileTheme(v cue.Value) (Theme, error) {
	if err := v.Err(); err != nil {
		return Theme{}, formatCUEError(err)
	}

	var name string
	if sels := v.Path().Selectors(); len(sels) > 0 {
		name = sels[len(sels)-1].String()
		if unquoted, err := strconv.Unquote(name); err == nil {
			name = unquoted
		}
	}

	content, err := parseContent(v)
	if err != nil {
		return Theme{}, err
	}

	color, err := parseColor(v)
	if err != nil {
		return Theme{}, err
	}

	random := false
	if rv := v.LookupPath(cue.ParsePath("random_pairs")); rv.Exists() {
		random, err = rv.Bool()
		if err != nil {
			return Theme{}, formatCUEError(err)
		}
	}

	var t Theme
	if random {
		t = NewRandomPairs(name, color, content)
	} else {
		pv := v.LookupPath(cue.ParsePath("pairs"))
		if !pv.Exists() {
			return Theme{}, &CompileError{
				Field:   "pairs",
				Message: "pairs is required unless random_pairs is set",
				Pos:     v.Pos(),
			}
		}
		pairs, err := pv.Int64()
		if err != nil {
			return Theme{}, formatCUEError(err)
		}
		t = New(name, color, int(pairs), content)
	}

	if err := t.Validate(); err != nil {
		return Theme{}, &CompileError{Field: "theme", Message: err.Error(), Pos: v.Pos()}
	}
	return t, nil
}

func parseContent(v cue.Value) ([]string, error) {
	cv := v.LookupPath(cue.ParsePath("content"))
	if !cv.Exists() {
		return nil, &CompileError{Field: "content", Message: "content is required", Pos: v.Pos()}
	}
	iter, err := cv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var content []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		content = append(content, s)
	}
	return content, nil
}

// parseColor reads an optional {red, green, blue, alpha} struct. Missing
// channels default to 0, alpha defaults to 1.
func parseColor(v cue.Value) (RGBA, error) {
	color := RGBA{Alpha: 1}
	cv := v.LookupPath(cue.ParsePath("color"))
	if !cv.Exists() {
		return color, nil
	}

	channels := []struct {
		name string
		dst  *float64
	}{
		{"red", &color.Red},
		{"green", &color.Green},
		{"blue", &color.Blue},
		{"alpha", &color.Alpha},
	}
	for _, ch := range channels {
		f := cv.LookupPath(cue.ParsePath(ch.name))
		if !f.Exists() {
			continue
		}
		val, err := f.Float64()
		if err != nil {
			return color, formatCUEError(err)
		}
		if val < 0 || val > 1 {
			return color, &CompileError{
				Field:   "color." + ch.name,
				Message: fmt.Sprintf("must be within [0, 1], got %v", val),
				Pos:     f.Pos(),
			}
		}
		*ch.dst = val
	}
	return color, nil
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
