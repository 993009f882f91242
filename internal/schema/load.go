package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// Load builds the schema declared by the CUE package in dir.
func Load(dir string) (*Schema, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(ErrCodeLoadFailed, inst.Err)
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	return Compile(value)
}

// CompileString builds a schema from CUE source text.
func CompileString(src string) (*Schema, error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	return Compile(value)
}

// Compile builds a schema from a CUE value holding a top-level
// "collection" struct.
func Compile(v cue.Value) (*Schema, error) {
	collections := v.LookupPath(cue.ParsePath("collection"))
	if !collections.Exists() {
		return nil, &LoadError{Code: ErrCodeNoCollection, Message: "no collections declared", Pos: v.Pos()}
	}

	iter, err := collections.Fields()
	if err != nil {
		return nil, formatCUEError(ErrCodeGeneric, err)
	}

	s := &Schema{Collections: make(map[string]*Collection)}
	for iter.Next() {
		c, err := compileCollection(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		s.Collections[c.Name] = c
	}
	if len(s.Collections) == 0 {
		return nil, &LoadError{Code: ErrCodeNoCollection, Message: "no collections declared", Pos: collections.Pos()}
	}

	for _, name := range s.Names() {
		for _, r := range s.Collections[name].Relations {
			if _, ok := s.Collections[r.Target]; !ok {
				return nil, &LoadError{
					Code:    ErrCodeInvalidRel,
					Field:   fmt.Sprintf("collection.%s.relations.%s", name, r.Name),
					Message: fmt.Sprintf("unknown target collection %q", r.Target),
				}
			}
		}
	}

	s.linkBackRelations()
	return s, nil
}

func compileCollection(name string, v cue.Value) (*Collection, error) {
	c := newCollection(name)

	if fieldsVal := v.LookupPath(cue.ParsePath("fields")); fieldsVal.Exists() {
		iter, err := fieldsVal.Fields()
		if err != nil {
			return nil, formatCUEError(ErrCodeGeneric, err)
		}
		for iter.Next() {
			fieldName := iter.Label()
			kind, err := fieldKind(iter.Value())
			if err != nil {
				err.Field = fmt.Sprintf("collection.%s.fields.%s", name, fieldName)
				return nil, err
			}
			c.Fields[fieldName] = Field{Name: fieldName, Kind: kind}
		}
	}

	if relVal := v.LookupPath(cue.ParsePath("relations")); relVal.Exists() {
		iter, err := relVal.Fields()
		if err != nil {
			return nil, formatCUEError(ErrCodeGeneric, err)
		}
		for iter.Next() {
			relName := iter.Label()
			rel, err := compileRelation(relName, iter.Value())
			if err != nil {
				err.Field = fmt.Sprintf("collection.%s.relations.%s", name, relName)
				return nil, err
			}
			c.Relations[relName] = rel
		}
	}

	return c, nil
}

// compileRelation accepts "target" (single) or ["target"] (many).
func compileRelation(name string, v cue.Value) (Relation, *LoadError) {
	if target, err := v.String(); err == nil {
		return Relation{Name: name, Target: target}, nil
	}

	list, err := v.List()
	if err != nil {
		return Relation{}, &LoadError{Code: ErrCodeInvalidRel, Message: "relation must be a collection name or a one-element list", Pos: v.Pos()}
	}
	var targets []string
	for list.Next() {
		target, err := list.Value().String()
		if err != nil {
			return Relation{}, &LoadError{Code: ErrCodeInvalidRel, Message: "relation target must be a string", Pos: list.Value().Pos()}
		}
		targets = append(targets, target)
	}
	if len(targets) != 1 {
		return Relation{}, &LoadError{Code: ErrCodeInvalidRel, Message: fmt.Sprintf("to-many relation needs exactly one target, got %d", len(targets)), Pos: v.Pos()}
	}
	return Relation{Name: name, Target: targets[0], Many: true}, nil
}

func fieldKind(v cue.Value) (Kind, *LoadError) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return KindString, nil
	case cue.IntKind:
		return KindInt, nil
	case cue.FloatKind, cue.NumberKind:
		return KindNumber, nil
	case cue.BoolKind:
		return KindBool, nil
	case cue.ListKind:
		return KindList, nil
	case cue.StructKind:
		return KindJSON, nil
	default:
		return "", &LoadError{
			Code:    ErrCodeInvalidKind,
			Message: fmt.Sprintf("unsupported field kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// FindCUEFiles walks dir and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
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
