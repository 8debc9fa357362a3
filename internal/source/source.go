package source

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/constant"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"golang.org/x/mod/modfile"

	"github.com/dshills/constlist/internal/annotation"
)

// ErrTypeNotFound is returned when no file in the package declares the type.
var ErrTypeNotFound = errors.New("type not found")

// Type is a named type together with the package that declares it.
type Type struct {
	Name     string
	PkgPath  string
	Filename string

	src   []byte
	scope *types.Scope
}

// ID returns the type identity, "<import path>.<name>".
func (t *Type) ID() string {
	return t.PkgPath + "." + t.Name
}

// Tokens tokenizes the file declaring the type.
func (t *Type) Tokens() ([]annotation.Token, error) {
	return Tokenize(t.Filename, t.src)
}

// Constant returns the value of the package-level constant called name.
// String constants are returned unquoted.
func (t *Type) Constant(name string) (string, bool) {
	if t.scope == nil {
		return "", false
	}
	c, ok := t.scope.Lookup(name).(*types.Const)
	if !ok {
		return "", false
	}
	return formatValue(c.Val())
}

func formatValue(v constant.Value) (string, bool) {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v), true
	case constant.Bool, constant.Int:
		return v.ExactString(), true
	case constant.Float:
		if f, exact := constant.Float64Val(v); exact {
			return strconv.FormatFloat(f, 'g', -1, 64), true
		}
		return v.String(), true
	case constant.Complex:
		return v.String(), true
	default:
		return "", false
	}
}

// Load parses and type-checks the package in dir and returns typeName.
// Type errors do not fail the load; constants that cannot be evaluated
// simply do not resolve.
func Load(ctx context.Context, dir, typeName string) (*Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	bp, err := build.Default.ImportDir(abs, 0)
	if err != nil {
		return nil, fmt.Errorf("reading package in %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	var (
		files []*ast.File
		found *ast.File
	)
	names := append(append([]string{}, bp.GoFiles...), bp.CgoFiles...)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := parser.ParseFile(fset, filepath.Join(abs, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		files = append(files, f)
		if found == nil && declares(f, typeName) {
			found = f
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrTypeNotFound, typeName, dir)
	}

	pkgPath := importPath(abs, bp.Name)
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(error) {},
	}
	pkg, _ := conf.Check(pkgPath, fset, files, nil)

	filename := fset.File(found.Pos()).Name()
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	t := &Type{
		Name:     typeName,
		PkgPath:  pkgPath,
		Filename: filename,
		src:      src,
	}
	if pkg != nil {
		t.scope = pkg.Scope()
	}
	return t, nil
}

func declares(f *ast.File, name string) bool {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name.Name == name {
				return true
			}
		}
	}
	return false
}

// importPath derives the import path of dir from the enclosing go.mod,
// falling back to the package name.
func importPath(dir, pkgName string) string {
	for d := dir; ; {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			if mod := modfile.ModulePath(data); mod != "" {
				rel, err := filepath.Rel(d, dir)
				if err != nil || rel == "." {
					return mod
				}
				return path.Join(mod, filepath.ToSlash(rel))
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			return pkgName
		}
		d = parent
	}
}
