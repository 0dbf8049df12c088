// Package golang scans Go source trees into weighted trees: directories
// become package containers, files become file containers, and top-level
// declarations become leaves weighted by their line span.
package golang

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/source"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// Options configures the scanner.
type Options struct {
	// IncludeTests includes _test.go files.
	IncludeTests bool
}

// Scanner parses Go packages with the standard library parser.
type Scanner struct {
	opts Options
}

// New creates a Go scanner.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Name identifies the scanner in cache keys and logs.
func (s *Scanner) Name() string { return "golang" }

// Fingerprint hashes the scannable file set under root.
func (s *Scanner) Fingerprint(root string) (string, error) {
	return source.Fingerprint(root, s.wantFile)
}

// Scan walks root and builds the weighted tree. Directories without Go
// files are omitted; vendor, testdata, hidden, and underscore-prefixed
// directories are skipped.
func (s *Scanner) Scan(ctx context.Context, root string) (*tree.Node, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %q", root)
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != abs && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.wantFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %q", root)
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no Go files under %q", root)
	}
	sort.Strings(files)

	rootNode := &tree.Node{
		ID:       filepath.Base(abs),
		Category: "module",
		Source:   abs,
	}
	dirs := map[string]*tree.Node{".": rootNode}

	fset := token.NewFileSet()
	for _, path := range files {
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "relativize %q", path)
		}
		rel = filepath.ToSlash(rel)

		fileNode, err := s.scanFile(fset, path, rel)
		if err != nil {
			return nil, err
		}

		parent := s.dirNode(dirs, rootNode, filepath.ToSlash(filepath.Dir(rel)))
		parent.Children = append(parent.Children, fileNode)
	}

	accumulate(rootNode)
	return rootNode, nil
}

// dirNode returns the container for a relative directory, creating any
// missing ancestors.
func (s *Scanner) dirNode(dirs map[string]*tree.Node, root *tree.Node, rel string) *tree.Node {
	if n, ok := dirs[rel]; ok {
		return n
	}
	parent := s.dirNode(dirs, root, parentDir(rel))
	n := &tree.Node{
		ID:       rel,
		Label:    filepath.Base(rel),
		Category: "package",
	}
	parent.Children = append(parent.Children, n)
	dirs[rel] = n
	return n
}

func parentDir(rel string) string {
	d := filepath.ToSlash(filepath.Dir(rel))
	if d == rel {
		return "."
	}
	return d
}

// scanFile parses one file and emits its container with one leaf per
// top-level declaration.
func (s *Scanner) scanFile(fset *token.FileSet, path, rel string) (*tree.Node, error) {
	f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %q", rel)
	}

	fileNode := &tree.Node{
		ID:       rel,
		Label:    filepath.Base(rel),
		Category: "file",
		Source:   path,
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			fileNode.Children = append(fileNode.Children, declLeaf(fset, rel, funcLabel(d), "func", d))
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				fileNode.Children = append(fileNode.Children, declLeaf(fset, rel, ts.Name.Name, "type", ts))
			}
		}
	}
	return fileNode, nil
}

func declLeaf(fset *token.FileSet, rel, name, category string, n ast.Node) *tree.Node {
	start := fset.Position(n.Pos())
	end := fset.Position(n.End())
	lines := end.Line - start.Line + 1
	return &tree.Node{
		ID:       rel + ":" + name,
		Label:    name,
		Category: category,
		Value:    float64(lines),
		Span: &tree.Span{
			File:      rel,
			StartLine: start.Line,
			EndLine:   end.Line,
		},
	}
}

// funcLabel renders methods as (Receiver).Name.
func funcLabel(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return d.Name.Name
	}
	return fmt.Sprintf("(%s).%s", recvType(d.Recv.List[0].Type), d.Name.Name)
}

func recvType(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.StarExpr:
		return "*" + recvType(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return recvType(t.X)
	case *ast.IndexListExpr:
		return recvType(t.X)
	default:
		return "?"
	}
}

// accumulate fills container values bottom-up as the sum of child values.
func accumulate(n *tree.Node) float64 {
	if len(n.Children) == 0 {
		return n.Value
	}
	var sum float64
	for _, c := range n.Children {
		sum += accumulate(c)
	}
	n.Value = sum
	return sum
}

func (s *Scanner) wantFile(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, ".") {
		return false
	}
	if !s.opts.IncludeTests && strings.HasSuffix(name, "_test.go") {
		return false
	}
	return true
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || name == "node_modules" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// Ensure Scanner implements source.Scanner.
var _ source.Scanner = (*Scanner)(nil)
