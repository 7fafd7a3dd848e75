// Package directive scans Go source for the //microflow:model annotation
// that marks a type as a generated inference model, the Go-idiomatic
// counterpart to an attribute macro: rather than decorating the type via
// the language's macro system, the annotation lives in an ordinary comment
// immediately above the type declaration and is picked up by a go:generate
// invocation of cmd/microflowgen.
package directive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"
)

// Model is one resolved //microflow:model annotation: the annotated type's
// name, the package it lives in, and the model file path and capacity the
// annotation names.
type Model struct {
	TypeName    string
	PackageName string
	ModelPath   string
	Capacity    int
	File        string
	Line        int
}

var directivePattern = regexp.MustCompile(`^microflow:model\s+"([^"]+)"(?:\s+capacity=(\d+))?\s*$`)

// Scan parses the Go source file at path and returns every //microflow:model
// directive found immediately above a type declaration.
func Scan(path string) ([]Model, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("directive: scan %s: %w", path, err)
	}

	var models []Model
	ast.Inspect(file, func(n ast.Node) bool {
		decl, ok := n.(*ast.GenDecl)
		if !ok || decl.Tok != token.TYPE || decl.Doc == nil {
			return true
		}

		directive, ok := findDirective(decl.Doc)
		if !ok {
			return true
		}

		for _, spec := range decl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			pos := fset.Position(decl.Pos())
			models = append(models, Model{
				TypeName:    typeSpec.Name.Name,
				PackageName: file.Name.Name,
				ModelPath:   directive.path,
				Capacity:    directive.capacity,
				File:        path,
				Line:        pos.Line,
			})
		}
		return true
	})

	return models, nil
}

type parsedDirective struct {
	path     string
	capacity int
}

func findDirective(group *ast.CommentGroup) (parsedDirective, bool) {
	for _, c := range group.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		m := directivePattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		capacity := 0
		if m[2] != "" {
			capacity, _ = strconv.Atoi(m[2])
		}
		return parsedDirective{path: m[1], capacity: capacity}, true
	}
	return parsedDirective{}, false
}
