// Command sqllint checks that every inline SQL constant starts with a unique
// "--sql <uuid>" marker, the key SQLRunner logs queries under.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sqlStatement = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with|create|alter|drop)\b\s`)
	uuidMarker   = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type violation struct {
	file    string
	line    int
	name    string
	message string
}

func (v violation) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
}

type query struct {
	file   string
	line   int
	name   string
	marker string
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"internal/sqlinline"}
	}

	violations, err := lint(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: SQL audit marker problems")
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", v)
		}
		os.Exit(1)
	}
}

func lint(targets []string) ([]violation, error) {
	var queries []query
	var violations []violation
	visit := func(path string) error {
		qs, vs, err := lintFile(path)
		if err != nil {
			return err
		}
		queries = append(queries, qs...)
		violations = append(violations, vs...)
		return nil
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filepath.Ext(target) == ".go" {
				if err := visit(target); err != nil {
					return nil, err
				}
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != target && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			return visit(path)
		})
		if err != nil {
			return nil, err
		}
	}

	violations = append(violations, duplicates(queries)...)
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file != violations[j].file {
			return violations[i].file < violations[j].file
		}
		return violations[i].line < violations[j].line
	})
	return violations, nil
}

func lintFile(path string) ([]query, []violation, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, err
	}
	var queries []query
	var violations []violation
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, value := range spec.Values {
			lit, ok := value.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			raw, err := unquote(lit.Value)
			if err != nil || !sqlStatement.MatchString(raw) {
				continue
			}
			q := query{file: path, line: fset.Position(lit.Pos()).Line, name: specName(spec, i), marker: firstLine(raw)}
			if !uuidMarker.MatchString(q.marker) {
				violations = append(violations, violation{
					file: q.file, line: q.line, name: q.name,
					message: "missing or invalid --sql <uuid> marker",
				})
				continue
			}
			queries = append(queries, q)
		}
		return true
	})
	return queries, violations, nil
}

// duplicates flags every query after the first that reuses a marker.
func duplicates(queries []query) []violation {
	first := make(map[string]query, len(queries))
	var out []violation
	for _, q := range queries {
		prev, seen := first[q.marker]
		if !seen {
			first[q.marker] = q
			continue
		}
		out = append(out, violation{
			file: q.file, line: q.line, name: q.name,
			message: fmt.Sprintf("marker already used by %s", prev.name),
		})
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if v == "" {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func specName(spec *ast.ValueSpec, i int) string {
	if i < len(spec.Names) && spec.Names[i] != nil {
		return spec.Names[i].Name
	}
	return "_"
}
