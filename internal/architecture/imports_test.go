package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type violation struct {
	file string
	imp  string
	rule string
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)
	violations := walkImports(t, root, func(rel string) []string {
		return disallowedImports(modulePath, layerFor(rel))
	})
	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q (disallowed: %q)\n", v.file, v.imp, v.rule)
		}
		t.Fatal(b.String())
	}
}

// The reconciliation core talks to the store only through reconcile.Store.
func TestCoreHasNoStorageOrTransport(t *testing.T) {
	root, _ := moduleRoot(t)
	banned := []string{"gorm.io/gorm", "gorm.io/driver/", "github.com/redis/", "github.com/gin-gonic/", "net/http"}
	violations := walkImports(t, root, func(rel string) []string {
		if strings.HasSuffix(rel, "_test.go") {
			return nil
		}
		switch {
		case strings.HasPrefix(rel, "internal/reconcile/"),
			strings.HasPrefix(rel, "internal/taxonomy/"),
			strings.HasPrefix(rel, "internal/paging/"),
			strings.HasPrefix(rel, "internal/matching/"):
			return banned
		default:
			return nil
		}
	})
	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("storage/transport imports found in the reconciliation core:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q\n", v.file, v.imp)
		}
		t.Fatal(b.String())
	}
}

func walkImports(t *testing.T, root string, rules func(rel string) []string) []violation {
	t.Helper()
	internalDir := filepath.Join(root, "internal")
	fset := token.NewFileSet()
	var violations []violation

	walkErr := filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		disallowed := rules(rel)
		if len(disallowed) == 0 {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			for _, bad := range disallowed {
				if strings.HasPrefix(imp, bad) {
					violations = append(violations, violation{file: rel, imp: imp, rule: bad})
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return violations
}

func layerFor(rel string) string {
	switch {
	case strings.HasPrefix(rel, "internal/platform/"), strings.HasPrefix(rel, "internal/pkg/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/data/"):
		return "data"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	case strings.HasPrefix(rel, "internal/reconcile/"), strings.HasPrefix(rel, "internal/taxonomy/"), strings.HasPrefix(rel, "internal/paging/"):
		return "core"
	default:
		return ""
	}
}

func disallowedImports(modulePath string, layer string) []string {
	internal := func(names ...string) []string {
		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, modulePath+"/internal/"+n)
		}
		return out
	}
	switch layer {
	case "platform":
		return internal("domain/", "data/", "services", "http/", "clients/", "reconcile", "app")
	case "domain":
		return internal("data/", "services", "http/", "clients/", "reconcile", "app")
	case "data":
		return internal("services", "http/", "clients/", "reconcile", "app")
	case "services":
		return internal("http/", "reconcile", "app")
	case "core":
		return internal("data/", "services", "http/", "app", "clients/")
	default:
		return nil
	}
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return root, modulePath
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
