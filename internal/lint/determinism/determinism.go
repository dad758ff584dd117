// Package determinism provides an analyzer that reports non-deterministic
// calls in Temporal workflow packages. Workflow code must use workflow.Now,
// workflow.Sleep, workflow.Go and side effects instead of wall-clock time,
// randomness or raw goroutines, or replays diverge from history.
package determinism

import (
	"go/ast"
	"go/types"
	"regexp"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// DefaultPackagePattern matches the packages checked when no -packages flag
// is given.
const DefaultPackagePattern = `/internal/workflow$`

// Analyzer reports non-deterministic calls in workflow packages.
var Analyzer = newAnalyzer()

var packagePattern string

func newAnalyzer() *analysis.Analyzer {
	a := &analysis.Analyzer{
		Name: "workflowdeterminism",
		Doc:  "reports wall-clock time, randomness and goroutines in Temporal workflow packages",
		Run:  run,
	}
	a.Flags.StringVar(&packagePattern, "packages", DefaultPackagePattern,
		"regexp of package paths holding workflow code")
	return a
}

// forbidden maps package paths to banned functions. A nil set bans every
// package-level function.
var forbidden = map[string]map[string]string{
	"time": {
		"Now":       "workflow.Now",
		"Since":     "workflow.Now",
		"Until":     "workflow.Now",
		"Sleep":     "workflow.Sleep",
		"After":     "workflow.NewTimer",
		"AfterFunc": "workflow.NewTimer",
		"NewTimer":  "workflow.NewTimer",
		"NewTicker": "workflow.NewTimer",
		"Tick":      "workflow.NewTimer",
	},
	"math/rand":    nil,
	"math/rand/v2": nil,
	"crypto/rand":  nil,
}

func run(pass *analysis.Pass) (any, error) {
	re, err := regexp.Compile(packagePattern)
	if err != nil {
		return nil, err
	}
	if !re.MatchString(pass.Pkg.Path()) {
		return nil, nil
	}

	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if strings.HasSuffix(filename, "_test.go") {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.GoStmt:
				pass.Report(analysis.Diagnostic{
					Pos:      n.Pos(),
					Message:  "go statement in workflow code; use workflow.Go",
					Category: "determinism",
				})
			case *ast.CallExpr:
				checkCall(pass, n)
			}
			return true
		})
	}
	return nil, nil
}

func checkCall(pass *analysis.Pass, call *ast.CallExpr) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return
	}
	// Methods such as (*rand.Rand).IntN are reached through a banned
	// constructor, which is reported on its own.
	if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
		return
	}

	path := fn.Pkg().Path()
	banned, ok := forbidden[path]
	if !ok {
		return
	}
	if banned == nil {
		pass.Reportf(call.Pos(), "%s.%s is non-deterministic in workflow code; use an activity or workflow.SideEffect",
			path, fn.Name())
		return
	}
	if alt, ok := banned[fn.Name()]; ok {
		pass.Reportf(call.Pos(), "%s.%s is non-deterministic in workflow code; use %s", path, fn.Name(), alt)
	}
}
