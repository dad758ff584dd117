// Command workflowcheck reports wall-clock time, randomness and raw
// goroutines in Temporal workflow packages.
//
//	go run ./cmd/workflowcheck ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/ahrav/go-numflow/internal/lint/determinism"
)

func main() {
	singlechecker.Main(determinism.Analyzer)
}
