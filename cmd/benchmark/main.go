// ABOUTME: Command-line benchmark runner for retrieval quality scenarios
// ABOUTME: Executes benchmarks against isolated databases and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mandelbro/devcontext-local-sub001/benchmarks/retrievaleval"
)

func main() {
	scenarioID := flag.String("scenario", "", "Run specific scenario (keyword_routing, relationship_expansion, document_recall). If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("DevContext Retrieval Benchmarks")
	fmt.Println("========================================")
	fmt.Println()

	runner := retrievaleval.NewBenchmarkRunner(*verbose)
	ctx := context.Background()

	var results []retrievaleval.Result
	var err error

	if *scenarioID == "" {
		fmt.Println("Running all retrieval benchmark scenarios...")
		fmt.Println()

		results, err = runner.RunAllScenarios(ctx)
		if err != nil {
			log.Fatalf("Benchmark failed: %v", err)
		}
	} else {
		var scenario retrievaleval.Scenario

		switch *scenarioID {
		case "keyword_routing":
			scenario = retrievaleval.GetScenarioKeywordRouting()
		case "relationship_expansion":
			scenario = retrievaleval.GetScenarioRelationshipExpansion()
		case "document_recall":
			scenario = retrievaleval.GetScenarioDocumentRecall()
		default:
			log.Fatalf("Unknown scenario ID: %s (valid options: keyword_routing, relationship_expansion, document_recall)", *scenarioID)
		}

		fmt.Printf("Running scenario: %s\n\n", scenario.Name)

		result, err := runner.RunScenario(ctx, scenario)
		if err != nil {
			log.Fatalf("Scenario failed: %v", err)
		}

		results = []retrievaleval.Result{result}
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	passed := 0
	failed := 0

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ScenarioID, result.ScenarioName)
		fmt.Printf("  Recall: %.2f\n", result.RecallScore)
		fmt.Printf("  Precision: %.2f\n", result.PrecisionScore)
		fmt.Printf("  Overall: %.2f\n", result.OverallScore)
		fmt.Printf("  Status: %s\n", result.Status)

		if result.Status == "PASS" {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Scenarios: %d\n", len(results))
	fmt.Printf("Passed: %d\n", passed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
