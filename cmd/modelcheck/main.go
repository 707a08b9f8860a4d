// Command modelcheck loads a scoring artifact and prints assessments for a
// handful of Pacific shipping waypoints. Useful for sanity-checking a model
// file before deploying it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/okian/whalerisk/internal/domain/gbm"
	"github.com/okian/whalerisk/internal/domain/scoring"
)

type checkpoint struct {
	name  string
	lat   float64
	lon   float64
	month int
}

func main() {
	modelPath := flag.String("model", "model/whale_risk_model.json", "path to the scoring artifact")
	flag.Parse()

	if err := run(context.Background(), *modelPath); err != nil {
		fmt.Fprintln(os.Stderr, "modelcheck:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, modelPath string) error {
	model, err := gbm.Load(modelPath)
	if err != nil {
		return err
	}

	fmt.Printf("loaded %s (%d trees)\n\n", modelPath, model.TreeCount())

	scorer := scoring.New(model)

	points := []checkpoint{
		{name: "Vancouver Island, July", lat: 48.0, lon: -125.0, month: 7},
		{name: "San Francisco Bay approach, January", lat: 37.5, lon: -123.0, month: 1},
		{name: "Oregon coast, May", lat: 45.0, lon: -124.0, month: 5},
		{name: "Southern California, December", lat: 33.0, lon: -120.0, month: 12},
	}

	for _, p := range points {
		month := p.month
		a, err := scorer.AssessPoint(ctx, p.lat, p.lon, &month)
		if err != nil {
			return fmt.Errorf("score %s: %w", p.name, err)
		}
		fmt.Printf("%-40s lat=%6.1f lon=%7.1f month=%2d  ->  %-6s p=%.3f\n",
			p.name, p.lat, p.lon, p.month, a.RiskLevel, a.Probability)
		fmt.Printf("%-40s %s\n\n", "", a.Recommendation)
	}

	return nil
}
