package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the generation workflow for a single episode. It builds the
// state graph (scrape → script → synthesize → finalize), executes it, and
// extracts the GenerationResult from the final state.
func Execute(
	ctx context.Context,
	rt *Runtime,
	episodeID uuid.UUID,
	sourceURL string,
) (*GenerationResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyEpisodeID, episodeID)
	initialState = initialState.Set(KeySourceURL, sourceURL)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("ledgercast-generate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("scrape", ScrapeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("script", ScriptNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("synthesize", SynthesizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("scrape", "script", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("script", "synthesize", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("synthesize", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("scrape"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*GenerationResult, error) {
	val, ok := s.Get(KeyResult)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyResult)
	}

	result, ok := val.(GenerationResult)
	if !ok {
		return nil, fmt.Errorf("%s is not GenerationResult", KeyResult)
	}

	return &result, nil
}
