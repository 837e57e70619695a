package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/ledgercast/ledgercast/pkg/formatting"
)

// ScriptNode returns a state node that compiles the active script prompt
// with the scraped article, calls the model, and validates the reply into
// typed dialogue lines.
func ScriptNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		article, err := extractArticle(s)
		if err != nil {
			return s, fmt.Errorf("script: %w: %w", ErrScriptFailed, err)
		}

		definition, err := rt.Prompts.Get(ctx, rt.Settings.PromptKey, nil)
		if err != nil {
			return s, fmt.Errorf("script: %w: %w", ErrScriptFailed, err)
		}

		compiled, err := definition.Compile(map[string]any{
			"htmlContent":  article.HTML,
			"articleTitle": article.Title,
			"articleText":  article.Text,
		})
		if err != nil {
			return s, fmt.Errorf("script: %w: %w", ErrScriptFailed, err)
		}

		reply, err := rt.Model.Chat(
			ctx,
			compiled.Messages(),
			definition.Temperature,
			definition.MaxTokens,
		)
		if err != nil {
			return s, fmt.Errorf("script: %w: %w", ErrScriptFailed, err)
		}

		validated, err := compiled.ValidateOutput(reply)
		if err != nil {
			return s, fmt.Errorf("script: %w: %w", ErrScriptFailed, err)
		}

		script, err := formatting.Remarshal[scriptResponse](validated)
		if err != nil {
			return s, fmt.Errorf("script: %w: %w", ErrScriptFailed, err)
		}

		if len(script.Lines) == 0 {
			return s, fmt.Errorf("script: %w: model returned no dialogue lines", ErrScriptFailed)
		}

		if script.Title == "" {
			script.Title = article.Title
		}

		rt.Logger.InfoContext(
			ctx, "script node complete",
			"promptKey", definition.PromptKey,
			"promptVersion", definition.Version,
			"lines", len(script.Lines),
		)

		return s.Set(KeyScript, script), nil
	})
}

func extractScript(s state.State) (scriptResponse, error) {
	val, ok := s.Get(KeyScript)
	if !ok {
		return scriptResponse{}, fmt.Errorf("missing %s in state", KeyScript)
	}

	script, ok := val.(scriptResponse)
	if !ok {
		return scriptResponse{}, fmt.Errorf("%s is not scriptResponse", KeyScript)
	}

	return script, nil
}
