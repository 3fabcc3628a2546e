package common

import (
	"context"
	"fmt"

	"github.com/sms03/resume-mcp/internal/errors"
)

// CreateInputFunc defines how to create the specific AI input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// AIOperationFunc is a generic signature for AI operations. Failures are
// reported inside the result rather than as a Go error.
type AIOperationFunc[Input any] func(context.Context, Input) any

// RunAICommand encapsulates the common logic for file-based CLI commands.
func RunAICommand[Input any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input],
	logDetails LogDetailsFunc[Input],
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result := aiOperation(ctx, input)

	// Failures come back inside the payload; surface them without aborting
	// so the sentinel result still reaches the output.
	if msg := inBandError(result); msg != "" && logger != nil {
		logger.Warn("AI operation reported an error", "error", msg)
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

// inBandError extracts the error message from a sentinel result, if any.
func inBandError(result any) string {
	m, ok := result.(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := m["error"].(string)
	return msg
}
