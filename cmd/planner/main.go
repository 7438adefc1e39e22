// Command planner reads a planning request as JSON on stdin and writes the
// resulting schedule as JSON on stdout. Diagnostics go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/app"
	"github.com/bruintracks/bruintracks-go/internal/dto"
)

func main() {
	core, err := app.Bootstrap()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer core.Close()

	var req dto.PlanRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		core.Log.Error("malformed planning request", zap.Error(err))
		os.Exit(1)
	}

	resp, err := core.Planner.Plan(context.Background(), req)
	if err != nil {
		core.Log.Error("planning failed", zap.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(resp); err != nil {
		core.Log.Error("encode response", zap.Error(err))
		os.Exit(1)
	}
}
