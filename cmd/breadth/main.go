// Command breadth reads a breadth recommendation request as JSON on stdin
// and writes the ranked candidates as JSON on stdout.
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

	var req dto.BreadthRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		core.Log.Error("malformed breadth request", zap.Error(err))
		os.Exit(1)
	}

	resp, err := core.Breadth.Recommend(context.Background(), req)
	if err != nil {
		core.Log.Error("breadth request failed", zap.Error(err))
		os.Exit(1)
	}

	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		core.Log.Error("encode response", zap.Error(err))
		os.Exit(1)
	}
}
