package main

import (
	"context"
	"os"

	"kmconnect-backend/cmd/kmconnect/commands"
	"kmconnect-backend/lib/telemetry"
	"kmconnect-backend/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	// the CLI works without a telemetry.json5 nearby
	tel, err := telemetry.SetupFromEnv(ctx, "kmconnect")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("setup telemetry", err)
	}
	if err == nil {
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	commands.ExecuteContext(ctx)
}
