// main.go

package main

import (
	"github.com/venom444556/openclaw-secure-deploy/cmd"
	"github.com/venom444556/openclaw-secure-deploy/pkg/logger"
	"github.com/venom444556/openclaw-secure-deploy/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	logger.InitializeWithFallback()
	if err := telemetry.Init("clawsec"); err != nil {
		logger.L().Warn("Telemetry disabled", zap.Error(err))
	}
	cmd.Execute()
}
