package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/placement/cmd/placement/cmd"
	"github.com/armadaproject/placement/internal/common"
	"github.com/armadaproject/placement/internal/common/logging"
)

func main() {
	common.ConfigureCommandLineLogging()
	common.BindCommandlineArguments()
	err := cmd.RootCmd().Execute()
	if err != nil {
		log.Debug(logging.WithStack(err))
		os.Exit(1)
	}
}
