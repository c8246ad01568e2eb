// main is the entry point for the ebb CLI.
package main

import (
	"github.com/huangsam/ebb/cmd"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("ebb", err)
	}
}
