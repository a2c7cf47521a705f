// Package statsview serves live Go runtime statistics of the emulator
// process, such as heap usage, goroutines and GC pauses, as charts.
package statsview

import (
	"context"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// Address is the listen address of the stats server.
const Address = "localhost:18066"

const path = "/debug/statsview"

// URL returns the address of the stats page.
func URL() string {
	return "http://" + Address + path
}

// Launch starts the stats server in a new goroutine. The server is shut down
// when the context is cancelled.
func Launch(ctx context.Context, logger *log.Logger) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()

	go mgr.Start()
	go func() {
		<-ctx.Done()
		mgr.Stop()
	}()

	logger.Info("Stats server available", log.String("url", URL()))
}
