package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/ordishs/gocore"
	"github.com/pivx-labs/pivxd/services/rpc"
	"github.com/pivx-labs/pivxd/settings"
	"github.com/pivx-labs/pivxd/ulogger"
	"github.com/pivx-labs/pivxd/util/servicemanager"
	"github.com/pivx-labs/pivxd/util/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "pivxd"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	startRPC := flag.Bool("rpc", true, "start RPC service")
	useTracer := flag.Bool("tracer", false, "start tracer")
	help := flag.Bool("help", false, "Show help")

	flag.Parse()

	if help != nil && *help {
		fmt.Println("usage: pivxd [options]")
		fmt.Println("where options are:")
		fmt.Println("")
		fmt.Println("    -rpc=<1|0>")
		fmt.Println("          whether to start the RPC service (default=true)")
		fmt.Println("")
		fmt.Println("    -tracer=<1|0>")
		fmt.Println("          whether to start the OTLP tracer (default=false)")
		fmt.Println("")

		return
	}

	tSettings := settings.NewSettings()

	logger := ulogger.New(progname,
		ulogger.WithLevel(tSettings.LogLevel),
		ulogger.WithLoggerType(tSettings.LoggerType),
	)

	stats := gocore.Config().Stats()
	logger.Infof("STATS\n%s\nVERSION\n-------\n%s (%s)\n\n", stats, version, commit)

	go func() {
		profilerAddr, ok := gocore.Config().Get("profilerAddr")
		if ok {
			logger.Infof("Starting profile on http://%s/debug/pprof", profilerAddr)
			logger.Fatalf("%v", http.ListenAndServe(profilerAddr, nil))
		}
	}()

	if tSettings.PrometheusEndpoint != "" {
		logger.Infof("Serving prometheus metrics on %s", tSettings.PrometheusEndpoint)
		http.Handle(tSettings.PrometheusEndpoint, promhttp.Handler())
	}

	ctx := context.Background()

	if *useTracer && tSettings.TracingEnabled {
		logger.Infof("Starting tracer")

		if err := tracing.InitTracer(tSettings); err != nil {
			logger.Errorf("failed to init tracer: %v", err)
		} else {
			defer func() {
				_ = tracing.ShutdownTracer(ctx)
			}()
		}
	}

	sm := servicemanager.NewServiceManager(ctx, logger)

	if *startRPC {
		rpcServer, err := rpc.NewServer(
			logger.New("rpc"),
			tSettings,
			rpc.WithSafeModeCheck(func() bool { return tSettings.RPC.SafeMode }),
		)
		if err != nil {
			logger.Fatalf("failed to create rpc server: %v", err)
		}

		if tSettings.RPC.TimerDriver == "standard" {
			if err = rpcServer.RegisterTimerDriver(rpc.AfterFuncDriver{}); err != nil {
				logger.Fatalf("failed to register timer driver: %v", err)
			}
		}

		// A stop command from a client shuts the whole process down.
		go func() {
			<-rpcServer.RequestedProcessShutdown()
			logger.Infof("shutdown requested via rpc")
			sm.ForceShutdown()
		}()

		if err = sm.AddService("rpc", rpcServer); err != nil {
			logger.Fatalf("failed to add rpc service: %v", err)
		}

		// Open the warmup gate once every service is up.
		go func() {
			rpcServer.SetWarmupStatus("starting services")
			sm.WaitForServiceToBeReady()
			rpcServer.MarkWarmupFinished()
		}()
	}

	if err := sm.Wait(); err != nil {
		logger.Errorf("server returning an error: %v", err)
		os.Exit(2)
	}
}
