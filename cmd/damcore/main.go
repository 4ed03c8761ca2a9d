package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"damcore/pkg/engine"
	"damcore/pkg/eval"
	"damcore/pkg/hub"
)

const name = "damcore"

var (
	versionName = "dev"
	flgLevel    int
	flgScale    float64
	flgHash     int
)

func main() {
	flag.IntVar(&flgLevel, "level", engine.MaxLevel, "difficulty level 1..5")
	flag.Float64Var(&flgScale, "scale", -1, "override positional feature scale")
	flag.IntVar(&flgHash, "hash", 16, "transposition table size in megabytes")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

	logger.Println(name,
		"VersionName", versionName,
		"RuntimeVersion", runtime.Version(),
		"GOARCH", runtime.GOARCH,
		"GOOS", runtime.GOOS,
		"NumCPU", runtime.NumCPU(),
	)

	var config = engine.Level(flgLevel)
	if flgScale >= 0 {
		config.EvalFeatureScale = flgScale
	}
	var eng = engine.NewEngine(config, func() engine.IEvaluator {
		return eval.NewEvaluationService(config.EvalFeatureScale)
	})
	eng.Hash = flgHash

	var protocol = hub.New(name, versionName, eng,
		eval.NewEvaluationService(config.EvalFeatureScale))
	protocol.Run(logger)
}
