package main

import (
	"fmt"
	"io"
	"time"

	"kekpiler/internal/buildpipeline"
	"kekpiler/internal/observ"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings, report observ.Report) {
	if out == nil {
		return
	}
	for _, stage := range timings.Stages() {
		if _, err := fmt.Fprintf(out, "%-8s %.1f ms\n", stage, toMillis(timings[stage])); err != nil {
			panic(err)
		}
	}
	if len(report.Stages) > 0 {
		if _, err := fmt.Fprint(out, report.String()); err != nil {
			panic(err)
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
