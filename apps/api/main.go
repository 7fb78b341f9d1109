package main

import (
	"flag"
)

func main() {
	manual := flag.Bool("manual", false, "wire dependencies by hand instead of using the dig container")
	flag.Parse()

	if *manual {
		startManual()
		return
	}
	startWithDig()
}
