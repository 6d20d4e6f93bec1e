// Command spectra clusters graphs and scores partitions from the shell.
//
//	spectra cluster data/karate.mtx -k 2 > clusters.csv
//	spectra analyze data/karate.mtx --clusters clusters.csv
//	spectra cluster s3://datasets/web-google.txt.zst -k 8 --algorithm balanced-cut
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
