// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ldgm/pipeline"
)

func runClosure(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	input, _ := f.GetString("input")
	output, _ := f.GetString("output")
	var cfg pipeline.ClosureConfig
	cfg.Threshold, _ = f.GetFloat64("threshold")
	cfg.Directed, _ = f.GetBool("directed")
	cfg.Workers, _ = f.GetInt("workers")
	cfg.Stride, _ = f.GetInt("stride")
	cfg.InOffset, _ = f.GetInt("in-offset")
	cfg.OutOffset, _ = f.GetInt("out-offset")
	if input == "" {
		return fmt.Errorf("closure: --input is required")
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	var in io.Reader = cmd.InOrStdin()
	if input != "-" {
		fin, err := os.Open(input)
		if err != nil {
			return err
		}
		defer fin.Close()
		in = fin
	}

	var out io.Writer = cmd.OutOrStdout()
	var fout *os.File
	if output != "-" {
		if fout, err = os.Create(output); err != nil {
			return err
		}
		out = fout
	}
	bw := bufio.NewWriter(out)

	err = pipeline.Closure(cmd.Context(), bufio.NewReader(in), bw, cfg, log)
	if err == nil {
		err = bw.Flush()
	}
	if fout != nil {
		if cerr := fout.Close(); err == nil {
			err = cerr
		}
	}

	return err
}
