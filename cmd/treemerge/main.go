// treemerge performs a three-way merge of HTML documents, writing the
// merged document to stdout or an output file, and exits non-zero with
// the conflict detail if the merge could not be reconciled automatically.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/golang/glog"
	"github.com/hczhang/treesync/htmlmerge"
	"github.com/hczhang/treesync/merge"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "treemerge <base> <first> <second> [out]",
		Short: "Three-way merge of HTML documents by tree structure",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 4 {
				outPath = args[3]
			}
			return runMerge(args[0], args[1], args[2], outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write merged document here instead of stdout")
	return cmd
}

func runMerge(basePath, firstPath, secondPath, outPath string) error {
	baseFile, err := os.Open(basePath)
	if err != nil {
		return err
	}
	defer baseFile.Close()

	firstFile, err := os.Open(firstPath)
	if err != nil {
		return err
	}
	defer firstFile.Close()

	secondFile, err := os.Open(secondPath)
	if err != nil {
		return err
	}
	defer secondFile.Close()

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	glog.Infof("treemerge: merging %s, %s, %s", basePath, firstPath, secondPath)
	err = htmlmerge.Merge(context.Background(), baseFile, firstFile, secondFile, out)
	if err != nil {
		var conflict *merge.ConflictError
		if errors.As(err, &conflict) {
			glog.Errorf("treemerge: conflict: %v", conflict)
			return conflict
		}
		return err
	}
	glog.Infof("treemerge: merge succeeded")
	return nil
}

func main() {
	defer glog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
