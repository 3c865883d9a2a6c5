package cmd

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
)

var seedNames = []string{
	"main.c", "util.cpp", "util.h", "notes.txt", "report.pdf", "photo.jpg",
	"diagram.png", "data.json", "Makefile", "README", ".gitignore", "build.sh",
}

// NewSeedCmd creates and returns the seed subcommand.
// It generates sample input with a randomized directory structure.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		wrap       bool
		zipOut     bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample files with a randomized directory structure",
		Long: `Generate sample files for trying out zipsort.

Creates files with a mix of extensions (and some without one) spread over
up to three levels of folders. Each file contains a single UUID line.
With --wrap everything is placed below the default wrapper folder that
organize strips. With --zip the files are written as one archive at the
output path instead of a directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := seedEntries(fileCount, wrap)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintf(out, "Generating %d sample files in %s\n", len(entries), outputPath)
			}

			if zipOut {
				var buf bytes.Buffer
				if err := archive.Encode(&buf, archive.FormatFromName(outputPath), entries); err != nil {
					return err
				}
				if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", outputPath, err)
				}
			} else {
				for _, e := range entries {
					target := filepath.Join(outputPath, filepath.FromSlash(e.Path))
					if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
						return fmt.Errorf("failed to create directory: %w", err)
					}
					data, err := e.ReadAll()
					if err != nil {
						return err
					}
					if err := os.WriteFile(target, data, 0644); err != nil {
						return fmt.Errorf("failed to write file %s: %w", target, err)
					}
				}
			}

			if verbose {
				fmt.Fprintf(out, "Successfully created %d files\n", len(entries))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory or archive (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 100, "Number of files to generate")
	cmd.Flags().BoolVarP(&wrap, "wrap", "w", false, "Place everything below the default wrapper folder")
	cmd.Flags().BoolVar(&zipOut, "zip", false, "Write one archive instead of a directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

// seedEntries generates count uniquely named file entries.
func seedEntries(count int, wrap bool) ([]archive.Entry, error) {
	entries := make([]archive.Entry, 0, count)
	seen := make(map[string]bool, count)
	for i := 0; len(entries) < count; i++ {
		depth, err := randInt(4)
		if err != nil {
			return nil, err
		}
		segs := make([]string, 0, depth+2)
		if wrap {
			segs = append(segs, bucket.DefaultStripPrefix)
		}
		for d := 0; d < depth; d++ {
			n, err := randInt(3)
			if err != nil {
				return nil, err
			}
			segs = append(segs, fmt.Sprintf("dir%d", n))
		}
		n, err := randInt(len(seedNames))
		if err != nil {
			return nil, err
		}
		segs = append(segs, seedName(seedNames[n], i))

		p := path.Join(segs...)
		if seen[p] {
			continue
		}
		seen[p] = true
		entries = append(entries, archive.FileEntry(p, []byte(uuid.New().String()+"\n")))
	}
	return entries, nil
}

// seedName numbers name so it stays unique, keeping its extension. Names
// without an extension are kept as they are so their bucket stays shared.
func seedName(name string, i int) string {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name
	}
	return fmt.Sprintf("%s-%d%s", name[:dot], i, name[dot:])
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
