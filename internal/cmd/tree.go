package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/pipeline"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/workflow"
)

// NewTreeCmd creates and returns the tree subcommand.
func NewTreeCmd() *cobra.Command {
	var (
		expand []string
		all    bool
		sizes  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tree ARCHIVE",
		Short: "Print the directory tree of an archive",
		Long: `Print the directory tree of an archive.

Only the root is expanded by default. Use --expand to open specific
directories (their parents open with them) or --all to open everything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			name, data, err := readArchive(args[0])
			if err != nil {
				return err
			}
			root, err := runOperation(cmd, workflow.KindExtract, "Reading",
				func(ctx context.Context, progress workflow.ProgressFunc) (*tree.Node, error) {
					return pipeline.Extract(ctx, name, data, progress)
				})
			if err != nil {
				log.Debug("Failed to read archive", zap.String("archive", name), zap.Error(err))
				return err
			}
			dirs, files := root.Count()
			log.Debug("Read archive",
				zap.String("archive", name),
				zap.Int("directories", dirs),
				zap.Int("files", files))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(root)
			}

			v := tree.NewView(root)
			if all {
				v.ExpandAll()
			} else {
				v.Expand("")
				for _, p := range expand {
					v.Expand(p)
				}
			}
			if sizes {
				v.FileSuffix = func(_ string, n *tree.Node) string {
					return dimStyle.Render(fmt.Sprintf(" (%d bytes)", n.Size()))
				}
			}
			return v.Render(out)
		},
	}

	cmd.Flags().StringSliceVarP(&expand, "expand", "e", nil, "Directories to expand")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Expand every directory")
	cmd.Flags().BoolVarP(&sizes, "sizes", "s", false, "Show file sizes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as JSON")

	return cmd
}
