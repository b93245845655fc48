package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"libfetch/internal/app"
)

type fetchOptions struct {
	Manifest  string
	CacheDir  string
	DirName   string
	InjectDir string
}

func newFetchCommand() *cobra.Command {
	opts := fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download, verify and relocate manifest artifacts into the cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "libraries.yaml", "Artifact manifest path")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", ".libfetch", "Cache root directory")
	cmd.Flags().StringVar(&opts.DirName, "dir-name", "", "Cache sub-directory name (default \"libs\")")
	cmd.Flags().StringVar(&opts.InjectDir, "inject-dir", "", "Classpath directory to link loaded jars into")

	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("dir_name", cmd.Flags().Lookup("dir-name"))
	_ = viper.BindPFlag("inject_dir", cmd.Flags().Lookup("inject-dir"))

	return cmd
}

func runFetch(ctx context.Context, cmd *cobra.Command, opts fetchOptions) error {
	service := newAppService()
	result, err := service.Fetch(ctx, app.FetchRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		CacheDir:     resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
		DirName:      resolveString(cmd, opts.DirName, "dir_name", "dir-name"),
		InjectDir:    resolveString(cmd, opts.InjectDir, "inject_dir", "inject-dir"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("fetched %d artifacts in %s\n", result.Fetched, result.Elapsed.Round(0))
	return nil
}
