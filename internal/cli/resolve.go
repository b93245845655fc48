package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"libfetch/internal/app"
)

type resolveOptions struct {
	Manifest string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print candidate download URLs for manifest artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "libraries.yaml", "Artifact manifest path")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	results, err := service.Resolve(ctx, app.ResolveRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
	})
	if err != nil {
		return err
	}
	for _, result := range results {
		fmt.Println(result.Coordinate)
		for _, candidate := range result.Candidates {
			fmt.Printf("  %s\n", candidate)
		}
	}
	return nil
}
