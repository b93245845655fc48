package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"libfetch/internal/app"
)

type verifyOptions struct {
	Manifest string
	CacheDir string
	DirName  string
}

func newVerifyCommand() *cobra.Command {
	opts := verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Audit cached artifacts against manifest checksums",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "libraries.yaml", "Artifact manifest path")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", ".libfetch", "Cache root directory")
	cmd.Flags().StringVar(&opts.DirName, "dir-name", "", "Cache sub-directory name (default \"libs\")")

	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("dir_name", cmd.Flags().Lookup("dir-name"))

	return cmd
}

func runVerify(ctx context.Context, cmd *cobra.Command, opts verifyOptions) error {
	service := newAppService()
	result, err := service.Verify(ctx, app.VerifyRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		CacheDir:     resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
		DirName:      resolveString(cmd, opts.DirName, "dir_name", "dir-name"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("verified=%d missing=%d mismatched=%d skipped=%d\n",
		len(result.Verified), len(result.Missing), len(result.Mismatched), len(result.Skipped))
	for _, name := range result.Mismatched {
		fmt.Printf("  mismatch: %s\n", name)
	}
	for _, name := range result.Missing {
		fmt.Printf("  missing: %s\n", name)
	}

	if len(result.Mismatched) > 0 || len(result.Missing) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("cache verification failed")
	}
	return nil
}
