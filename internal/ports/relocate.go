package ports

import (
	"context"

	"libfetch/internal/types"
)

// RelocatorPort rewrites a jar's internal package namespace according to the
// given rules, writing the transformed jar to outPath. The input jar is never
// modified.
type RelocatorPort interface {
	Relocate(ctx context.Context, inPath string, outPath string, rules []types.Relocation) error
}
