package interfaces

import (
	"context"

	"copytrade-analyzer/internal/types"
)

// Analyzer runs the account metrics batch once.
type Analyzer interface {
	Run(ctx context.Context) (*types.RunReport, error)
}
