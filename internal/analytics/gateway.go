package analytics

import (
	"context"
	"time"

	"github.com/Dan9191/liquidity-service/internal/models"
)

// Gateway supplies read-only ledger snapshots for a user.
type Gateway interface {
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	// ListExpenseTransactions returns transactions dated at or after since.
	ListExpenseTransactions(ctx context.Context, userID int64, since time.Time) ([]models.Transaction, error)
	ListARAPItems(ctx context.Context, userID int64, kind models.ARAPKind) ([]models.ARAPItem, error)
}
