//go:build integration

package mongo

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebook/internal/adapters/store/storetest"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

var databaseSeq atomic.Int64

// TestStore_Contract runs against the server in QUOTEBOOK_MONGO_URL, one
// throwaway database per subtest.
func TestStore_Contract(t *testing.T) {
	uri := os.Getenv("QUOTEBOOK_MONGO_URL")
	if uri == "" {
		t.Skip("QUOTEBOOK_MONGO_URL not set")
	}

	storetest.Run(t, func(t *testing.T) ports.QuoteStore {
		ctx := context.Background()
		name := fmt.Sprintf("quotebook_test_%d_%d", time.Now().UnixNano(), databaseSeq.Add(1))

		s, err := Connect(ctx, Config{URL: uri, Database: name, ConnectTimeout: 5 * time.Second})
		require.NoError(t, err)

		t.Cleanup(func() {
			_ = s.db.Drop(ctx)
			_ = s.Close(ctx)
		})

		return s
	})
}
