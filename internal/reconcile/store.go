package reconcile

import (
	"context"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

// Store is the remote payer store as seen by a Session.
type Store interface {
	FetchUnmapped(ctx context.Context, page, perPage int) (registry.UnmappedPage, error)
	FetchPayers(ctx context.Context, page, perPage int) (registry.PayerPage, error)
	// FetchGroups pages over root groups; each root carries its full subtree.
	FetchGroups(ctx context.Context, page, perPage int) (registry.GroupPage, error)

	MapPayer(ctx context.Context, detailID int64, payerID string) error
	UpdatePrettyName(ctx context.Context, payerID, prettyName string) error
	// UpdateGroup clears the payer's group when groupID is empty.
	UpdateGroup(ctx context.Context, payerID, groupID string) error
}
