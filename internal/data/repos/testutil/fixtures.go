package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/payerdesk/internal/domain/registry"
)

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, id, name string, parentID *string) *types.PayerGroup {
	tb.Helper()
	g := &types.PayerGroup{GroupID: id, GroupName: name, ParentID: parentID}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}

func SeedPayer(tb testing.TB, ctx context.Context, tx *gorm.DB, id, name string, groupID *string) *types.Payer {
	tb.Helper()
	p := &types.Payer{PayerID: id, PayerName: name, GroupID: groupID}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed payer: %v", err)
	}
	return p
}

func SeedDetail(tb testing.TB, ctx context.Context, tx *gorm.DB, payerID, name, state, source string) *types.PayerDetail {
	tb.Helper()
	d := &types.PayerDetail{PayerID: payerID, PayerName: name, State: state, Source: source}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed detail: %v", err)
	}
	return d
}
