package services_test

import (
	"context"
	"testing"

	"etick/internal/models"
	"etick/internal/tenancy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueNameReusableAcrossTenants(t *testing.T) {
	f := newFixture(t)
	tc1 := tenancy.NewContext(f.t1)
	tc2 := tenancy.NewContext(f.t2)

	require.NoError(t, f.venue.Create(&models.Venue{Name: "红磡体育馆", IsActive: true}, tc1))

	// 另一租户可以使用同名场馆，互不感知
	require.NoError(t, f.venue.Create(&models.Venue{Name: "红磡体育馆", IsActive: true}, tc2))

	var count int64
	require.NoError(t, f.db.Model(&models.Venue{}).Where("name = ?", "红磡体育馆").Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// 同租户内重名被拒绝
	err := f.venue.Create(&models.Venue{Name: "红磡体育馆", IsActive: true}, tc1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已存在")
}

func TestActNameReusableAcrossTenants(t *testing.T) {
	f := newFixture(t)
	tc1 := tenancy.NewContext(f.t1)
	tc2 := tenancy.NewContext(f.t2)

	require.NoError(t, f.act.Create(&models.Act{Name: "五月天", IsActive: true}, tc1))
	require.NoError(t, f.act.Create(&models.Act{Name: "五月天", IsActive: true}, tc2))

	err := f.act.Create(&models.Act{Name: "五月天", IsActive: true}, tc2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已存在")
}

func TestOfferRemainingInvisibleAcrossTenants(t *testing.T) {
	f := newFixture(t)
	tc1 := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc1)

	offer := &models.TicketOffer{ShowID: show.ID, Tier: "std", PriceCents: 3000, Quota: 10, Status: models.OfferStatusOpen}
	require.NoError(t, f.ticket.CreateOffer(offer, tc1))

	// 归属租户先查询一次（预热路径）
	remaining, err := f.ticket.OfferRemaining(context.Background(), offer.ID, tc1)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)

	// 他租户查询同一票档必须失败，余量不可见
	_, err = f.ticket.OfferRemaining(context.Background(), offer.ID, tenancy.NewContext(f.t2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "票档不存在")
}
