package services_test

import (
	"testing"
	"time"

	"etick/internal/models"
	"etick/internal/services"
	"etick/internal/tenancy"
	"etick/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPage() *pagination.PageParams {
	return &pagination.PageParams{Page: 1, PageSize: 20}
}

func TestShowCreateRejectsCrossTenantComposition(t *testing.T) {
	f := newFixture(t)
	tc1 := tenancy.NewContext(f.t1)
	tc2 := tenancy.NewContext(f.t2)

	venue := &models.Venue{Name: "租户一场馆", IsActive: true}
	require.NoError(t, f.venue.Create(venue, tc1))
	act := &models.Act{Name: "租户二团体", IsActive: true}
	require.NoError(t, f.act.Create(act, tc2))

	now := time.Now()
	show := &models.Show{
		VenueID:  venue.ID,
		ActID:    act.ID,
		Title:    "非法组合",
		StartsAt: now.Add(time.Hour),
		EndsAt:   now.Add(2 * time.Hour),
	}
	err := f.show.Create(show, tc1)

	var mismatch *tenancy.TenantMismatchError
	require.ErrorAs(t, err, &mismatch)

	var count int64
	require.NoError(t, f.db.Model(&models.Show{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestShowListIsolatedPerTenant(t *testing.T) {
	f := newFixture(t)
	tc1 := tenancy.NewContext(f.t1)
	tc2 := tenancy.NewContext(f.t2)

	f.onSaleShow(t, tc1)
	f.onSaleShow(t, tc2)

	shows, total, err := f.show.List(tc1, defaultPage(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, shows, 1)

	// 系统上下文（管理路径）看到全部
	shows, total, err = f.show.List(tenancy.SystemContext(), defaultPage(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, shows, 2)
}

func TestShowUpdateRevalidatesNewParent(t *testing.T) {
	f := newFixture(t)
	tc1 := tenancy.NewContext(f.t1)
	tc2 := tenancy.NewContext(f.t2)

	show := f.onSaleShow(t, tc1)

	// 租户二的场馆
	otherVenue := &models.Venue{Name: "别家场馆", IsActive: true}
	require.NoError(t, f.venue.Create(otherVenue, tc2))

	err := f.show.Update(show.ID, tc1, map[string]interface{}{
		"venue_id": otherVenue.ID,
	})
	var mismatch *tenancy.TenantMismatchError
	require.ErrorAs(t, err, &mismatch)

	// 原关联保持不变
	stored, err := f.show.GetByID(show.ID, tc1)
	require.NoError(t, err)
	assert.Equal(t, show.VenueID, stored.VenueID)
}

func TestVenueDeleteCascadesThroughService(t *testing.T) {
	f := newFixture(t)
	tc := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc)

	_, err := f.ticket.Sell(&services.SellRequest{
		ShowID: show.ID, BuyerName: "吴十", Quantity: 1,
	}, tc)
	require.NoError(t, err)

	require.NoError(t, f.venue.Delete(show.VenueID, tc))

	var shows, sales int64
	require.NoError(t, f.db.Model(&models.Show{}).Count(&shows).Error)
	require.NoError(t, f.db.Model(&models.TicketSale{}).Count(&sales).Error)
	assert.Zero(t, shows)
	assert.Zero(t, sales)
}

func TestActDeleteConflictSurfacedByService(t *testing.T) {
	f := newFixture(t)
	tc := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc)

	err := f.act.Delete(show.ActID, tc)
	var conflict *tenancy.CascadeConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestFinishPastShowsIsSystemOnly(t *testing.T) {
	f := newFixture(t)
	tc := tenancy.NewContext(f.t1)

	venue := &models.Venue{Name: "老场馆", IsActive: true}
	require.NoError(t, f.venue.Create(venue, tc))
	act := &models.Act{Name: "老乐队", IsActive: true}
	require.NoError(t, f.act.Create(act, tc))

	past := time.Now().Add(-48 * time.Hour)
	show := &models.Show{
		VenueID:  venue.ID,
		ActID:    act.ID,
		Title:    "早已落幕",
		StartsAt: past,
		EndsAt:   past.Add(2 * time.Hour),
		Status:   models.ShowStatusScheduled,
	}
	require.NoError(t, f.show.Create(show, tc))

	_, err := f.show.FinishPastShowsAllTenants(tc, time.Now())
	require.Error(t, err)

	n, err := f.show.FinishPastShowsAllTenants(tenancy.SystemContext(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := f.show.GetByID(show.ID, tc)
	require.NoError(t, err)
	assert.Equal(t, models.ShowStatusFinished, stored.Status)
}
