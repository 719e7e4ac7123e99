package services_test

import (
	"context"
	"testing"
	"time"

	"etick/internal/database"
	"etick/internal/models"
	"etick/internal/services"
	"etick/internal/tenancy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db     *gorm.DB
	engine *tenancy.Engine
	venue  *services.VenueService
	act    *services.ActService
	show   *services.ShowService
	ticket *services.TicketService
	t1     uint
	t2     uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{}, &models.User{}, &models.Venue{}, &models.Act{},
		&models.Show{}, &models.TicketOffer{}, &models.TicketSale{},
	))

	tenant1 := &models.Tenant{Name: "租户一", Code: "t1", Status: models.TenantStatusActive}
	tenant2 := &models.Tenant{Name: "租户二", Code: "t2", Status: models.TenantStatusActive}
	require.NoError(t, db.Create(tenant1).Error)
	require.NoError(t, db.Create(tenant2).Error)

	engine := tenancy.NewEngine(database.BuildTenancyRegistry())
	return &fixture{
		db:     db,
		engine: engine,
		venue:  services.NewVenueService(db, engine),
		act:    services.NewActService(db, engine),
		show:   services.NewShowService(db, engine),
		ticket: services.NewTicketService(db, engine, nil),
		t1:     tenant1.ID,
		t2:     tenant2.ID,
	}
}

func (f *fixture) onSaleShow(t *testing.T, tc tenancy.Context) *models.Show {
	t.Helper()
	venue := &models.Venue{Name: "场馆", Capacity: 100, IsActive: true}
	require.NoError(t, f.venue.Create(venue, tc))
	act := &models.Act{Name: "乐队", IsActive: true}
	require.NoError(t, f.act.Create(act, tc))

	now := time.Now()
	show := &models.Show{
		VenueID:        venue.ID,
		ActID:          act.ID,
		Title:          "演出",
		StartsAt:       now.Add(24 * time.Hour),
		EndsAt:         now.Add(26 * time.Hour),
		BasePriceCents: 5000,
		Status:         models.ShowStatusScheduled,
	}
	require.NoError(t, f.show.Create(show, tc))
	require.NoError(t, f.show.UpdateStatus(show.ID, tc, models.ShowStatusOnSale))
	show.Status = models.ShowStatusOnSale
	return show
}

func TestSellDecrementsQuotaAndComputesAmount(t *testing.T) {
	f := newFixture(t)
	tc := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc)

	offer := &models.TicketOffer{ShowID: show.ID, Tier: "vip", PriceCents: 8800, Quota: 5, Status: models.OfferStatusOpen}
	require.NoError(t, f.ticket.CreateOffer(offer, tc))

	sale, err := f.ticket.Sell(&services.SellRequest{
		ShowID:    show.ID,
		OfferID:   &offer.ID,
		BuyerName: "王五",
		Quantity:  2,
	}, tc)
	require.NoError(t, err)
	assert.NotEmpty(t, sale.Serial)
	assert.Equal(t, int64(17600), sale.AmountCents)

	remaining, err := f.ticket.OfferRemaining(context.Background(), offer.ID, tc)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestSellRejectsOversell(t *testing.T) {
	f := newFixture(t)
	tc := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc)

	offer := &models.TicketOffer{ShowID: show.ID, Tier: "std", PriceCents: 3000, Quota: 2, Status: models.OfferStatusOpen}
	require.NoError(t, f.ticket.CreateOffer(offer, tc))

	_, err := f.ticket.Sell(&services.SellRequest{
		ShowID: show.ID, OfferID: &offer.ID, BuyerName: "赵六", Quantity: 3,
	}, tc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "余量不足")

	// 失败的售票不留记录
	var count int64
	require.NoError(t, f.db.Model(&models.TicketSale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSellInvisibleAcrossTenants(t *testing.T) {
	f := newFixture(t)
	tc1 := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc1)

	_, err := f.ticket.Sell(&services.SellRequest{
		ShowID: show.ID, BuyerName: "钱七", Quantity: 1,
	}, tc1)
	require.NoError(t, err)

	// 租户二的上下文根本看不到这个场次
	_, err = f.ticket.Sell(&services.SellRequest{
		ShowID: show.ID, BuyerName: "孙八", Quantity: 1,
	}, tenancy.NewContext(f.t2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "场次不存在")

	sales, total, err := f.ticket.ListSales(tenancy.NewContext(f.t2), defaultPage(), 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sales)
}

func TestRefundRestoresQuota(t *testing.T) {
	f := newFixture(t)
	tc := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc)

	offer := &models.TicketOffer{ShowID: show.ID, Tier: "vip", PriceCents: 8800, Quota: 4, Status: models.OfferStatusOpen}
	require.NoError(t, f.ticket.CreateOffer(offer, tc))

	sale, err := f.ticket.Sell(&services.SellRequest{
		ShowID: show.ID, OfferID: &offer.ID, BuyerName: "周九", Quantity: 2,
	}, tc)
	require.NoError(t, err)

	require.NoError(t, f.ticket.Refund(sale.ID, tc))

	remaining, err := f.ticket.OfferRemaining(context.Background(), offer.ID, tc)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)

	// 重复退票被拒绝
	err = f.ticket.Refund(sale.ID, tc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已退")
}

func TestExpireEndedOffersRequiresSystemContext(t *testing.T) {
	f := newFixture(t)
	tc := tenancy.NewContext(f.t1)
	show := f.onSaleShow(t, tc)

	past := time.Now().Add(-time.Hour)
	start := past.Add(-24 * time.Hour)
	offer := &models.TicketOffer{
		ShowID: show.ID, Tier: "early", PriceCents: 2000, Quota: 10,
		SaleStart: &start, SaleEnd: &past, Status: models.OfferStatusOpen,
	}
	require.NoError(t, f.ticket.CreateOffer(offer, tc))

	// 普通租户上下文不允许跨租户维护
	_, err := f.ticket.ExpireEndedOffersAllTenants(tc, time.Now())
	require.Error(t, err)

	n, err := f.ticket.ExpireEndedOffersAllTenants(tenancy.SystemContext(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := f.ticket.GetOfferByID(offer.ID, tc)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusExpired, stored.Status)
}
