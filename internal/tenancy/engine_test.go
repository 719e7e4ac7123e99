package tenancy_test

import (
	"testing"
	"time"

	"etick/internal/database"
	"etick/internal/models"
	"etick/internal/tenancy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 内存SQLite，单连接避免表在连接间丢失
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Venue{},
		&models.Act{},
		&models.Show{},
		&models.TicketOffer{},
		&models.TicketSale{},
	))
	return db
}

func newTestEngine() *tenancy.Engine {
	return tenancy.NewEngine(database.BuildTenancyRegistry())
}

// seedTenants 两个租户
func seedTenants(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()
	t1 := &models.Tenant{Name: "租户一", Code: "t1", Status: models.TenantStatusActive}
	t2 := &models.Tenant{Name: "租户二", Code: "t2", Status: models.TenantStatusActive}
	require.NoError(t, db.Create(t1).Error)
	require.NoError(t, db.Create(t2).Error)
	return t1.ID, t2.ID
}

func createVenue(t *testing.T, db *gorm.DB, engine *tenancy.Engine, tc tenancy.Context, name string) *models.Venue {
	t.Helper()
	venue := &models.Venue{Name: name, City: "上海", Capacity: 1000, IsActive: true}
	require.NoError(t, engine.Create(db, venue, tc))
	return venue
}

func createAct(t *testing.T, db *gorm.DB, engine *tenancy.Engine, tc tenancy.Context, name string) *models.Act {
	t.Helper()
	act := &models.Act{Name: name, Genre: "rock", IsActive: true}
	require.NoError(t, engine.Create(db, act, tc))
	return act
}

func createShow(t *testing.T, db *gorm.DB, engine *tenancy.Engine, tc tenancy.Context, venueID, actID uint) *models.Show {
	t.Helper()
	now := time.Now()
	show := &models.Show{
		VenueID:  venueID,
		ActID:    actID,
		Title:    "测试场次",
		StartsAt: now.Add(24 * time.Hour),
		EndsAt:   now.Add(27 * time.Hour),
		Status:   models.ShowStatusOnSale,
	}
	require.NoError(t, engine.Create(db, show, tc))
	return show
}

// ========== 盖章 ==========

func TestStampOverwritesCallerSuppliedTenant(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)

	// 调用方恶意填入租户2，落库必须是上下文租户1
	venue := &models.Venue{Name: "Arena", IsActive: true}
	venue.TenantID = t2
	require.NoError(t, engine.Create(db, venue, tenancy.NewContext(t1)))

	var stored models.Venue
	require.NoError(t, db.First(&stored, venue.ID).Error)
	assert.Equal(t, t1, stored.TenantID)
}

func TestRootCreateUnderSystemContextFails(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()

	venue := &models.Venue{Name: "Orphan Hall"}
	err := engine.Create(db, venue, tenancy.SystemContext())

	var missing *tenancy.MissingTenantContextError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "venues", missing.Table)

	var count int64
	require.NoError(t, db.Model(&models.Venue{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDependentIsNotStamped(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, _ := seedTenants(t, db)
	tc := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc, "音乐厅")
	act := createAct(t, db, engine, tc, "乐队A")
	show := createShow(t, db, engine, tc, venue.ID, act.ID)

	// 依赖实体无 tenant_id 列，只验证它能按关系取回
	var fetched models.Show
	err := db.Scopes(engine.Scope(&models.Show{}, tc)).First(&fetched, show.ID).Error
	require.NoError(t, err)
}

// ========== 读隔离 ==========

func TestRootReadIsolationBetweenTenants(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)

	createVenue(t, db, engine, tenancy.NewContext(t1), "租户一场馆")
	createVenue(t, db, engine, tenancy.NewContext(t2), "租户二场馆")

	var venues []models.Venue
	require.NoError(t, db.Scopes(engine.Scope(&models.Venue{}, tenancy.NewContext(t1))).Find(&venues).Error)
	require.Len(t, venues, 1)
	assert.Equal(t, "租户一场馆", venues[0].Name)

	// 对方租户读不到，空结果不是错误
	var others []models.Venue
	require.NoError(t, db.Scopes(engine.Scope(&models.Venue{}, tenancy.NewContext(t2))).
		Where("name = ?", "租户一场馆").Find(&others).Error)
	assert.Empty(t, others)
}

func TestDependentReadFollowsParentTenant(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)
	tc1 := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc1, "剧场")
	act := createAct(t, db, engine, tc1, "剧团")
	createShow(t, db, engine, tc1, venue.ID, act.ID)

	var shows []models.Show
	require.NoError(t, db.Scopes(engine.Scope(&models.Show{}, tc1)).Find(&shows).Error)
	assert.Len(t, shows, 1)

	require.NoError(t, db.Scopes(engine.Scope(&models.Show{}, tenancy.NewContext(t2))).Find(&shows).Error)
	assert.Empty(t, shows)
}

func TestDepthTwoTransitiveResolution(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)
	tc1 := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc1, "体育馆")
	act := createAct(t, db, engine, tc1, "歌手B")
	show := createShow(t, db, engine, tc1, venue.ID, act.ID)

	sale := &models.TicketSale{
		ShowID:    show.ID,
		Serial:    "serial-0001",
		BuyerName: "张三",
		Quantity:  2,
		Status:    models.SaleStatusConfirmed,
	}
	require.NoError(t, engine.Create(db, sale, tc1))

	// 本租户沿 show -> venue 两跳可见
	var sales []models.TicketSale
	require.NoError(t, db.Scopes(engine.Scope(&models.TicketSale{}, tc1)).Find(&sales).Error)
	require.Len(t, sales, 1)
	assert.Equal(t, "serial-0001", sales[0].Serial)

	// 其他租户不可见
	require.NoError(t, db.Scopes(engine.Scope(&models.TicketSale{}, tenancy.NewContext(t2))).Find(&sales).Error)
	assert.Empty(t, sales)
}

func TestSystemContextReadsAcrossTenants(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)

	createVenue(t, db, engine, tenancy.NewContext(t1), "场馆一")
	createVenue(t, db, engine, tenancy.NewContext(t2), "场馆二")

	var venues []models.Venue
	require.NoError(t, db.Scopes(engine.Scope(&models.Venue{}, tenancy.SystemContext())).Find(&venues).Error)
	assert.Len(t, venues, 2)
}

func TestUnclassifiedEntityQueryFails(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()

	var rows []widget
	err := db.Scopes(engine.Scope(widget{}, tenancy.NewContext(1))).Find(&rows).Error
	var unclassified *tenancy.UnclassifiedEntityError
	assert.ErrorAs(t, err, &unclassified)
}

// widget 未登记分类的实体
type widget struct {
	ID uint
}

func (widget) TableName() string { return "widgets" }

// ========== 写校验 ==========

func TestCrossTenantParentsRejected(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)

	venue := createVenue(t, db, engine, tenancy.NewContext(t1), "场馆甲")
	act := createAct(t, db, engine, tenancy.NewContext(t2), "团体乙")

	now := time.Now()
	show := &models.Show{
		VenueID:  venue.ID,
		ActID:    act.ID,
		Title:    "跨租户组合",
		StartsAt: now,
		EndsAt:   now.Add(2 * time.Hour),
	}
	err := engine.Create(db, show, tenancy.NewContext(t1))

	var mismatch *tenancy.TenantMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "act", mismatch.Accessor)

	// 未留下任何行
	var count int64
	require.NoError(t, db.Model(&models.Show{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestParentFromOtherTenantContextRejected(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)
	tc1 := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc1, "场馆丙")
	act := createAct(t, db, engine, tc1, "团体丙")

	// 父级全在租户1，但以租户2上下文写入
	now := time.Now()
	show := &models.Show{VenueID: venue.ID, ActID: act.ID, Title: "x", StartsAt: now, EndsAt: now.Add(time.Hour)}
	err := engine.Create(db, show, tenancy.NewContext(t2))

	var mismatch *tenancy.TenantMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestMissingParentRejected(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, _ := seedTenants(t, db)
	tc := tenancy.NewContext(t1)

	act := createAct(t, db, engine, tc, "团体丁")

	now := time.Now()
	show := &models.Show{VenueID: 9999, ActID: act.ID, Title: "x", StartsAt: now, EndsAt: now.Add(time.Hour)}
	err := engine.Create(db, show, tc)

	var mismatch *tenancy.TenantMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "venue", mismatch.Accessor)
}

func TestUpdateCannotChangeTenant(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, t2 := seedTenants(t, db)
	tc := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc, "场馆戊")

	require.NoError(t, engine.Update(db, venue, tc, map[string]interface{}{
		"tenant_id": t2,
		"city":      "北京",
	}))

	var stored models.Venue
	require.NoError(t, db.First(&stored, venue.ID).Error)
	assert.Equal(t, t1, stored.TenantID)
	assert.Equal(t, "北京", stored.City)
}

// ========== 删除策略 ==========

func TestVenueDeleteCascadesShowsAndSales(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, _ := seedTenants(t, db)
	tc := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc, "待拆场馆")
	act := createAct(t, db, engine, tc, "乐队C")
	show := createShow(t, db, engine, tc, venue.ID, act.ID)

	offer := &models.TicketOffer{ShowID: show.ID, Tier: "vip", PriceCents: 8800, Quota: 10, Status: models.OfferStatusOpen}
	require.NoError(t, engine.Create(db, offer, tc))
	sale := &models.TicketSale{ShowID: show.ID, Serial: "serial-0002", BuyerName: "李四", Quantity: 1, Status: models.SaleStatusConfirmed}
	require.NoError(t, engine.Create(db, sale, tc))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return engine.Delete(tx, venue, venue.ID)
	}))

	var shows, offers, sales int64
	require.NoError(t, db.Model(&models.Show{}).Count(&shows).Error)
	require.NoError(t, db.Model(&models.TicketOffer{}).Count(&offers).Error)
	require.NoError(t, db.Model(&models.TicketSale{}).Count(&sales).Error)
	assert.Zero(t, shows)
	assert.Zero(t, offers)
	assert.Zero(t, sales)

	// 另一条根（团体）不受影响
	var acts int64
	require.NoError(t, db.Model(&models.Act{}).Count(&acts).Error)
	assert.Equal(t, int64(1), acts)
}

func TestActDeleteRestrictedWhileShowsExist(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, _ := seedTenants(t, db)
	tc := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc, "场馆己")
	act := createAct(t, db, engine, tc, "在演团体")
	createShow(t, db, engine, tc, venue.ID, act.ID)

	err := db.Transaction(func(tx *gorm.DB) error {
		return engine.Delete(tx, act, act.ID)
	})

	var conflict *tenancy.CascadeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "acts", conflict.Table)
	assert.Equal(t, "shows", conflict.Dependent)

	// 团体与场次都原样保留
	var acts, shows int64
	require.NoError(t, db.Model(&models.Act{}).Count(&acts).Error)
	require.NoError(t, db.Model(&models.Show{}).Count(&shows).Error)
	assert.Equal(t, int64(1), acts)
	assert.Equal(t, int64(1), shows)
}

func TestActDeleteSucceedsAfterShowsRemoved(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine()
	t1, _ := seedTenants(t, db)
	tc := tenancy.NewContext(t1)

	venue := createVenue(t, db, engine, tc, "场馆庚")
	act := createAct(t, db, engine, tc, "收官团体")
	show := createShow(t, db, engine, tc, venue.ID, act.ID)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return engine.Delete(tx, show, show.ID)
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return engine.Delete(tx, act, act.ID)
	}))

	var acts int64
	require.NoError(t, db.Model(&models.Act{}).Count(&acts).Error)
	assert.Zero(t, acts)
}
