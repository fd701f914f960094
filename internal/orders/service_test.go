package orders

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bleupos/sales-service/pkg/db/dbtest"
	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
	"github.com/bleupos/sales-service/pkg/logger"
)

var (
	admin   = Viewer{Username: "boss", Role: enums.RoleAdmin}
	manager = Viewer{Username: "mia", Role: enums.RoleManager}
	ana     = Viewer{Username: "ana", Role: enums.RoleCashier}
	staff   = Viewer{Username: "ben", Role: enums.RoleStaff}
)

type seededSales struct {
	anaOpen, benDone, anaCancelled, anaEmpty int64
}

func seedOrders(t *testing.T, db *gorm.DB) seededSales {
	t.Helper()
	base := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
	mk := func(cashier string, status enums.SaleStatus, offset time.Duration, discount string, items ...models.SaleItem) int64 {
		sale := models.Sale{
			OrderType:           "Dine-in",
			PaymentMethod:       "Cash",
			CashierName:         cashier,
			TotalDiscountAmount: decimal.RequireFromString(discount),
			Status:              status,
			CreatedAt:           base.Add(offset),
			UpdatedAt:           base.Add(offset),
		}
		require.NoError(t, db.Omit("Items", "Discounts").Create(&sale).Error)
		for i := range items {
			items[i].SaleID = sale.ID
		}
		if len(items) > 0 {
			require.NoError(t, db.Create(&items).Error)
		}
		return sale.ID
	}
	addons := `{"espressoShots":1}`
	return seededSales{
		anaOpen: mk("ana", enums.SaleStatusProcessing, 0, "10",
			models.SaleItem{ItemName: "Latte", Quantity: 2, UnitPrice: decimal.NewFromInt(100), Category: "Coffee", Addons: &addons},
			models.SaleItem{ItemName: "Croissant", Quantity: 1, UnitPrice: decimal.RequireFromString("55.50"), Category: "Pastry"},
		),
		benDone: mk("ben", enums.SaleStatusCompleted, time.Minute, "0",
			models.SaleItem{ItemName: "Mocha", Quantity: 1, UnitPrice: decimal.NewFromInt(120), Category: "Coffee"},
		),
		anaCancelled: mk("ana", enums.SaleStatusCancelled, 2*time.Minute, "0",
			models.SaleItem{ItemName: "Tea", Quantity: 3, UnitPrice: decimal.NewFromInt(50), Category: "Tea"},
		),
		anaEmpty: mk("ana", enums.SaleStatusProcessing, 3*time.Minute, "5"),
	}
}

func newTestService(t *testing.T) (Service, *gorm.DB, seededSales) {
	t.Helper()
	db := dbtest.Open(t)
	seeded := seedOrders(t, db)
	svc, err := NewService(ServiceParams{
		Logger:        logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard}),
		Repo:          NewRepository(db),
		DisplayPrefix: "SO-",
	})
	require.NoError(t, err)
	return svc, db, seeded
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func ids(views []OrderView) []int64 {
	out := make([]int64, 0, len(views))
	for _, v := range views {
		out = append(out, v.SaleID())
	}
	return out
}

func TestListProcessingForAdminSeesEveryCashierOldestFirst(t *testing.T) {
	svc, _, s := newTestService(t)

	views, err := svc.ListProcessing(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{s.anaOpen, s.benDone, s.anaEmpty}, ids(views))

	first := views[0]
	assert.Equal(t, 3, first.ItemCount)
	assert.Equal(t, 245.5, first.Total)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "Latte", first.Items[0].Name)
	assert.Equal(t, map[string]any{"espressoShots": float64(1)}, first.Items[0].Addons)

	assert.Equal(t, -5.0, views[2].Total)
	assert.Empty(t, views[2].Items)
}

func TestListProcessingManagerFilter(t *testing.T) {
	svc, _, s := newTestService(t)

	views, err := svc.ListProcessing(context.Background(), manager, " ben ")
	require.NoError(t, err)
	assert.Equal(t, []int64{s.benDone}, ids(views))
}

func TestListProcessingCashierIsPinnedToOwnOrders(t *testing.T) {
	svc, _, s := newTestService(t)

	views, err := svc.ListProcessing(context.Background(), ana, "ben")
	require.NoError(t, err)
	assert.Equal(t, []int64{s.anaOpen, s.anaEmpty}, ids(views))

	views, err = svc.ListProcessing(context.Background(), staff, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{s.benDone}, ids(views))
}

func TestListProcessingUnknownRoleForbidden(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListProcessing(context.Background(), Viewer{Username: "x", Role: enums.Role("guest")}, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestListAllIncludesCancelledNewestFirst(t *testing.T) {
	svc, _, s := newTestService(t)

	views, err := svc.ListAll(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{s.anaEmpty, s.anaCancelled, s.benDone, s.anaOpen}, ids(views))

	views, err = svc.ListAll(context.Background(), manager, "ana")
	require.NoError(t, err)
	assert.Equal(t, []int64{s.anaEmpty, s.anaCancelled, s.anaOpen}, ids(views))

	_, err = svc.ListAll(context.Background(), ana, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestUpdateStatus(t *testing.T) {
	svc, db, s := newTestService(t)

	msg, err := svc.UpdateStatus(context.Background(), ana, "so-"+itoa(s.anaOpen), "Completed")
	require.NoError(t, err)
	assert.Contains(t, msg, "successfully updated to 'completed'")

	var sale models.Sale
	require.NoError(t, db.First(&sale, "sale_id = ?", s.anaOpen).Error)
	assert.Equal(t, enums.SaleStatusCompleted, sale.Status)
	assert.True(t, sale.UpdatedAt.After(sale.CreatedAt))

	_, err = svc.UpdateStatus(context.Background(), ana, itoa(s.benDone), "processing")
	require.NoError(t, err)
}

func TestUpdateStatusErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, ana, "SO-99999", "completed")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateStatus(ctx, ana, "SO-abc", "completed")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, "invalid order identifier", pkgerrors.As(err).Message())

	_, err = svc.UpdateStatus(ctx, Viewer{Role: enums.Role("guest")}, "SO-1", "completed")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

type explodingRepo struct{ calls int }

func (r *explodingRepo) WithTx(*gorm.DB) Repository { return r }

func (r *explodingRepo) ListOrderRows(context.Context, ListQuery) ([]OrderRow, error) {
	r.calls++
	return nil, errors.New("connection reset")
}

func (r *explodingRepo) UpdateStatus(context.Context, int64, enums.SaleStatus, time.Time) (int64, error) {
	r.calls++
	return 0, errors.New("connection reset")
}

func TestUpdateStatusValidatesBeforeTouchingTheDatabase(t *testing.T) {
	repo := &explodingRepo{}
	svc, err := NewService(ServiceParams{
		Logger:        logger.New(logger.Options{Output: io.Discard}),
		Repo:          repo,
		DisplayPrefix: "SO-",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), ana, "SO-1", "refunded")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Zero(t, repo.calls)

	_, err = svc.UpdateStatus(context.Background(), ana, "SO-1", "completed")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	assert.Equal(t, 1, repo.calls)

	_, err = svc.ListAll(context.Background(), admin, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestParseOrderID(t *testing.T) {
	cases := map[string]int64{"42": 42, "SO-42": 42, "so-7": 7, " SO-100 ": 100}
	for raw, want := range cases {
		got, err := ParseOrderID("SO-", raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"", "SO-", "SO-x1", "0", "-3", "SO--3"} {
		_, err := ParseOrderID("SO-", raw)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), raw)
	}
}

func TestExportAllWritesWorkbook(t *testing.T) {
	svc, _, _ := newTestService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportAll(context.Background(), manager, "", &buf))
	assert.NotZero(t, buf.Len())

	err := svc.ExportAll(context.Background(), staff, "", &buf)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}
