package report_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketgo/backend/internal/models"
	"marketgo/backend/internal/report"
	"marketgo/backend/internal/storage"
)

// memStore is a mutex-guarded in-memory implementation of report.Storage. It
// honors the same atomicity contracts as the SQL-backed service (single-shot
// increments, compare-and-set blocking), which the concurrency test relies on.
type memStore struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	products     map[uint]*models.Product
	reports      map[uint]*models.Report
	nextReportID uint

	blockTransitions   int
	dormantTransitions int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uint]*models.User),
		products: make(map[uint]*models.Product),
		reports:  make(map[uint]*models.Report),
	}
}

func (m *memStore) addUser(u models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = &u
	return &u
}

func (m *memStore) addProduct(p models.Product) *models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Status == "" {
		p.Status = models.ProductAvailable
	}
	m.products[p.ID] = &p
	return &p
}

func (m *memStore) GetUserByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) GetProductByID(id uint) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memStore) CreateReport(r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if (r.TargetUserID == nil) == (r.TargetProductID == nil) {
		return models.ErrAmbiguousTarget
	}
	m.nextReportID++
	r.ID = m.nextReportID
	copied := *r
	m.reports[r.ID] = &copied
	return nil
}

func (m *memStore) GetReportByID(id uint) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memStore) UpdateReport(r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[r.ID]; !ok {
		return storage.ErrNotFound
	}
	copied := *r
	m.reports[r.ID] = &copied
	return nil
}

func matches(r *models.Report, t models.Target) bool {
	if t.Kind == models.TargetUser {
		return r.TargetUserID != nil && *r.TargetUserID == t.ID
	}
	return r.TargetProductID != nil && *r.TargetProductID == t.ID
}

func active(r *models.Report) bool {
	return r.Status == models.ReportPending || r.Status == models.ReportApproved
}

func (m *memStore) HasActiveReport(reporterID uint, t models.Target) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ReporterID == reporterID && matches(r, t) && active(r) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CountActiveReports(t models.Target) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.reports {
		if matches(r, t) && active(r) {
			count++
		}
	}
	return count, nil
}

func (m *memStore) BlockProduct(productID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return false, storage.ErrNotFound
	}
	if p.Status == models.ProductBlocked {
		return false, nil
	}
	p.Status = models.ProductBlocked
	m.blockTransitions++
	return true, nil
}

func (m *memStore) IncrementUserReportCount(userID uint) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	u.ReportCount++
	return u.ReportCount, nil
}

func (m *memStore) SetUserDormant(userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return false, storage.ErrNotFound
	}
	if u.IsDormant {
		return false, nil
	}
	u.IsDormant = true
	m.dormantTransitions++
	return true, nil
}

const detail = "this listing is clearly a counterfeit item"

func TestFileReport_RejectsSelfTargets(t *testing.T) {
	store := newMemStore()
	reporter := store.addUser(models.User{ID: 1, Username: "alice"})
	store.addProduct(models.Product{ID: 10, SellerID: 1})
	svc := report.NewService(store, nil)

	_, err := svc.FileReport(reporter, models.UserTarget(1), models.ReasonFraud, detail)
	assert.ErrorIs(t, err, report.ErrInvalidTarget)

	_, err = svc.FileReport(reporter, models.ProductTarget(10), models.ReasonFraud, detail)
	assert.ErrorIs(t, err, report.ErrInvalidTarget)
}

func TestFileReport_RejectsBadInput(t *testing.T) {
	store := newMemStore()
	reporter := store.addUser(models.User{ID: 1})
	store.addUser(models.User{ID: 2})
	svc := report.NewService(store, nil)

	_, err := svc.FileReport(reporter, models.UserTarget(2), "nonsense", detail)
	assert.ErrorIs(t, err, report.ErrInvalidReason)

	_, err = svc.FileReport(reporter, models.UserTarget(2), models.ReasonFraud, "short")
	assert.ErrorIs(t, err, report.ErrDetailTooShort)

	_, err = svc.FileReport(reporter, models.Target{}, models.ReasonFraud, detail)
	assert.ErrorIs(t, err, report.ErrInvalidTarget)

	_, err = svc.FileReport(reporter, models.UserTarget(99), models.ReasonFraud, detail)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileReport_DuplicatePendingRejected(t *testing.T) {
	store := newMemStore()
	reporter := store.addUser(models.User{ID: 1})
	store.addUser(models.User{ID: 2})
	store.addProduct(models.Product{ID: 10, SellerID: 2})
	svc := report.NewService(store, nil)

	first, err := svc.FileReport(reporter, models.ProductTarget(10), models.ReasonFraud, detail)
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, first.Status)

	_, err = svc.FileReport(reporter, models.ProductTarget(10), models.ReasonOther, detail)
	assert.ErrorIs(t, err, report.ErrDuplicateReport)

	// A different target from the same reporter is fine.
	_, err = svc.FileReport(reporter, models.UserTarget(2), models.ReasonHarassment, detail)
	assert.NoError(t, err)
}

func TestFileReport_EscapesDetail(t *testing.T) {
	store := newMemStore()
	reporter := store.addUser(models.User{ID: 1})
	store.addUser(models.User{ID: 2})
	svc := report.NewService(store, nil)

	filed, err := svc.FileReport(reporter, models.UserTarget(2), models.ReasonHarassment,
		"sent me <script>alert(1)</script> repeatedly")
	require.NoError(t, err)
	assert.NotContains(t, filed.Detail, "<script>")
	assert.Contains(t, filed.Detail, "&lt;script&gt;")
}

func TestThreshold_ProductBlockedAtFive(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{ID: 100, Username: "seller"})
	store.addProduct(models.Product{ID: 10, SellerID: 100})
	svc := report.NewService(store, nil)

	for i := uint(1); i <= 4; i++ {
		reporter := store.addUser(models.User{ID: i})
		_, err := svc.FileReport(reporter, models.ProductTarget(10), models.ReasonFraud, detail)
		require.NoError(t, err)
	}
	product, _ := store.GetProductByID(10)
	assert.Equal(t, models.ProductAvailable, product.Status, "four reports must not block")

	fifth := store.addUser(models.User{ID: 5})
	_, err := svc.FileReport(fifth, models.ProductTarget(10), models.ReasonFraud, detail)
	require.NoError(t, err)

	product, _ = store.GetProductByID(10)
	assert.Equal(t, models.ProductBlocked, product.Status)
	assert.Equal(t, 1, store.blockTransitions)

	// A sixth report re-evaluates the threshold without a second transition.
	sixth := store.addUser(models.User{ID: 6})
	_, err = svc.FileReport(sixth, models.ProductTarget(10), models.ReasonFraud, detail)
	require.NoError(t, err)
	assert.Equal(t, 1, store.blockTransitions)
}

func TestThreshold_UserDormantAtFive(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{ID: 100, Username: "offender"})
	svc := report.NewService(store, nil)

	for i := uint(1); i <= 5; i++ {
		reporter := store.addUser(models.User{ID: i})
		_, err := svc.FileReport(reporter, models.UserTarget(100), models.ReasonHarassment, detail)
		require.NoError(t, err)
	}

	target, _ := store.GetUserByID(100)
	assert.True(t, target.IsDormant)
	assert.Equal(t, 1, store.dormantTransitions)
}

func TestThreshold_ConcurrentFilingsAreExact(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{ID: 100, Username: "seller"})
	store.addProduct(models.Product{ID: 10, SellerID: 100})
	svc := report.NewService(store, nil)

	const filers = 10
	var wg sync.WaitGroup
	for i := uint(1); i <= filers; i++ {
		reporter := store.addUser(models.User{ID: i})
		wg.Add(1)
		go func(r *models.User) {
			defer wg.Done()
			_, err := svc.FileReport(r, models.ProductTarget(10), models.ReasonFraud, detail)
			assert.NoError(t, err)
		}(reporter)
	}
	wg.Wait()

	count, err := store.CountActiveReports(models.ProductTarget(10))
	require.NoError(t, err)
	assert.EqualValues(t, filers, count, "no filing may be lost")

	product, _ := store.GetProductByID(10)
	assert.Equal(t, models.ProductBlocked, product.Status)
	assert.Equal(t, 1, store.blockTransitions, "consequence must apply exactly once")
}

func TestResolve_RequiresStaff(t *testing.T) {
	store := newMemStore()
	reporter := store.addUser(models.User{ID: 1})
	store.addUser(models.User{ID: 2})
	svc := report.NewService(store, nil)

	filed, err := svc.FileReport(reporter, models.UserTarget(2), models.ReasonFraud, detail)
	require.NoError(t, err)

	civilian := store.addUser(models.User{ID: 3})
	_, err = svc.ResolveReport(civilian, filed.ID, report.DecisionApprove)
	assert.ErrorIs(t, err, report.ErrForbidden)
}

func TestResolve_RejectOnlyChangesStatus(t *testing.T) {
	store := newMemStore()
	reporter := store.addUser(models.User{ID: 1})
	store.addUser(models.User{ID: 100, Username: "seller"})
	store.addProduct(models.Product{ID: 10, SellerID: 100})
	staff := store.addUser(models.User{ID: 50, IsStaff: true})
	svc := report.NewService(store, nil)

	filed, err := svc.FileReport(reporter, models.ProductTarget(10), models.ReasonFraud, detail)
	require.NoError(t, err)

	resolved, err := svc.ResolveReport(staff, filed.ID, report.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.ReportRejected, resolved.Status)
	assert.NotNil(t, resolved.ProcessedAt)
	assert.Equal(t, staff.ID, *resolved.ProcessedByID)

	product, _ := store.GetProductByID(10)
	assert.Equal(t, models.ProductAvailable, product.Status)

	// Processing twice is a stale transition.
	_, err = svc.ResolveReport(staff, filed.ID, report.DecisionApprove)
	assert.ErrorIs(t, err, report.ErrAlreadyProcessed)
}

func TestResolve_ApprovalAlwaysAppliesConsequence(t *testing.T) {
	store := newMemStore()
	reporter := store.addUser(models.User{ID: 1})
	store.addUser(models.User{ID: 100, Username: "seller"})
	store.addProduct(models.Product{ID: 10, SellerID: 100})
	staff := store.addUser(models.User{ID: 50, IsStaff: true})
	svc := report.NewService(store, nil)

	// One approval blocks the product even though the volume threshold is
	// nowhere near reached.
	filed, err := svc.FileReport(reporter, models.ProductTarget(10), models.ReasonCounterfeit, detail)
	require.NoError(t, err)
	_, err = svc.ResolveReport(staff, filed.ID, report.DecisionApprove)
	require.NoError(t, err)

	product, _ := store.GetProductByID(10)
	assert.Equal(t, models.ProductBlocked, product.Status)
}

func TestResolve_ApprovalsAccumulateUserConsequence(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{ID: 100, Username: "offender"})
	staff := store.addUser(models.User{ID: 50, IsStaff: true})
	svc := report.NewService(store, nil)

	for i := uint(1); i <= 4; i++ {
		reporter := store.addUser(models.User{ID: i})
		filed, err := svc.FileReport(reporter, models.UserTarget(100), models.ReasonHarassment, detail)
		require.NoError(t, err)
		_, err = svc.ResolveReport(staff, filed.ID, report.DecisionApprove)
		require.NoError(t, err)
	}

	target, _ := store.GetUserByID(100)
	assert.EqualValues(t, 4, target.ReportCount)
	assert.False(t, target.IsDormant)
}

func TestApproveFifthReportDoesNotDoubleApply(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{ID: 100, Username: "seller"})
	store.addProduct(models.Product{ID: 10, SellerID: 100})
	staff := store.addUser(models.User{ID: 50, IsStaff: true})
	svc := report.NewService(store, nil)

	var lastID uint
	for i := uint(1); i <= 5; i++ {
		reporter := store.addUser(models.User{ID: i})
		filed, err := svc.FileReport(reporter, models.ProductTarget(10), models.ReasonFraud, detail)
		require.NoError(t, err)
		lastID = filed.ID
	}

	// The fifth filing already auto-blocked; approving it afterwards is a
	// latched no-op, not a second transition.
	_, err := svc.ResolveReport(staff, lastID, report.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, 1, store.blockTransitions)
}

func TestNotifierReceivesAlerts(t *testing.T) {
	store := newMemStore()
	store.addUser(models.User{ID: 100, Username: "seller"})
	store.addProduct(models.Product{ID: 10, SellerID: 100})

	var alerts []string
	svc := report.NewService(store, alertFunc(func(text string) { alerts = append(alerts, text) }))

	for i := uint(1); i <= 5; i++ {
		reporter := store.addUser(models.User{ID: i})
		_, err := svc.FileReport(reporter, models.ProductTarget(10), models.ReasonFraud, detail)
		require.NoError(t, err)
	}

	require.Len(t, alerts, 1)
	assert.True(t, strings.Contains(alerts[0], "blocked"))
}

type alertFunc func(string)

func (f alertFunc) ModerationAlert(text string) { f(text) }
