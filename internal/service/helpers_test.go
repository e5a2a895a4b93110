package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/internal/stocklock"
	"waterlife-backoffice/internal/testutil"
	"waterlife-backoffice/internal/ws"
	"waterlife-backoffice/pkg/jwt"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	mu          sync.Mutex
	err         error
	quotations  []*model.Quotation
	sales       []*model.Sale
	credentials []string
}

func (f *fakeNotifier) SendQuotationEmails(_ context.Context, q *model.Quotation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotations = append(f.quotations, q)
	return f.err
}

func (f *fakeNotifier) SendSaleConfirmation(_ context.Context, sale *model.Sale, _ *model.User, _ *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sales = append(f.sales, sale)
	return f.err
}

func (f *fakeNotifier) SendNewUserCredentials(_ context.Context, _, email, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credentials = append(f.credentials, email)
	return f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (f *fakePublisher) Publish(e ws.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakePublisher) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Action
	}
	return out
}

type testEnv struct {
	db       *gorm.DB
	roles    map[string]model.Role
	notifier *fakeNotifier
	events   *fakePublisher
	admin    Actor
	tokens   *jwt.Manager

	identity   IdentityProvider
	auth       AuthService
	users      UserService
	materials  RawMaterialService
	products   ProductService
	suppliers  SupplierService
	purchases  PurchaseService
	sales      SaleService
	comments   CommentService
	quotations QuotationService
	reports    ReportService
	exports    ExportService
}

func newTestEnv(t *testing.T, pricingMode string) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()
	env := &testEnv{
		db:       db,
		roles:    testutil.SeedRoles(t, db),
		notifier: &fakeNotifier{},
		events:   &fakePublisher{},
	}

	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	materialRepo := repository.NewRawMaterialRepo(db)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	quotationRepo := repository.NewQuotationRepo(db)

	env.identity = NewIdentityProvider(userRepo, roleRepo)
	env.tokens = jwt.NewManager("test-secret", "waterlife-test", time.Hour)
	env.auth = NewAuthService(env.identity, env.tokens, log)
	env.users = NewUserService(env.identity, userRepo, roleRepo, env.notifier, log)
	env.materials = NewRawMaterialService(materialRepo, log)
	env.products = NewProductService(productRepo, materialRepo, db, pricingMode, env.events, log)
	env.suppliers = NewSupplierService(supplierRepo)
	env.purchases = NewPurchaseService(purchaseRepo, materialRepo, supplierRepo, db, stocklock.Nop(), env.events, log)
	env.sales = NewSaleService(saleRepo, productRepo, materialRepo, env.identity, db, stocklock.Nop(), env.notifier, env.events, log)
	env.comments = NewCommentService(commentRepo)
	env.quotations = NewQuotationService(quotationRepo, productRepo, env.notifier, env.events, log)
	env.reports = NewReportService(saleRepo)
	env.exports = NewExportService(saleRepo)

	admin := testutil.CreateUser(t, db, "Admin", "admin@example.com", env.roles[model.RoleAdmin])
	env.admin = Actor{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: model.RoleAdmin}
	return env
}

func (e *testEnv) client(t *testing.T, name, email string) *model.User {
	t.Helper()
	return testutil.CreateUser(t, e.db, name, email, e.roles[model.RoleClient])
}

func (e *testEnv) reloadMaterial(t *testing.T, m *model.RawMaterial) model.RawMaterial {
	t.Helper()
	var got model.RawMaterial
	require.NoError(t, e.db.First(&got, "id = ?", m.ID).Error)
	return got
}

func (e *testEnv) count(t *testing.T, value interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(value).Count(&n).Error)
	return n
}
