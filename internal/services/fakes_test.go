package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"guidely/internal/models"
	"guidely/internal/repositories/interfaces"
	"guidely/internal/utils"
	"guidely/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	return log
}

// fakeAccountRepo mirrors the repository contract in memory, including the
// password projection split between GetByID and GetByEmail.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[primitive.ObjectID]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[primitive.ObjectID]*models.Account{}}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return utils.NewConflict(utils.ErrEmailRegistered)
		}
	}
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, utils.NewNotFound("account")
	}
	clone := *account
	clone.Password = ""
	return &clone, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, utils.NewNotFound("account")
}

func (r *fakeAccountRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return utils.NewNotFound("account")
	}
	if name, ok := updates["name"].(string); ok {
		account.Name = name
	}
	if phone, ok := updates["phone"].(string); ok {
		account.Phone = phone
	}
	if city, ok := updates["city"].(string); ok {
		account.City = city
	}
	if languages, ok := updates["languages"].([]string); ok {
		account.Languages = languages
	}
	account.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAccountRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return utils.NewNotFound("account")
	}
	account.Password = hash
	return nil
}

func (r *fakeAccountRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return utils.NewNotFound("account")
	}
	account.IsActive = active
	return nil
}

func (r *fakeAccountRepo) List(ctx context.Context, params *utils.PaginationParams, role models.AccountRole) ([]*models.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Account
	for _, account := range r.accounts {
		if role != "" && account.Role != role {
			continue
		}
		clone := *account
		clone.Password = ""
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeAccountRepo) CountByRole(ctx context.Context, role models.AccountRole) (int64, error) {
	accounts, total, _ := r.List(ctx, nil, role)
	_ = accounts
	return total, nil
}

// fakeBookingRepo keeps bookings and allocation slots in memory with the
// same compare-and-set and unique-slot semantics as the mongo repository.
type fakeBookingRepo struct {
	mu          sync.Mutex
	bookings    map[primitive.ObjectID]*models.Booking
	allocations []*models.GuideAllocation
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[primitive.ObjectID]*models.Booking{}}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.NewNotFound("booking")
	}
	clone := *booking
	return &clone, nil
}

func (r *fakeBookingRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.TransactionID == transactionID {
			clone := *booking
			return &clone, nil
		}
	}
	return nil, utils.NewNotFound("booking")
}

func (r *fakeBookingRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return utils.NewNotFound("booking")
	}
	if status, ok := updates["payment_status"].(models.BookingPaymentStatus); ok {
		booking.PaymentStatus = status
	}
	if paid, ok := updates["amount_paid"].(float64); ok {
		booking.AmountPaid = paid
	}
	booking.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return utils.NewNotFound("booking")
	}
	if booking.Status != from {
		return utils.NewConflict(fmt.Sprintf("booking is no longer %s", from))
	}
	booking.Status = to
	if guide, ok := updates["allocated_guide"].(primitive.ObjectID); ok {
		booking.AllocatedGuide = &guide
	}
	if status, ok := updates["payment_status"].(models.BookingPaymentStatus); ok {
		booking.PaymentStatus = status
	}
	if paid, ok := updates["amount_paid"].(float64); ok {
		booking.AmountPaid = paid
	}
	if reason, ok := updates["cancel_reason"].(string); ok {
		booking.CancelReason = reason
	}
	booking.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBookingRepo) List(ctx context.Context, params *utils.PaginationParams, filter *interfaces.BookingFilter) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Booking
	for _, booking := range r.bookings {
		if filter != nil {
			if filter.Status != "" && booking.Status != filter.Status {
				continue
			}
			if filter.Variant != "" && booking.Variant != filter.Variant {
				continue
			}
			if filter.LinkedTo != nil && booking.LinkedTo != *filter.LinkedTo {
				continue
			}
			if filter.Guide != nil && (booking.AllocatedGuide == nil || *booking.AllocatedGuide != *filter.Guide) {
				continue
			}
		}
		clone := *booking
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

func (r *fakeBookingRepo) AllocateGuide(ctx context.Context, bookingID, guideID primitive.ObjectID, days []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, day := range days {
		for _, slot := range r.allocations {
			if slot.GuideID == guideID && slot.Day == day {
				return utils.NewConflict("guide is already allocated on " + day)
			}
		}
	}
	for _, day := range days {
		r.allocations = append(r.allocations, &models.GuideAllocation{
			ID:        primitive.NewObjectID(),
			GuideID:   guideID,
			BookingID: bookingID,
			Day:       day,
			CreatedAt: time.Now(),
		})
	}
	return nil
}

func (r *fakeBookingRepo) ReleaseAllocations(ctx context.Context, bookingID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.allocations[:0]
	for _, slot := range r.allocations {
		if slot.BookingID != bookingID {
			kept = append(kept, slot)
		}
	}
	r.allocations = kept
	return nil
}

func (r *fakeBookingRepo) GetAllocations(ctx context.Context, guideID primitive.ObjectID, fromDay, toDay string) ([]*models.GuideAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.GuideAllocation
	for _, slot := range r.allocations {
		if slot.GuideID == guideID && slot.Day >= fromDay && slot.Day <= toDay {
			clone := *slot
			result = append(result, &clone)
		}
	}
	return result, nil
}

type fakePackageRepo struct {
	mu       sync.Mutex
	packages map[primitive.ObjectID]*models.Package

	lastListFilter *models.PackageFilter
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[primitive.ObjectID]*models.Package{}}
}

func (r *fakePackageRepo) Create(ctx context.Context, pkg *models.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg.ID = primitive.NewObjectID()
	pkg.CreatedAt = time.Now()
	pkg.UpdatedAt = pkg.CreatedAt
	clone := *pkg
	r.packages[pkg.ID] = &clone
	return nil
}

func (r *fakePackageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok {
		return nil, utils.NewNotFound("package")
	}
	clone := *pkg
	return &clone, nil
}

func (r *fakePackageRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pkg, ok := r.packages[id]
	if !ok {
		return utils.NewNotFound("package")
	}
	if status, ok := updates["status"].(models.PackageStatus); ok {
		pkg.Status = status
	}
	if featured, ok := updates["featured"].(bool); ok {
		pkg.Featured = featured
	}
	pkg.UpdatedAt = time.Now()
	return nil
}

func (r *fakePackageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.packages[id]; !ok {
		return utils.NewNotFound("package")
	}
	delete(r.packages, id)
	return nil
}

func (r *fakePackageRepo) List(ctx context.Context, params *utils.PaginationParams, filter *models.PackageFilter) ([]*models.Package, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastListFilter = filter
	var result []*models.Package
	for _, pkg := range r.packages {
		if filter != nil {
			if filter.Status != "" && pkg.Status != filter.Status {
				continue
			}
			if filter.Featured != nil && pkg.Featured != *filter.Featured {
				continue
			}
			if filter.City != "" && pkg.City != filter.City {
				continue
			}
		}
		clone := *pkg
		result = append(result, &clone)
	}
	return result, int64(len(result)), nil
}

// fakeNotifier records transactional sends; individual channels can be
// made to fail.
type fakeNotifier struct {
	mu sync.Mutex

	failResetEmail bool

	welcomeEmails     []string
	resetLinks        []string
	credentialEmails  []string
	paymentLinkEmails []string
	confirmations     int
	smsSends          int
}

func (n *fakeNotifier) SendWelcomeEmail(ctx context.Context, name, email string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomeEmails = append(n.welcomeEmails, email)
	return true
}

func (n *fakeNotifier) SendPasswordResetEmail(ctx context.Context, name, email, resetLink string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failResetEmail {
		return false
	}
	n.resetLinks = append(n.resetLinks, resetLink)
	return true
}

func (n *fakeNotifier) SendGuideCredentialsEmail(ctx context.Context, name, email, password string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.credentialEmails = append(n.credentialEmails, email)
	return true
}

func (n *fakeNotifier) SendPaymentLinkEmail(ctx context.Context, name, email string, amount float64, paymentLink string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paymentLinkEmails = append(n.paymentLinkEmails, email)
	return true
}

func (n *fakeNotifier) SendBookingConfirmationEmail(ctx context.Context, booking *models.Booking) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations++
	return true
}

func (n *fakeNotifier) SendBookingConfirmationSMS(ctx context.Context, booking *models.Booking) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.smsSends++
	return true
}

func (n *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) bool {
	return true
}

type pushedEvent struct {
	userID    primitive.ObjectID
	eventType string
	admin     bool
}

type fakePusher struct {
	mu     sync.Mutex
	events []pushedEvent
}

func (p *fakePusher) NotifyUser(userID primitive.ObjectID, eventType string, data map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushedEvent{userID: userID, eventType: eventType})
}

func (p *fakePusher) NotifyAdmins(eventType string, data map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushedEvent{eventType: eventType, admin: true})
}

func (p *fakePusher) userEvents(eventType string) []pushedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []pushedEvent
	for _, event := range p.events {
		if event.eventType == eventType && !event.admin {
			result = append(result, event)
		}
	}
	return result
}

// mapTokenCache is a TokenCache over a plain map; expirations are ignored.
type mapTokenCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMapTokenCache() *mapTokenCache {
	return &mapTokenCache{values: map[string]string{}}
}

func (c *mapTokenCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (c *mapTokenCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return fmt.Errorf("key not found: %s", key)
	}
	if target, ok := dest.(*string); ok {
		*target = value
		return nil
	}
	return fmt.Errorf("unsupported destination type")
}

func (c *mapTokenCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}
