package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/pagination"
	"storefront-api/internal/repository"
)

func newUserService(t *testing.T, db *gorm.DB) UserService {
	t.Helper()
	return NewUserService(
		db,
		repository.NewUserRepository(db),
		repository.NewActivityLogRepository(db),
		"test-secret",
		time.Hour,
		zerolog.Nop(),
	)
}

func mustRegister(t *testing.T, svc UserService, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: "correct-horse",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	resp := mustRegister(t, svc, "buyer@example.com")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "customer", resp.User.Role)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "Buyer@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindAuthentication, appErr.Kind)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService(t, newTestDB(t))

	mustRegister(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "dup@example.com", Password: "correct-horse", Name: "Second",
	})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService(t, newTestDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "not-an-email", Password: "correct-horse", Name: "X"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "x@example.com", Password: "short", Name: "X"})
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
}

func TestSingleDefaultAddressPerType(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	user := mustRegister(t, svc, "addr@example.com").User

	first, err := svc.AddAddress(ctx, user.ID, &dto.AddressRequest{
		Type: "shipping", Address: "1 Old Rd", City: "Dublin", Country: "IE", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.AddAddress(ctx, user.ID, &dto.AddressRequest{
		Type: "shipping", Address: "2 New Rd", City: "Dublin", Country: "IE", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	// Billing defaults are independent of shipping defaults.
	_, err = svc.AddAddress(ctx, user.ID, &dto.AddressRequest{
		Type: "billing", Address: "3 Bill St", City: "Dublin", Country: "IE", IsDefault: true,
	})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)

	defaults := map[model.AddressType]int{}
	for _, addr := range profile.Addresses {
		if addr.IsDefault {
			defaults[addr.Type]++
		}
	}
	assert.Equal(t, 1, defaults[model.AddressTypeShipping])
	assert.Equal(t, 1, defaults[model.AddressTypeBilling])
}

func TestAddressValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	user := mustRegister(t, svc, "addr2@example.com").User

	_, err := svc.AddAddress(ctx, user.ID, &dto.AddressRequest{Type: "office", Address: "x", City: "y", Country: "z"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)

	err = svc.DeleteAddress(ctx, user.ID, "missing-address")
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
}

func TestUpdatePreferences(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	user := mustRegister(t, svc, "prefs@example.com").User

	news := true
	currency := "EUR"
	updated, err := svc.UpdatePreferences(ctx, user.ID, &dto.PreferencesPatch{
		Newsletter: &news,
		Currency:   &currency,
	})
	require.NoError(t, err)
	assert.True(t, updated.Preferences.Newsletter)
	assert.Equal(t, "EUR", updated.Preferences.Currency)
}

func TestAdminListWithOrderStats(t *testing.T) {
	db := newTestDB(t)
	userSvc := newUserService(t, db)
	orderSvc := newOrderService(t, db)
	ctx := context.Background()

	buyer := mustRegister(t, userSvc, "stats@example.com").User
	mustRegister(t, userSvc, "quiet@example.com")

	for i := 0; i < 2; i++ {
		_, _, err := orderSvc.Create(ctx, buyer.ID, twoItemOrder())
		require.NoError(t, err)
	}

	page, stats, err := userSvc.AdminList(ctx, "", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	require.Contains(t, stats, buyer.ID)
	assert.Equal(t, int64(2), stats[buyer.ID].OrderCount)
	assert.Equal(t, 52.0, stats[buyer.ID].TotalSpent)
	assert.NotContains(t, stats, "quiet")
}

func TestChangeRoleAndDeactivate(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	user := mustRegister(t, svc, "role@example.com").User

	require.NoError(t, svc.ChangeRole(ctx, user.ID, "support", "admin-1"))

	err := svc.ChangeRole(ctx, user.ID, "superuser", "admin-1")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)

	require.NoError(t, svc.SetActive(ctx, user.ID, false, "admin-1"))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "role@example.com", Password: "correct-horse"})
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindForbidden, appErr.Kind)

	assert.Equal(t, int64(1), countAuditEntries(t, db, model.ActionUserRoleChanged))
	assert.Equal(t, int64(1), countAuditEntries(t, db, model.ActionUserDeactivated))
}
