package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/mock"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/models"
)

func newCategoryFixture() (*categoryService, *memDB) {
	db := newMemDB()
	audit := NewAuditService(db.storages().WeblogRepository, logger.Nop())
	return NewCategoryService(db.storages(), audit, logger.Nop()).(*categoryService), db
}

func categoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// ─────────────────────────────────────────────
// Create and listings
// ─────────────────────────────────────────────

func TestCategoryCreate_DefaultAndPrivate(t *testing.T) {
	svc, db := newCategoryFixture()
	ctx := context.Background()

	foodID, err := svc.Create(ctx, admin, models.CategoryCreate{Name: "Food", Description: "Meals", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, 0, db.linkCount(foodID), "default categories have no owner")

	_, err = svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly", IsDefault: true})
	require.ErrorIs(t, err, ErrForbidden)

	rentID, err := svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.NoError(t, err)
	assert.Equal(t, 1, db.linkCount(rentID))

	bobs, err := svc.GetAll(ctx, bob)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Food", "Rent"}, categoryNames(bobs))

	alices, err := svc.GetAll(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food"}, categoryNames(alices))
}

func TestCategoryCreate_AdminPrivateCategoryIsOwned(t *testing.T) {
	svc, db := newCategoryFixture()

	id, err := svc.Create(context.Background(), admin, models.CategoryCreate{Name: "Hobby", Description: "Models"})
	require.NoError(t, err)
	assert.Equal(t, 1, db.linkCount(id))
}

func TestCategoryCreate_Validation(t *testing.T) {
	svc, db := newCategoryFixture()

	_, err := svc.Create(context.Background(), bob, models.CategoryCreate{Name: "  ab  ", Description: "Monthly"})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.Empty(t, db.categories)
}

func TestCategoryCreate_LinkFailureRollsBack(t *testing.T) {
	db := newMemDB()
	ctrl := gomock.NewController(t)
	links := mock.NewMockUserToCategoryRepository(ctrl)
	links.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("insert failed"))

	storages := db.storages()
	storages.UserToCategoryRepository = links
	svc := NewCategoryService(storages, NewAuditService(storages.WeblogRepository, logger.Nop()), logger.Nop())

	_, err := svc.Create(context.Background(), bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.Error(t, err)
	assert.Empty(t, db.categories, "category must be rolled back together with its ownership row")
}

func TestCategoryGetAll_NoDuplicates(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, models.CategoryCreate{Name: "Food", Description: "Meals", IsDefault: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.NoError(t, err)

	first, err := svc.GetAll(ctx, bob)
	require.NoError(t, err)
	second, err := svc.GetAll(ctx, bob)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestCategoryGetAllAdmin(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, models.CategoryCreate{Name: "Food", Description: "Meals", IsDefault: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, models.CategoryCreate{Name: "Books", Description: "Reading"})
	require.NoError(t, err)

	_, err = svc.GetAllAdmin(ctx, bob, models.CategoryFilter{IncludeDefault: true})
	require.ErrorIs(t, err, ErrForbidden)

	all, err := svc.GetAllAdmin(ctx, admin, models.CategoryFilter{IncludeDefault: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Food", "Rent", "Books"}, categoryNames(all))

	private, err := svc.GetAllAdmin(ctx, admin, models.CategoryFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Rent", "Books"}, categoryNames(private))

	bobs, err := svc.GetAllAdmin(ctx, admin, models.CategoryFilter{UserID: ptr(bob.UserID), IncludeDefault: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Food", "Rent"}, categoryNames(bobs))

	bobsOwn, err := svc.GetAllAdmin(ctx, admin, models.CategoryFilter{UserID: ptr(bob.UserID)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rent"}, categoryNames(bobsOwn))
}

// ─────────────────────────────────────────────
// Update and delete
// ─────────────────────────────────────────────

func TestCategoryUpdate_Authorization(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	foodID, err := svc.Create(ctx, admin, models.CategoryCreate{Name: "Food", Description: "Meals", IsDefault: true})
	require.NoError(t, err)
	rentID, err := svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  models.Identity
		id      int64
		wantErr error
	}{
		{name: "missing", caller: admin, id: 9999, wantErr: ErrCategoryNotFound},
		{name: "default by user", caller: bob, id: foodID, wantErr: ErrForbidden},
		{name: "default by admin", caller: admin, id: foodID},
		{name: "private by stranger", caller: alice, id: rentID, wantErr: ErrForbidden},
		{name: "private by owner", caller: bob, id: rentID},
		{name: "private by admin", caller: admin, id: rentID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.caller, models.CategoryUpdate{CategoryID: tt.id, Description: ptr("Changed")})
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCategoryUpdate_Partial(t *testing.T) {
	svc, db := newCategoryFixture()
	ctx := context.Background()

	id, err := svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, bob, models.CategoryUpdate{CategoryID: id, Name: ptr(" Housing "), Description: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Housing", updated.Name)
	assert.Equal(t, "Monthly", updated.Description)
	assert.Equal(t, updated, db.categories[id])
}

func TestCategoryDelete_RetainsOwnership(t *testing.T) {
	svc, db := newCategoryFixture()
	ctx := context.Background()

	id, err := svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, alice, id), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, bob, id))

	assert.False(t, db.categories[id].Active)
	assert.Equal(t, 1, db.linkCount(id), "ownership row is kept after deactivation")

	require.ErrorIs(t, svc.Delete(ctx, bob, id), ErrCategoryNotFound)

	bobs, err := svc.GetAll(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)
}

func TestCategoryUpdate_OwnershipRow(t *testing.T) {
	t.Run("private category without owner", func(t *testing.T) {
		svc, db := newCategoryFixture()
		db.categories[500] = models.Category{CategoryID: 500, Name: "Orphan", Description: "No owner", Active: true}

		_, err := svc.Update(context.Background(), bob, models.CategoryUpdate{CategoryID: 500, Description: ptr("Changed")})
		require.ErrorIs(t, err, ErrForbidden)

		_, err = svc.Update(context.Background(), admin, models.CategoryUpdate{CategoryID: 500, Description: ptr("Changed")})
		require.NoError(t, err)
	})

	t.Run("ownership lookup fails", func(t *testing.T) {
		db := newMemDB()
		db.categories[500] = models.Category{CategoryID: 500, Name: "Rent", Description: "Monthly", Active: true}

		ctrl := gomock.NewController(t)
		links := mock.NewMockUserToCategoryRepository(ctrl)
		links.EXPECT().FindByCategoryID(gomock.Any(), int64(500)).Return(models.UserToCategory{}, store.ErrTemporarilyUnavailable)

		storages := db.storages()
		storages.UserToCategoryRepository = links
		svc := NewCategoryService(storages, NewAuditService(storages.WeblogRepository, logger.Nop()), logger.Nop())

		err := svc.Delete(context.Background(), bob, 500)
		require.ErrorIs(t, err, store.ErrTemporarilyUnavailable)
		assert.NotErrorIs(t, err, ErrForbidden)
		assert.True(t, db.categories[500].Active)
	})
}

// ─────────────────────────────────────────────
// ValidateCategory
// ─────────────────────────────────────────────

func TestValidateCategory(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	foodID, err := svc.Create(ctx, admin, models.CategoryCreate{Name: "Food", Description: "Meals", IsDefault: true})
	require.NoError(t, err)
	rentID, err := svc.Create(ctx, bob, models.CategoryCreate{Name: "Rent", Description: "Monthly"})
	require.NoError(t, err)
	goneID, err := svc.Create(ctx, bob, models.CategoryCreate{Name: "Gone", Description: "Deleted"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, bob, goneID))

	tests := []struct {
		name       string
		categoryID int64
		userID     int64
		isAdmin    bool
		want       bool
	}{
		{name: "zero id", categoryID: 0, userID: bob.UserID, isAdmin: true, want: false},
		{name: "missing", categoryID: 9999, userID: bob.UserID, want: false},
		{name: "default", categoryID: foodID, userID: alice.UserID, want: true},
		{name: "owned", categoryID: rentID, userID: bob.UserID, want: true},
		{name: "foreign", categoryID: rentID, userID: alice.UserID, want: false},
		{name: "foreign for admin", categoryID: rentID, userID: admin.UserID, isAdmin: true, want: true},
		{name: "inactive", categoryID: goneID, userID: bob.UserID, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateCategory(ctx, tt.categoryID, tt.userID, tt.isAdmin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCategory_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	categories := mock.NewMockCategoryRepository(ctrl)
	categories.EXPECT().FindActiveByID(gomock.Any(), int64(5)).Return(models.Category{}, store.ErrTemporarilyUnavailable)

	storages := newMemDB().storages()
	storages.CategoryRepository = categories
	svc := NewCategoryService(storages, NewAuditService(storages.WeblogRepository, logger.Nop()), logger.Nop())

	ok, err := svc.ValidateCategory(context.Background(), 5, bob.UserID, false)
	assert.False(t, ok)
	require.ErrorIs(t, err, store.ErrTemporarilyUnavailable)
}
