package departments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ems-go/apperror"
)

func strPtr(s string) *string { return &s }

func TestService_CreateAndGet(t *testing.T) {
	svc := NewDepartmentService(NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Name: "  Engineering ", Description: "  Builds the product  "})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Engineering", created.Name)
	assert.Equal(t, "Builds the product", created.Description)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)
}

func TestService_Create_BlankName(t *testing.T) {
	store := NewMemoryStore()
	svc := NewDepartmentService(store)
	ctx := context.Background()

	for _, name := range []string{"", " ", "\t\n  "} {
		_, err := svc.Create(ctx, CreateRequest{Name: name, Description: "x"})
		require.Error(t, err)
		assert.True(t, apperror.IsValidationError(err))
		assert.Equal(t, "Department name is required", err.(*apperror.AppError).Message)
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing may be persisted when validation fails")
}

func TestService_List_InsertionOrder(t *testing.T) {
	svc := NewDepartmentService(NewMemoryStore())
	ctx := context.Background()

	for _, name := range []string{"HR", "Engineering", "Finance"} {
		_, err := svc.Create(ctx, CreateRequest{Name: name})
		require.NoError(t, err)
	}

	deps, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	assert.Equal(t, []string{"HR", "Engineering", "Finance"}, []string{deps[0].Name, deps[1].Name, deps[2].Name})
}

func TestService_Update(t *testing.T) {
	svc := NewDepartmentService(NewMemoryStore())
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateRequest{Name: "HR", Description: "People"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, d.ID, UpdateRequest{Description: strPtr("  Hiring and people  ")})
	require.NoError(t, err)
	assert.Equal(t, "HR", updated.Name, "absent fields are left unchanged")
	assert.Equal(t, "Hiring and people", updated.Description)

	updated, err = svc.Update(ctx, d.ID, UpdateRequest{Name: strPtr(" People Ops ")})
	require.NoError(t, err)
	assert.Equal(t, "People Ops", updated.Name)
	assert.Equal(t, "Hiring and people", updated.Description)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Name, got.Name)
	assert.Equal(t, d.CreatedAt, got.CreatedAt)
}

func TestService_Update_Errors(t *testing.T) {
	svc := NewDepartmentService(NewMemoryStore())
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateRequest{Name: "HR"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, d.ID, UpdateRequest{})
	assert.True(t, apperror.IsValidationError(err))

	_, err = svc.Update(ctx, d.ID, UpdateRequest{Name: strPtr("   ")})
	assert.True(t, apperror.IsValidationError(err))

	_, err = svc.Update(ctx, "not-an-id", UpdateRequest{Name: strPtr("X")})
	assert.True(t, apperror.IsValidationError(err))

	_, err = svc.Update(ctx, "9b2e4c1a-7d3f-4e8b-a6c5-2f1e0d9c8b7a", UpdateRequest{Name: strPtr("X")})
	assert.True(t, apperror.IsNotFound(err))

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "HR", got.Name)
}

func TestService_Delete(t *testing.T) {
	svc := NewDepartmentService(NewMemoryStore())
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateRequest{Name: "Finance"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", deleted.Name)

	_, err = svc.Get(ctx, d.ID)
	assert.True(t, apperror.IsNotFound(err))

	for i := 0; i < 2; i++ {
		_, err = svc.Delete(ctx, d.ID)
		assert.True(t, apperror.IsNotFound(err), "deleting a missing id is always NotFound")
	}

	_, err = svc.Delete(ctx, "42")
	assert.True(t, apperror.IsValidationError(err))
}

func TestService_MalformedIDNeverReachesStore(t *testing.T) {
	svc := NewDepartmentService(failingStore{})
	ctx := context.Background()

	_, err := svc.Get(ctx, "xyz")
	assert.True(t, apperror.IsValidationError(err))
	_, err = svc.Delete(ctx, "xyz")
	assert.True(t, apperror.IsValidationError(err))
}

func TestService_StoreFailureIsServerError(t *testing.T) {
	svc := NewDepartmentService(failingStore{})
	ctx := context.Background()

	_, err := svc.List(ctx)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsServerError())

	_, err = svc.Create(ctx, CreateRequest{Name: "HR"})
	appErr, ok = apperror.FromError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsServerError())
}

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) List(context.Context) ([]*Department, error) { return nil, errStoreDown }
func (failingStore) Create(context.Context, *Department) error { return errStoreDown }
func (failingStore) Get(context.Context, string) (*Department, error) { return nil, errStoreDown }
func (failingStore) Update(context.Context, *Department) error { return errStoreDown }
func (failingStore) Delete(context.Context, string) (*Department, error) { return nil, errStoreDown }
func (failingStore) Count(context.Context) (int, error) { return 0, errStoreDown }
