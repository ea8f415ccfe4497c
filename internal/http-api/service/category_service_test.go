package service

import (
	"context"
	"testing"

	"blogapi/internal/http-api/apperr"
	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateParent(ctx context.Context, id int64, parentID *int64) error {
	args := m.Called(ctx, id, parentID)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindPaginated(ctx context.Context, page, limit int) ([]models.Category, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) FindRoots(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindDescendants(ctx context.Context, id int64) ([]models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAncestors(ctx context.Context, id int64) ([]models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountDescendants(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) IsDescendant(ctx context.Context, ancestorID, descendantID int64) (bool, error) {
	args := m.Called(ctx, ancestorID, descendantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func int64Ptr(v int64) *int64 { return &v }

func TestCategoryCreate_DerivesSlug(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("SlugExists", ctx, "web-development").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Category")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Category).ID = 10
		}).Return(nil)
	repo.On("FindByID", ctx, int64(10)).Return(&models.Category{
		ID: 10, Name: "Web Development", Slug: "web-development", IsActive: true,
	}, nil)

	resp, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Web Development"})

	assert.NoError(t, err)
	assert.Equal(t, "web-development", resp.Slug)
	assert.True(t, resp.IsActive)
	repo.AssertExpectations(t)
}

func TestCategoryCreate_SlugConflict(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("SlugExists", ctx, "tech").Return(true, nil)

	_, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Tech"})

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	repo.AssertNotCalled(t, "Create")
}

func TestCategoryCreate_ParentNotFound(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("SlugExists", ctx, "go").Return(false, nil)
	repo.On("FindByID", ctx, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Go", ParentID: int64Ptr(99)})

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	repo.AssertNotCalled(t, "Create")
}

func TestCategoryCreate_UnusableName(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)

	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "!!!"})

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCategoryRemove_BlockedByChildren(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(1)).Return(&models.Category{ID: 1, Name: "Tech", Slug: "tech"}, nil)
	repo.On("CountDescendants", ctx, int64(1)).Return(int64(2), nil)

	err := svc.Remove(ctx, 1)

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	repo.AssertNotCalled(t, "Delete")
}

func TestCategoryRemove_Leaf(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(2)).Return(&models.Category{ID: 2, Name: "Go", Slug: "go"}, nil)
	repo.On("CountDescendants", ctx, int64(2)).Return(int64(0), nil)
	repo.On("Delete", ctx, int64(2)).Return(nil)

	err := svc.Remove(ctx, 2)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCategoryRemove_NotFound(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.Remove(ctx, 404)

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCategoryUpdate_ReparentUnderDescendant(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(1)).Return(&models.Category{ID: 1, Name: "Tech", Slug: "tech"}, nil)
	repo.On("FindByID", ctx, int64(2)).Return(&models.Category{ID: 2, Name: "Go", Slug: "go", ParentID: int64Ptr(1)}, nil)
	repo.On("IsDescendant", ctx, int64(1), int64(2)).Return(true, nil)

	_, err := svc.Update(ctx, 1, dto.UpdateCategoryRequest{ParentID: int64Ptr(2)})

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	repo.AssertNotCalled(t, "UpdateParent")
}

func TestCategoryUpdate_ReparentToSelf(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(1)).Return(&models.Category{ID: 1, Name: "Tech", Slug: "tech"}, nil)

	_, err := svc.Update(ctx, 1, dto.UpdateCategoryRequest{ParentID: int64Ptr(1)})

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCategoryUpdate_Reparent(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	node := &models.Category{ID: 3, Name: "Postgres", Slug: "postgres", ParentID: int64Ptr(1)}
	repo.On("FindByID", ctx, int64(3)).Return(node, nil)
	repo.On("FindByID", ctx, int64(2)).Return(&models.Category{ID: 2, Name: "Databases", Slug: "databases"}, nil)
	repo.On("IsDescendant", ctx, int64(3), int64(2)).Return(false, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Category")).Return(nil)
	repo.On("UpdateParent", ctx, int64(3), int64Ptr(2)).Return(nil)

	_, err := svc.Update(ctx, 3, dto.UpdateCategoryRequest{ParentID: int64Ptr(2)})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCategoryUpdate_NameRegeneratesSlug(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	name := "Cloud Native"
	repo.On("FindByID", ctx, int64(5)).Return(&models.Category{ID: 5, Name: "Cloud", Slug: "cloud"}, nil)
	repo.On("SlugExists", ctx, "cloud-native").Return(false, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.Slug == "cloud-native" && c.Name == "Cloud Native"
	})).Return(nil)

	_, err := svc.Update(ctx, 5, dto.UpdateCategoryRequest{Name: &name})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCategoryFindAncestors_RootFirst(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	// Go sits under Tech; its ancestor chain is just Tech.
	repo.On("FindByID", ctx, int64(2)).Return(&models.Category{ID: 2, Name: "Go", Slug: "go", ParentID: int64Ptr(1)}, nil)
	repo.On("FindAncestors", ctx, int64(2)).Return([]models.Category{
		{ID: 1, Name: "Tech", Slug: "tech"},
	}, nil)

	ancestors, err := svc.FindAncestors(ctx, 2)

	assert.NoError(t, err)
	assert.Len(t, ancestors, 1)
	assert.Equal(t, "Tech", ancestors[0].Name)
}

func TestCategoryFindChildren_ExcludesSelf(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, int64(1)).Return(&models.Category{ID: 1, Name: "Tech", Slug: "tech"}, nil)
	repo.On("FindDescendants", ctx, int64(1)).Return([]models.Category{
		{ID: 2, Name: "Go", Slug: "go", ParentID: int64Ptr(1)},
		{ID: 3, Name: "Postgres", Slug: "postgres", ParentID: int64Ptr(2)},
	}, nil)

	children, err := svc.FindChildren(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, children, 2)
	for _, child := range children {
		assert.NotEqual(t, int64(1), child.ID)
	}
}

func TestCategoryFindAll_NestsForest(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("FindAll", ctx).Return([]models.Category{
		{ID: 1, Name: "Tech", Slug: "tech"},
		{ID: 2, Name: "Go", Slug: "go", ParentID: int64Ptr(1)},
	}, nil)

	forest, err := svc.FindAll(ctx)

	assert.NoError(t, err)
	assert.Len(t, forest, 1)
	assert.Len(t, forest[0].Children, 1)
	assert.Equal(t, "Go", forest[0].Children[0].Name)
}
