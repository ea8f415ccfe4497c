package service

import (
	"context"
	"testing"

	"blogapi/internal/http-api/apperr"
	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByIDAndPost(ctx context.Context, id, postID int64) (*models.Comment, error) {
	args := m.Called(ctx, id, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByPost(ctx context.Context, postID int64, page, limit int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, postID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) FindApprovedByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindDescendants(ctx context.Context, id int64) ([]models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountDescendants(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) IncrementLikeCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) DecrementLikeCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPostRepository mocks the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) FindFiltered(ctx context.Context, filter repository.PostFilter) ([]models.Post, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) IncrementViewCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IncrementLikeCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) DecrementLikeCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newCommentFixture() (*MockCommentRepository, *MockPostRepository, *MockUserRepository, CommentService) {
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)
	svc := NewCommentService(commentRepo, postRepo, userRepo)
	return commentRepo, postRepo, userRepo, svc
}

func TestCommentCreate_StartsApproved(t *testing.T) {
	commentRepo, postRepo, userRepo, svc := newCommentFixture()
	ctx := context.Background()

	postRepo.On("FindByID", ctx, int64(1)).Return(&models.Post{ID: 1}, nil)
	userRepo.On("FindByID", "u1").Return(&models.User{ID: "u1", Username: "alice"}, nil)
	commentRepo.On("Create", ctx, mock.MatchedBy(func(c *models.Comment) bool {
		return c.IsApproved && c.PostID == 1 && c.AuthorID == "u1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Comment).ID = 7
	}).Return(nil)
	commentRepo.On("FindByID", ctx, int64(7)).Return(&models.Comment{
		ID: 7, Content: "nice post", IsApproved: true, PostID: 1, AuthorID: "u1",
	}, nil)

	resp, err := svc.Create(ctx, dto.CreateCommentRequest{PostID: 1, Content: "nice post"}, "u1")

	assert.NoError(t, err)
	assert.True(t, resp.IsApproved)
	commentRepo.AssertExpectations(t)
}

func TestCommentCreate_SanitizesContent(t *testing.T) {
	commentRepo, postRepo, userRepo, svc := newCommentFixture()
	ctx := context.Background()

	postRepo.On("FindByID", ctx, int64(1)).Return(&models.Post{ID: 1}, nil)
	userRepo.On("FindByID", "u1").Return(&models.User{ID: "u1"}, nil)
	commentRepo.On("Create", ctx, mock.MatchedBy(func(c *models.Comment) bool {
		return c.Content == "hello"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Comment).ID = 8
	}).Return(nil)
	commentRepo.On("FindByID", ctx, int64(8)).Return(&models.Comment{ID: 8, Content: "hello"}, nil)

	_, err := svc.Create(ctx, dto.CreateCommentRequest{PostID: 1, Content: "<script>x</script>hello"}, "u1")

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentCreate_ParentOnOtherPost(t *testing.T) {
	commentRepo, postRepo, userRepo, svc := newCommentFixture()
	ctx := context.Background()

	postRepo.On("FindByID", ctx, int64(1)).Return(&models.Post{ID: 1}, nil)
	userRepo.On("FindByID", "u1").Return(&models.User{ID: "u1"}, nil)
	// Parent 33 exists but lives on another post, so the scoped lookup
	// comes back empty.
	commentRepo.On("FindByIDAndPost", ctx, int64(33), int64(1)).Return(nil, gorm.ErrRecordNotFound)

	parentID := int64(33)
	_, err := svc.Create(ctx, dto.CreateCommentRequest{PostID: 1, Content: "reply", ParentID: &parentID}, "u1")

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	commentRepo.AssertNotCalled(t, "Create")
}

func TestCommentCreate_PostNotFound(t *testing.T) {
	commentRepo, postRepo, _, svc := newCommentFixture()
	ctx := context.Background()

	postRepo.On("FindByID", ctx, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(ctx, dto.CreateCommentRequest{PostID: 404, Content: "hi"}, "u1")

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	commentRepo.AssertNotCalled(t, "Create")
}

func TestCommentUpdate_NonOwnerForbidden(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	commentRepo.On("FindByID", ctx, int64(5)).Return(&models.Comment{ID: 5, AuthorID: "owner"}, nil)

	_, err := svc.Update(ctx, 5, "edited", Caller{UserID: "intruder", Role: models.RoleUser})

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	commentRepo.AssertNotCalled(t, "Update")
}

func TestCommentUpdate_AdminBypassesOwnership(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	commentRepo.On("FindByID", ctx, int64(5)).Return(&models.Comment{ID: 5, AuthorID: "owner", Content: "old"}, nil)
	commentRepo.On("Update", ctx, mock.AnythingOfType("*models.Comment")).Return(nil)

	_, err := svc.Update(ctx, 5, "moderated", Caller{UserID: "staff", Role: models.RoleAdmin})

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentRemove_BlockedByReplies(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	commentRepo.On("FindByID", ctx, int64(5)).Return(&models.Comment{ID: 5, AuthorID: "u1"}, nil)
	commentRepo.On("CountDescendants", ctx, int64(5)).Return(int64(3), nil)

	err := svc.Remove(ctx, 5, Caller{UserID: "u1", Role: models.RoleUser})

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	commentRepo.AssertNotCalled(t, "Delete")
}

func TestCommentRemove_LeafByOwner(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	commentRepo.On("FindByID", ctx, int64(5)).Return(&models.Comment{ID: 5, AuthorID: "u1"}, nil)
	commentRepo.On("CountDescendants", ctx, int64(5)).Return(int64(0), nil)
	commentRepo.On("Delete", ctx, int64(5)).Return(nil)

	err := svc.Remove(ctx, 5, Caller{UserID: "u1", Role: models.RoleUser})

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentRemove_ModeratorIsNotOwner(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	commentRepo.On("FindByID", ctx, int64(5)).Return(&models.Comment{ID: 5, AuthorID: "owner"}, nil)

	err := svc.Remove(ctx, 5, Caller{UserID: "mod", Role: models.RoleModerator})

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCommentApprove_Toggles(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	commentRepo.On("FindByID", ctx, int64(5)).Return(&models.Comment{ID: 5, IsApproved: true}, nil)
	commentRepo.On("Update", ctx, mock.MatchedBy(func(c *models.Comment) bool {
		return !c.IsApproved
	})).Return(nil)

	_, err := svc.Approve(ctx, 5, false)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentUnlike_DelegatesToGuardedDecrement(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	// The repository clamps at zero; the service just checks existence
	// and delegates.
	commentRepo.On("FindByID", ctx, int64(5)).Return(&models.Comment{ID: 5, LikeCount: 0}, nil)
	commentRepo.On("DecrementLikeCount", ctx, int64(5)).Return(nil)

	err := svc.Unlike(ctx, 5)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentFindByPostID_PostNotFound(t *testing.T) {
	_, postRepo, _, svc := newCommentFixture()
	ctx := context.Background()

	postRepo.On("FindByID", ctx, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.FindByPostID(ctx, 404, 1, 10)

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCommentFindReplies(t *testing.T) {
	commentRepo, _, _, svc := newCommentFixture()
	ctx := context.Background()

	commentRepo.On("FindByID", ctx, int64(1)).Return(&models.Comment{ID: 1}, nil)
	commentRepo.On("FindDescendants", ctx, int64(1)).Return([]models.Comment{
		{ID: 2, Content: "first reply"},
		{ID: 3, Content: "nested reply"},
	}, nil)

	replies, err := svc.FindReplies(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, replies, 2)
}
