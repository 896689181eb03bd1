package impl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	mockRepo "library/internal/mocks/repository"
	mockSvc "library/internal/mocks/service"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// catalogServiceFixtures holds all test dependencies for catalog service tests.
type catalogServiceFixtures struct {
	service      *catalogService
	bookRepo     *mockRepo.MockBookRepository
	coverStorage *mockSvc.MockCoverStorage
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	bookRepo := mockRepo.NewMockBookRepository(t)
	coverStorage := mockSvc.NewMockCoverStorage(t)

	srv := NewCatalogService(CatalogServiceParams{
		BookRepo:     bookRepo,
		CoverStorage: coverStorage,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	}).(*catalogService)
	srv.now = fixedClock()

	return catalogServiceFixtures{
		service:      srv,
		bookRepo:     bookRepo,
		coverStorage: coverStorage,
	}
}

func validBookInput() *usecase.BookInput {
	return &usecase.BookInput{
		Title:       "Dom Casmurro",
		Author:      "Machado de Assis",
		Description: "Bentinho recalls his life with Capitu.",
		Year:        1899,
		Genre:       "Drama",
		PageCount:   256,
		CoverType:   "Soft",
		ISBN:        "9788535910663",
	}
}

func TestCatalogService_Create_WithCover(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	expectedName := "1710072000000-my-cover.png"

	fx.coverStorage.On("Save", ctx, expectedName, mock.Anything, "image/png").Return("/uploads/"+expectedName, nil)
	fx.bookRepo.On("Create", ctx, mock.AnythingOfType("*entity.Book")).Return(nil)

	book, err := fx.service.Create(ctx, validBookInput(), &usecase.CoverUpload{
		Filename: "my cover.png",
		Size:     int64(len(pngHeader)),
		Content:  bytes.NewReader(pngHeader),
	})

	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+expectedName, book.CoverImage)
	assert.Equal(t, entity.GenreDrama, book.Genre)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*usecase.BookInput)
	}{
		{name: "missing title", mutate: func(in *usecase.BookInput) { in.Title = " " }},
		{name: "unknown genre", mutate: func(in *usecase.BookInput) { in.Genre = "Poetry" }},
		{name: "unknown cover type", mutate: func(in *usecase.BookInput) { in.CoverType = "Spiral" }},
		{name: "negative pages", mutate: func(in *usecase.BookInput) { in.PageCount = -1 }},
		{name: "missing page count", mutate: func(in *usecase.BookInput) { in.PageCount = 0 }},
		{name: "missing description", mutate: func(in *usecase.BookInput) { in.Description = "  " }},
		{name: "missing year", mutate: func(in *usecase.BookInput) { in.Year = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestCatalogService(t)
			input := validBookInput()
			tt.mutate(input)

			_, err := fx.service.Create(context.Background(), input, nil)

			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			fx.bookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_Create_RejectsCover(t *testing.T) {
	tests := []struct {
		name  string
		cover *usecase.CoverUpload
	}{
		{
			name:  "declared size over limit",
			cover: &usecase.CoverUpload{Filename: "big.png", Size: 4096, Content: bytes.NewReader(pngHeader)},
		},
		{
			name:  "content over limit",
			cover: &usecase.CoverUpload{Filename: "big.png", Content: bytes.NewReader(append(pngHeader, make([]byte, 2048)...))},
		},
		{
			name:  "not an image",
			cover: &usecase.CoverUpload{Filename: "notes.png", Content: strings.NewReader("plain text pretending to be a png")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestCatalogService(t)

			_, err := fx.service.Create(context.Background(), validBookInput(), tt.cover)

			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCoverImage))
			fx.coverStorage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_Create_DuplicateIsbnRemovesUploadedCover(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()

	fx.coverStorage.On("Save", ctx, mock.Anything, mock.Anything, "image/png").Return("/uploads/new.png", nil)
	fx.bookRepo.On("Create", ctx, mock.AnythingOfType("*entity.Book")).
		Return(domainerrors.ErrIsbnAlreadyExists.WrapMessage("failed to create book"))
	fx.coverStorage.On("Delete", mock.Anything, "/uploads/new.png").Return(nil).Once()

	_, err := fx.service.Create(ctx, validBookInput(), &usecase.CoverUpload{Filename: "new.png", Content: bytes.NewReader(pngHeader)})
	fx.service.cleanup.Wait()

	assert.True(t, errors.Is(err, domainerrors.ErrIsbnAlreadyExists))
}

func TestCatalogService_Update_KeepsEmptyFieldsAndReplacesCover(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	bookID := uuid.New()
	current := &entity.Book{
		ID:          bookID,
		Title:       "Dom Casmurro",
		Author:      "Machado de Assis",
		Description: "Bentinho recalls his life with Capitu.",
		Year:        1899,
		Genre:       entity.GenreDrama,
		PageCount:   256,
		CoverType:   entity.CoverTypeSoft,
		ISBN:        "9788535910663",
		CoverImage:  "/uploads/old.png",
	}

	fx.bookRepo.On("FindByID", ctx, bookID).Return(current, nil)
	fx.coverStorage.On("Save", ctx, mock.Anything, mock.Anything, "image/png").Return("/uploads/new.png", nil)
	fx.bookRepo.On("Update", ctx, mock.AnythingOfType("*entity.Book")).Return(nil)
	fx.coverStorage.On("Delete", mock.Anything, "/uploads/old.png").Return(errors.New("disk gone")).Once()

	book, err := fx.service.Update(ctx, bookID, &usecase.BookInput{Title: "Memórias Póstumas", CoverType: "Hard"},
		&usecase.CoverUpload{Filename: "new.png", Content: bytes.NewReader(pngHeader)})
	fx.service.cleanup.Wait()

	require.NoError(t, err)
	assert.Equal(t, "Memórias Póstumas", book.Title)
	assert.Equal(t, "Machado de Assis", book.Author)
	assert.Equal(t, 1899, book.Year)
	assert.Equal(t, entity.CoverTypeHard, book.CoverType)
	assert.Equal(t, "/uploads/new.png", book.CoverImage)
}

func TestCatalogService_GetAndDelete_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	bookID := uuid.New()

	fx.bookRepo.On("FindByID", ctx, bookID).Return(nil, repository.ErrBookNotFound)

	_, err := fx.service.Get(ctx, bookID)
	assert.True(t, errors.Is(err, domainerrors.ErrBookNotFound))

	err = fx.service.Delete(ctx, bookID)
	assert.True(t, errors.Is(err, domainerrors.ErrBookNotFound))
}

func TestCatalogService_Delete_RemovesCover(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	bookID := uuid.New()

	fx.bookRepo.On("FindByID", ctx, bookID).Return(&entity.Book{ID: bookID, CoverImage: "/uploads/c.png"}, nil)
	fx.bookRepo.On("Delete", ctx, bookID).Return(nil)
	fx.coverStorage.On("Delete", mock.Anything, "/uploads/c.png").Return(nil).Once()

	err := fx.service.Delete(ctx, bookID)
	fx.service.cleanup.Wait()

	assert.NoError(t, err)
}

func TestCatalogService_Recent(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	books := []*entity.Book{{Title: "B"}, {Title: "A"}}

	fx.bookRepo.On("ListRecent", ctx, 2).Return(books, nil)

	recent, err := fx.service.Recent(ctx)

	require.NoError(t, err)
	assert.Equal(t, books, recent)
}

func TestCoverFileName(t *testing.T) {
	assert.Equal(t, "my-cover.png", coverFileName("my cover.png", ".png"))
	assert.Equal(t, "evil.png", coverFileName("../../evil.png", ".png"))
	assert.Equal(t, "cover.webp", coverFileName("", ".webp"))
	assert.Equal(t, "cover.jpg", coverFileName("...", ".jpg"))
}
